package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/leads"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/store"
	anthropicpkg "github.com/sells-group/leadgen-cli/pkg/anthropic"
	"github.com/sells-group/leadgen-cli/pkg/google"
	"github.com/sells-group/leadgen-cli/pkg/whatsapp"
)

// env holds the initialized store, lead book, and services the commands
// operate on.
type env struct {
	Store    store.Store
	Registry *leads.Registry
	Service  *leads.Service
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the environment.
func (e *env) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "file":
		path := cfg.Store.Path
		if path == "" {
			path = "leads.json"
		}
		return store.NewFile(path), nil
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "leads.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initEnv sets up the store, loads the lead book, and builds the pipeline
// and operator service. Callers should defer e.Close().
// The Anthropic key is the one mandatory credential: every other
// collaborator degrades, this one is checked up front.
func initEnv(ctx context.Context) (*env, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic API key is required (LEADGEN_ANTHROPIC_KEY)")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	registry := leads.NewRegistry(st)
	if err := registry.Load(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}

	prompts, err := pipeline.LoadPrompts(cfg.Prompts.Path)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	aiClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	searchClient := google.NewClient(cfg.Search.Key, cfg.Search.CX, google.WithBaseURL(cfg.Search.BaseURL))
	transport := whatsapp.NewClient(cfg.WhatsApp.Token, whatsapp.WithBaseURL(cfg.WhatsApp.BaseURL))

	classifier := pipeline.NewClassifier(aiClient, cfg.Anthropic, prompts)
	pitcher := pipeline.NewPitchGenerator(aiClient, cfg.Anthropic, prompts)

	return &env{
		Store:    st,
		Registry: registry,
		Service:  leads.NewService(registry, transport),
		Pipeline: pipeline.New(cfg, st, registry, searchClient, classifier, pitcher),
	}, nil
}
