package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/leads"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/google"
)

// Pipeline orchestrates one find-leads batch: search, phone extraction,
// dedup gate, presence classification, pitch drafting, store append.
type Pipeline struct {
	cfg        *config.Config
	store      store.Store
	registry   *leads.Registry
	search     google.Client
	classifier *Classifier
	pitcher    *PitchGenerator
}

// New creates a Pipeline with all dependencies.
func New(
	cfg *config.Config,
	st store.Store,
	registry *leads.Registry,
	searchClient google.Client,
	classifier *Classifier,
	pitcher *PitchGenerator,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		store:      st,
		registry:   registry,
		search:     searchClient,
		classifier: classifier,
		pitcher:    pitcher,
	}
}

// Run executes one batch for a category and location. Results are processed
// strictly sequentially with an inter-item delay so the collaborators see a
// single-lane request pattern. The book is persisted once after the batch;
// a crash mid-run loses at most that batch.
func (p *Pipeline) Run(ctx context.Context, category, location string) (model.PipelineRun, error) {
	log := zap.L().With(zap.String("category", category), zap.String("location", location))
	start := time.Now()

	run := model.PipelineRun{
		ID:        uuid.New().String(),
		Category:  category,
		Location:  location,
		StartedAt: start.UTC(),
	}

	query := fmt.Sprintf("%s in %s contact number", category, location)
	results, err := p.search.Search(ctx, query, p.cfg.Search.ResultCount)
	if err != nil {
		// Search degrades to an empty batch: the run reports zero results
		// instead of failing the command.
		log.Warn("pipeline: search unavailable", zap.Error(err))
		results = nil
	}
	run.Results = len(results)
	log.Info("pipeline: search complete", zap.Int("results", len(results)))

	index := NewDedupIndex(p.registry.Snapshot())
	limiter := rate.NewLimiter(rate.Every(p.itemDelay()), 1)

	for _, res := range results {
		if err := limiter.Wait(ctx); err != nil {
			return run, eris.Wrap(err, "pipeline: throttle wait")
		}

		name := businessName(res.Title)
		phones := ExtractPhones(res.Title + " " + res.Snippet)
		if len(phones) == 0 {
			run.SkippedNoPhone++
			continue
		}

		if index.IsDuplicate(name, phones) {
			run.SkippedDuplicate++
			log.Info("pipeline: duplicate skipped", zap.String("business", name))
			continue
		}

		presence := p.classifier.Classify(ctx, name, res.Snippet, res.Link)

		pitch := p.pitcher.Generate(ctx, name, category, presence)
		if pitch == "" {
			// Stored leads always carry a pitch; a candidate without one is
			// dropped, not stored empty.
			run.SkippedNoPitch++
			log.Warn("pipeline: no pitch, candidate dropped", zap.String("business", name))
			continue
		}

		id, err := p.registry.NextID()
		if err != nil {
			return run, err
		}

		source := res.Link
		if source == "" {
			source = "N/A"
		}

		p.registry.Append(model.Lead{
			ID:             id,
			Name:           name,
			Type:           category,
			Location:       location,
			Phones:         phones,
			Pitch:          pitch,
			Source:         source,
			HasWebsite:     presence.HasWebsite,
			HasApp:         presence.HasApp,
			PresenceReason: presence.Reason,
			Status:         model.StatusPending,
			AddedAt:        time.Now().UTC(),
		})
		index.Add(name, phones)
		run.Created++
	}

	if err := p.registry.Save(ctx); err != nil {
		return run, eris.Wrap(err, "pipeline: persist batch")
	}

	run.DurationMS = time.Since(start).Milliseconds()
	if err := p.store.RecordRun(ctx, run); err != nil {
		log.Warn("pipeline: failed to record run", zap.Error(err))
	}

	log.Info("pipeline: batch complete",
		zap.String("run_id", run.ID),
		zap.Int("created", run.Created),
		zap.Int("skipped_duplicate", run.SkippedDuplicate),
		zap.Int("skipped_no_phone", run.SkippedNoPhone),
		zap.Int("skipped_no_pitch", run.SkippedNoPitch),
		zap.Int64("duration_ms", run.DurationMS),
	)
	return run, nil
}

func (p *Pipeline) itemDelay() time.Duration {
	if p.cfg.Pipeline.ItemDelayMS <= 0 {
		return time.Millisecond
	}
	return time.Duration(p.cfg.Pipeline.ItemDelayMS) * time.Millisecond
}

// businessName trims search-result decoration from a title: anything after
// a separator like " - " or " | " is usually the site name or locality.
func businessName(title string) string {
	name := title
	for _, sep := range []string{" - ", " | ", " – "} {
		if idx := strings.Index(name, sep); idx > 0 {
			name = name[:idx]
		}
	}
	return strings.TrimSpace(name)
}
