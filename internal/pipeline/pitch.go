package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

// PitchGenerator drafts outreach messages via the language-model
// collaborator, framed by the presence classification.
type PitchGenerator struct {
	ai      anthropic.Client
	cfg     config.AnthropicConfig
	prompts Prompts
}

// NewPitchGenerator creates a pitch generator.
func NewPitchGenerator(ai anthropic.Client, cfg config.AnthropicConfig, prompts Prompts) *PitchGenerator {
	return &PitchGenerator{ai: ai, cfg: cfg, prompts: prompts}
}

// Generate returns the drafted pitch, or the empty string when the
// collaborator fails or produces nothing. Absence, not an error: a lead is
// never stored without a pitch, so callers skip the candidate instead.
func (g *PitchGenerator) Generate(ctx context.Context, name, category string, presence PresenceResult) string {
	var template string
	switch presence.HasWebsite {
	case model.PresenceNo:
		template = g.prompts.PitchNoSite
	case model.PresenceYes:
		template = g.prompts.PitchHasSite
	default:
		template = g.prompts.PitchUnclear
	}

	temp := 0.7
	resp, err := g.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		System:      g.prompts.PitchSystem,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(template, name, category)},
		},
	})
	if err != nil {
		zap.L().Warn("pitch: collaborator call failed", zap.String("business", name), zap.Error(err))
		return ""
	}

	resp.Usage.LogUsage(g.cfg.Model, "pitch")
	return strings.TrimSpace(resp.Text())
}
