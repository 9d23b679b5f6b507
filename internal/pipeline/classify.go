package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

// PresenceResult is the classifier's estimate of a business's existing
// online footprint.
type PresenceResult struct {
	HasWebsite model.Presence
	HasApp     model.Presence
	Reason     string
}

// unclearResult is the safe default when the collaborator is unavailable or
// returns something unusable. Enrichment is advisory, not load-bearing.
func unclearResult(reason string) PresenceResult {
	return PresenceResult{
		HasWebsite: model.PresenceUnclear,
		HasApp:     model.PresenceUnclear,
		Reason:     reason,
	}
}

// Classifier estimates online presence via the language-model collaborator.
type Classifier struct {
	ai      anthropic.Client
	cfg     config.AnthropicConfig
	prompts Prompts
}

// NewClassifier creates a presence classifier.
func NewClassifier(ai anthropic.Client, cfg config.AnthropicConfig, prompts Prompts) *Classifier {
	return &Classifier{ai: ai, cfg: cfg, prompts: prompts}
}

// Classify never fails: collaborator errors and malformed replies degrade to
// the all-unclear result.
func (c *Classifier) Classify(ctx context.Context, name, snippet, link string) PresenceResult {
	temp := 0.2
	resp, err := c.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		System:      c.prompts.ClassifySystem,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(c.prompts.ClassifyUser, name, snippet, link)},
		},
	})
	if err != nil {
		zap.L().Warn("classify: collaborator call failed", zap.String("business", name), zap.Error(err))
		return unclearResult("classification unavailable")
	}

	resp.Usage.LogUsage(c.cfg.Model, "classify")
	return parsePresence(resp.Text())
}

type presenceReply struct {
	HasWebsite string `json:"has_website"`
	HasApp     string `json:"has_app"`
	Reason     string `json:"reason"`
}

// parsePresence decodes the model's JSON answer, tolerating markdown fences.
// Anything undecodable degrades to all-unclear.
func parsePresence(text string) PresenceResult {
	text = stripFences(text)

	var reply presenceReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return unclearResult("unparseable classification reply")
	}

	reason := strings.TrimSpace(reply.Reason)
	if reason == "" {
		reason = "no reason given"
	}
	return PresenceResult{
		HasWebsite: model.ParsePresence(reply.HasWebsite),
		HasApp:     model.ParsePresence(reply.HasApp),
		Reason:     reason,
	}
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
