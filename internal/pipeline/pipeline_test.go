package pipeline

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/leads"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
	"github.com/sells-group/leadgen-cli/pkg/google"
)

type pipelineHarness struct {
	pipeline *Pipeline
	registry *leads.Registry
	store    store.Store
	search   *mockSearchClient
	ai       *mockAIClient
}

func newPipelineHarness(t *testing.T) *pipelineHarness {
	t.Helper()

	cfg := &config.Config{}
	cfg.Search.ResultCount = 5
	cfg.Pipeline.ItemDelayMS = 1
	cfg.Anthropic.Model = "claude-haiku-4-5-20251001"
	cfg.Anthropic.MaxTokens = 300

	st := store.NewFile(filepath.Join(t.TempDir(), "leads.json"))
	registry := leads.NewRegistry(st)
	require.NoError(t, registry.Load(context.Background()))

	prompts := DefaultPrompts()
	search := new(mockSearchClient)
	ai := new(mockAIClient)

	return &pipelineHarness{
		pipeline: New(cfg, st, registry,
			search,
			NewClassifier(ai, cfg.Anthropic, prompts),
			NewPitchGenerator(ai, cfg.Anthropic, prompts),
		),
		registry: registry,
		store:    st,
		search:   search,
		ai:       ai,
	}
}

// classifyRequest matches the presence-classification call by its system
// prompt; pitchRequest matches the drafting call.
func classifyRequest() interface{} {
	system := DefaultPrompts().ClassifySystem
	return mock.MatchedBy(func(req anthropic.MessageRequest) bool { return req.System == system })
}

func pitchRequest() interface{} {
	system := DefaultPrompts().PitchSystem
	return mock.MatchedBy(func(req anthropic.MessageRequest) bool { return req.System == system })
}

func (h *pipelineHarness) stubCollaborators() {
	h.ai.On("CreateMessage", mock.Anything, classifyRequest()).
		Return(textResponse(`{"has_website": "no", "has_app": "no", "reason": "directory listing only"}`), nil)
	h.ai.On("CreateMessage", mock.Anything, pitchRequest()).
		Return(textResponse("Hi! We build affordable websites for local businesses."), nil)
}

func testResults() []google.Result {
	return []google.Result{
		{
			Title:   "ABC Fitness Gym - Best Gym in Indore",
			Snippet: "Call us at 9876543210 or 0123456789",
			Link:    "https://example.com/abc",
		},
		{
			Title:   "Peaceful Yoga Studio | Directory",
			Snippet: "A calm space in the city center",
			Link:    "https://example.com/yoga",
		},
		{
			Title:   "Abc Fitness",
			Snippet: "Contact 9876543210 for membership",
			Link:    "https://example.com/abc2",
		},
	}
}

func TestRun_Batch(t *testing.T) {
	h := newPipelineHarness(t)
	h.search.On("Search", mock.Anything, "gym in Indore contact number", 5).
		Return(testResults(), nil)
	h.stubCollaborators()

	run, err := h.pipeline.Run(context.Background(), "gym", "Indore")
	require.NoError(t, err)

	assert.Equal(t, 3, run.Results)
	assert.Equal(t, 1, run.Created)
	assert.Equal(t, 1, run.SkippedNoPhone)
	assert.Equal(t, 1, run.SkippedDuplicate)
	assert.Equal(t, 0, run.SkippedNoPitch)
	assert.Equal(t, "gym", run.Category)
	assert.Equal(t, "Indore", run.Location)

	book := h.registry.Snapshot()
	require.Len(t, book, 1)
	lead := book[0]
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), lead.ID)
	assert.Equal(t, "ABC Fitness Gym", lead.Name)
	assert.Equal(t, "gym", lead.Type)
	assert.Equal(t, "Indore", lead.Location)
	assert.Equal(t, []string{"9876543210", "0123456789"}, lead.Phones)
	assert.Equal(t, "Hi! We build affordable websites for local businesses.", lead.Pitch)
	assert.Equal(t, "https://example.com/abc", lead.Source)
	assert.Equal(t, model.PresenceNo, lead.HasWebsite)
	assert.Equal(t, model.StatusPending, lead.Status)
	assert.False(t, lead.AddedAt.IsZero())
	assert.Nil(t, lead.ContactedAt)

	// The batch is persisted and the run recorded.
	stored, err := h.store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	runs, err := h.store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestRun_RepeatRunNeverGrowsBook(t *testing.T) {
	h := newPipelineHarness(t)
	h.search.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return(testResults(), nil)
	h.stubCollaborators()

	_, err := h.pipeline.Run(context.Background(), "gym", "Indore")
	require.NoError(t, err)
	require.Len(t, h.registry.Snapshot(), 1)

	second, err := h.pipeline.Run(context.Background(), "gym", "Indore")
	require.NoError(t, err)

	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.SkippedDuplicate)
	assert.Len(t, h.registry.Snapshot(), 1)
}

func TestRun_NoPitchDropsCandidate(t *testing.T) {
	h := newPipelineHarness(t)
	h.search.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return(testResults()[:1], nil)
	h.ai.On("CreateMessage", mock.Anything, classifyRequest()).
		Return(textResponse(`{"has_website": "no", "has_app": "no", "reason": "x"}`), nil)
	h.ai.On("CreateMessage", mock.Anything, pitchRequest()).
		Return(nil, eris.New("api unavailable"))

	run, err := h.pipeline.Run(context.Background(), "gym", "Indore")
	require.NoError(t, err)

	assert.Equal(t, 1, run.SkippedNoPitch)
	assert.Equal(t, 0, run.Created)
	assert.Empty(t, h.registry.Snapshot())
}

func TestRun_SearchFailureDegradesToEmptyBatch(t *testing.T) {
	h := newPipelineHarness(t)
	h.search.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, eris.New("quota exceeded"))

	run, err := h.pipeline.Run(context.Background(), "gym", "Indore")
	require.NoError(t, err)

	assert.Equal(t, 0, run.Results)
	assert.Equal(t, 0, run.Created)
	assert.Empty(t, h.registry.Snapshot())
}

func TestBusinessName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ABC Fitness Gym - Best Gym in Indore", "ABC Fitness Gym"},
		{"ABC Fitness Gym | JustDial", "ABC Fitness Gym"},
		{"ABC Fitness Gym – Indore", "ABC Fitness Gym"},
		{"Plain Name", "Plain Name"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, businessName(c.in), "input %q", c.in)
	}
}
