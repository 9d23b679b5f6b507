package pipeline

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Prompts holds the templates driving the two language-model calls. The
// defaults work out of the box; operators can override any of them from a
// YAML file to tune tone without a rebuild.
type Prompts struct {
	ClassifySystem string `yaml:"classify_system"`
	ClassifyUser   string `yaml:"classify_user"`
	PitchSystem    string `yaml:"pitch_system"`
	PitchNoSite    string `yaml:"pitch_no_site"`
	PitchHasSite   string `yaml:"pitch_has_site"`
	PitchUnclear   string `yaml:"pitch_unclear"`
}

// DefaultPrompts returns the built-in templates.
func DefaultPrompts() Prompts {
	return Prompts{
		ClassifySystem: `You evaluate the online presence of small local businesses from search result snippets. Respond with a single JSON object and nothing else: {"has_website": "yes|no|unclear", "has_app": "yes|no|unclear", "reason": "<one short sentence>"}`,
		ClassifyUser: `Business name: %s
Search snippet: %s
Source link: %s

Does this business appear to have its own website, and its own mobile app?`,
		PitchSystem: `You write short WhatsApp outreach messages for a web and app development agency. Friendly, specific to the business, no pressure. Hard limit 120 words. Plain text only, no markdown, no placeholders.`,
		PitchNoSite: `Draft an outreach message to %s, a %s. They appear to have no website of their own. Lead with what an affordable website could do for a business like theirs.`,
		PitchHasSite: `Draft an outreach message to %s, a %s. They already have a website. Lead with how a refresh or a companion mobile app could bring them more customers.`,
		PitchUnclear: `Draft an outreach message to %s, a %s. Their online presence is unclear. Lead with a short question about how they currently reach customers online, then offer help with websites and apps.`,
	}
}

// LoadPrompts reads overrides from a YAML file and merges them over the
// defaults. An empty path returns the defaults unchanged.
func LoadPrompts(path string) (Prompts, error) {
	p := DefaultPrompts()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p, eris.Wrapf(err, "prompts: read %s", path)
	}

	var override Prompts
	if err := yaml.Unmarshal(data, &override); err != nil {
		return p, eris.Wrapf(err, "prompts: unmarshal %s", path)
	}

	if override.ClassifySystem != "" {
		p.ClassifySystem = override.ClassifySystem
	}
	if override.ClassifyUser != "" {
		p.ClassifyUser = override.ClassifyUser
	}
	if override.PitchSystem != "" {
		p.PitchSystem = override.PitchSystem
	}
	if override.PitchNoSite != "" {
		p.PitchNoSite = override.PitchNoSite
	}
	if override.PitchHasSite != "" {
		p.PitchHasSite = override.PitchHasSite
	}
	if override.PitchUnclear != "" {
		p.PitchUnclear = override.PitchUnclear
	}
	return p, nil
}
