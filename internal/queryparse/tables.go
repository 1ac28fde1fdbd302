package queryparse

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/redscout/redscout-cli/internal/model"
)

//go:embed data/patterns.yaml
var defaultPatternsYAML []byte

// AudiencePattern maps trigger phrases to a target audience, its default
// source channels, and optional domain-specific seed query templates.
type AudiencePattern struct {
	Name        string   `yaml:"name"`
	Patterns    []string `yaml:"patterns"`
	Sources     []string `yaml:"sources"`
	SeedQueries []string `yaml:"seed_queries"`
}

// IntentPattern maps trigger phrases to a search intent.
type IntentPattern struct {
	Intent   model.IntentCategory `yaml:"intent"`
	Patterns []string             `yaml:"patterns"`
}

// WindowPattern maps trigger phrases to a time window.
type WindowPattern struct {
	Window   model.TimeWindow `yaml:"window"`
	Patterns []string         `yaml:"patterns"`
}

// Tables holds every lookup table the interpreter consults. The tables are
// configuration, not runtime state: they ship as embedded defaults and can
// be replaced wholesale from a YAML file.
type Tables struct {
	Audiences        []AudiencePattern                 `yaml:"audiences"`
	FallbackAudience AudiencePattern                   `yaml:"fallback_audience"`
	Intents          []IntentPattern                   `yaml:"intents"`
	TimeWindows      []WindowPattern                   `yaml:"time_windows"`
	SeedTemplates    map[model.IntentCategory][]string `yaml:"seed_templates"`
	ProblemKeywords  []string                          `yaml:"problem_keywords"`
	BusinessDomains  []string                          `yaml:"business_domains"`
}

// DefaultTables returns the embedded pattern tables.
func DefaultTables() (*Tables, error) {
	return parseTables(defaultPatternsYAML)
}

// LoadTables reads pattern tables from a YAML file.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "queryparse: read tables %s", path)
	}
	return parseTables(data)
}

func parseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrap(err, "queryparse: unmarshal tables")
	}
	if len(t.Audiences) == 0 {
		return nil, eris.New("queryparse: tables define no audiences")
	}
	if len(t.FallbackAudience.Sources) == 0 {
		return nil, eris.New("queryparse: fallback audience has no sources")
	}
	return &t, nil
}
