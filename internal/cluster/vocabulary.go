package cluster

import (
	_ "embed"
	"os"
	"regexp"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed data/vocabulary.yaml
var defaultVocabularyYAML []byte

// CategoryGroup is one problem category and the vocabulary terms that
// indicate it. Declaration order breaks ties when categorizing a result.
type CategoryGroup struct {
	Name  string   `yaml:"name"`
	Terms []string `yaml:"terms"`
}

// PatternGroup names a common theme and the phrases that reveal it in
// member text (used for cluster descriptions).
type PatternGroup struct {
	Name    string   `yaml:"name"`
	Phrases []string `yaml:"phrases"`
}

// Vocabulary holds the fixed term lists the clustering engine scans for.
// Like the interpreter's pattern tables, it is configuration: embedded
// defaults, replaceable from a YAML file.
type Vocabulary struct {
	Categories     []CategoryGroup   `yaml:"categories"`
	NegativeWords  []string          `yaml:"negative_words"`
	PositiveWords  []string          `yaml:"positive_words"`
	UrgencyPhrases []string          `yaml:"urgency_phrases"`
	TitleTemplates map[string]string `yaml:"title_templates"`
	CommonPatterns []PatternGroup    `yaml:"common_patterns"`

	// termMatchers holds one compiled word-boundary prefix matcher per
	// vocabulary term, built once at load.
	termMatchers map[string]*regexp.Regexp
}

// DefaultVocabulary returns the embedded vocabulary.
func DefaultVocabulary() (*Vocabulary, error) {
	return parseVocabulary(defaultVocabularyYAML)
}

// LoadVocabulary reads a vocabulary from a YAML file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "cluster: read vocabulary %s", path)
	}
	return parseVocabulary(data)
}

func parseVocabulary(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, eris.Wrap(err, "cluster: unmarshal vocabulary")
	}
	if len(v.Categories) == 0 {
		return nil, eris.New("cluster: vocabulary defines no categories")
	}

	v.termMatchers = make(map[string]*regexp.Regexp)
	for _, group := range v.Categories {
		if len(group.Terms) == 0 {
			return nil, eris.Errorf("cluster: category %s has no terms", group.Name)
		}
		for _, term := range group.Terms {
			if _, ok := v.termMatchers[term]; ok {
				continue
			}
			re, err := regexp.Compile(`\b` + regexp.QuoteMeta(term))
			if err != nil {
				return nil, eris.Wrapf(err, "cluster: compile matcher for %q", term)
			}
			v.termMatchers[term] = re
		}
	}
	return &v, nil
}

// countTerm counts word-boundary prefix occurrences of a vocabulary term in
// lower-cased text.
func (v *Vocabulary) countTerm(text, term string) int {
	re, ok := v.termMatchers[term]
	if !ok {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}
