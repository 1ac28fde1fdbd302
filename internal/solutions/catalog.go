// Package solutions categorizes a clustered problem and ranks known
// third-party solutions for it from a curated catalog.
package solutions

import (
	_ "embed"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/redscout/redscout-cli/internal/model"
)

//go:embed data/catalog.yaml
var defaultCatalogYAML []byte

// CategoryTerms associates a solution category with the phrases that
// indicate it. Declaration order breaks categorization ties.
type CategoryTerms struct {
	Name  string   `yaml:"name"`
	Terms []string `yaml:"terms"`
}

// Catalog is the administratively maintained solution catalog. It is
// read-only during a request; edits happen through the catalog CLI, never
// in-place at runtime.
type Catalog struct {
	CategoryTerms  []CategoryTerms             `yaml:"category_terms"`
	ConfidenceBase map[string]float64          `yaml:"confidence_base"`
	Solutions      map[string][]model.Solution `yaml:"solutions"`
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return parseCatalog(defaultCatalogYAML)
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "solutions: read catalog %s", path)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "solutions: unmarshal catalog")
	}
	if len(c.CategoryTerms) == 0 {
		return nil, eris.New("solutions: catalog defines no category terms")
	}
	return &c, nil
}

// Save writes the catalog back to a YAML file. Used only by the
// administrative catalog commands, never during request processing.
func (c *Catalog) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return eris.Wrap(err, "solutions: marshal catalog")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "solutions: write catalog %s", path)
	}
	return nil
}

// Add appends a solution to its category. Administrative path only.
func (c *Catalog) Add(s model.Solution) {
	if c.Solutions == nil {
		c.Solutions = make(map[string][]model.Solution)
	}
	category := s.Category
	if category == "" {
		category = "general"
	}
	c.Solutions[category] = append(c.Solutions[category], s)
}

// Categorize scores each category by counting its term occurrences in the
// combined text and picks the highest, falling back to "general".
func (c *Catalog) Categorize(text string) string {
	text = strings.ToLower(text)

	best := "general"
	bestScore := 0
	for _, ct := range c.CategoryTerms {
		score := 0
		for _, term := range ct.Terms {
			score += strings.Count(text, term)
		}
		if score > bestScore {
			best = ct.Name
			bestScore = score
		}
	}
	return best
}

// baseConfidence returns the per-category search confidence base.
func (c *Catalog) baseConfidence(category string) float64 {
	if v, ok := c.ConfidenceBase[category]; ok {
		return v
	}
	if v, ok := c.ConfidenceBase["default"]; ok {
		return v
	}
	return 0.5
}

// all returns every cataloged solution in category-map iteration-stable
// order: declared category-term order first, then any remaining categories
// sorted by name. Used for catalog-wide backfill.
func (c *Catalog) all() []model.Solution {
	var out []model.Solution
	seen := make(map[string]bool)

	appendCategory := func(category string) {
		for _, s := range c.Solutions[category] {
			if !seen[s.Name] {
				seen[s.Name] = true
				out = append(out, s)
			}
		}
	}

	covered := map[string]bool{"general": true}
	for _, ct := range c.CategoryTerms {
		covered[ct.Name] = true
		appendCategory(ct.Name)
	}
	appendCategory("general")

	var rest []string
	for category := range c.Solutions {
		if !covered[category] {
			rest = append(rest, category)
		}
	}
	sort.Strings(rest)
	for _, category := range rest {
		appendCategory(category)
	}
	return out
}
