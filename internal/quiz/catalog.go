package quiz

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed quiz.yaml
var defaultCatalog []byte

// MaxAnswer is the top of the 0..4 agreement scale.
const MaxAnswer = 4

type Category struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

type Question struct {
	Text string   `yaml:"text"`
	Tags []string `yaml:"tags"`
}

// Bucket groups majors and roles with a linear weighting over category scores.
type Bucket struct {
	Key     string             `yaml:"key"`
	Weights map[string]float64 `yaml:"weights"`
	Majors  []string           `yaml:"majors"`
	Jobs    []string           `yaml:"jobs"`
}

// Catalog is the static questionnaire together with its scoring tables.
type Catalog struct {
	Version       int               `yaml:"version"`
	Options       []string          `yaml:"options"`
	Categories    []Category        `yaml:"categories"`
	TraitKeys     []string          `yaml:"traits"`
	Questions     []Question        `yaml:"questions"`
	Buckets       []Bucket          `yaml:"buckets"`
	PooledBuckets int               `yaml:"pooled_buckets"`
	TopMajors     int               `yaml:"top_majors"`
	TopJobs       int               `yaml:"top_jobs"`
	RoadmapCodes  map[string]string `yaml:"roadmap_codes"`
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(defaultCatalog)
})

// Default returns the embedded questionnaire. It panics if it fails validation.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("embedded quiz catalog: %v", err))
	}
	return c
}

func Load(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode quiz catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("quiz catalog: %w", err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if c.Version < 1 {
		return errors.New("version is required")
	}
	if len(c.Options) != MaxAnswer+1 {
		return fmt.Errorf("expected %d answer options, got %d", MaxAnswer+1, len(c.Options))
	}
	if len(c.Questions) == 0 || len(c.Buckets) == 0 {
		return errors.New("questions and buckets are required")
	}

	known := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		known[cat.Key] = true
	}
	for _, trait := range c.TraitKeys {
		if !known[trait] {
			return fmt.Errorf("trait %q is not a category", trait)
		}
	}
	for i, q := range c.Questions {
		for _, tag := range q.Tags {
			if !known[tag] {
				return fmt.Errorf("question %d: unknown tag %q", i+1, tag)
			}
		}
	}
	for _, b := range c.Buckets {
		for cat := range b.Weights {
			if !known[cat] {
				return fmt.Errorf("bucket %s: unknown category %q", b.Key, cat)
			}
		}
		for _, major := range b.Majors {
			if c.RoadmapCodes[major] == "" {
				return fmt.Errorf("bucket %s: major %q has no roadmap code", b.Key, major)
			}
		}
	}
	return nil
}

// Label returns the display label of a category key.
func (c *Catalog) Label(key string) string {
	for _, cat := range c.Categories {
		if cat.Key == key {
			return cat.Label
		}
	}
	return key
}

// RoadmapCode maps a suggested major to its roadmap major key.
func (c *Catalog) RoadmapCode(major string) (string, bool) {
	code, ok := c.RoadmapCodes[major]
	return code, ok
}
