package roadmap

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type trackSpec struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
	Type  string `yaml:"type"`
}

// MajorInfo is one selectable field of study.
type MajorInfo struct {
	Key         string   `yaml:"key"`
	Label       string   `yaml:"label"`
	Keywords    []string `yaml:"keywords"`
	Foundations []string `yaml:"foundations"`
	Core        []string `yaml:"core"`
	Projects    []string `yaml:"projects"`
}

func (m *MajorInfo) items(track string) []string {
	switch track {
	case "foundations":
		return m.Foundations
	case "core":
		return m.Core
	case "projects":
		return m.Projects
	}
	return nil
}

type Catalog struct {
	Version      int         `yaml:"version"`
	DefaultMajor string      `yaml:"default_major"`
	Tracks       []trackSpec `yaml:"tracks"`
	Majors       []MajorInfo `yaml:"majors"`
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return LoadCatalog(defaultCatalog)
})

// DefaultCatalog returns the embedded catalog. It panics if it fails validation.
func DefaultCatalog() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("embedded roadmap catalog: %v", err))
	}
	return c
}

func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode roadmap catalog: %w", err)
	}
	if c.Version < 1 {
		return nil, errors.New("roadmap catalog: version is required")
	}
	if len(c.Majors) == 0 || len(c.Tracks) == 0 {
		return nil, errors.New("roadmap catalog: majors and tracks are required")
	}
	if _, ok := c.Major(c.DefaultMajor); !ok {
		return nil, fmt.Errorf("roadmap catalog: default major %q is not listed", c.DefaultMajor)
	}
	return &c, nil
}

// Major looks a major up by its key, case-insensitively.
func (c *Catalog) Major(key string) (*MajorInfo, bool) {
	for i := range c.Majors {
		if strings.EqualFold(c.Majors[i].Key, key) {
			return &c.Majors[i], true
		}
	}
	return nil, false
}

// Label returns the display label for key, or key itself when unknown.
func (c *Catalog) Label(key string) string {
	if m, ok := c.Major(key); ok {
		return m.Label
	}
	return key
}

// InferMajor picks the major whose keyword pack matches the most skills.
// Ties go to the major declared first.
func (c *Catalog) InferMajor(skills []string) string {
	have := make(map[string]bool, len(skills))
	for _, s := range skills {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}

	best, bestHits := c.DefaultMajor, -1
	for _, m := range c.Majors {
		hits := 0
		for _, kw := range m.Keywords {
			if have[strings.ToLower(kw)] {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = m.Key, hits
		}
	}
	return best
}

// Local builds the offline plan for a major.
func (c *Catalog) Local(key string) *Plan {
	plan := &Plan{Title: "Roadmap: " + c.Label(key)}
	m, _ := c.Major(key)
	for _, spec := range c.Tracks {
		track := Track{Title: spec.Title, Items: []Item{}}
		if m != nil {
			for _, label := range m.items(spec.Key) {
				track.Items = append(track.Items, Item{Type: spec.Type, Label: label})
			}
		}
		plan.Tracks = append(plan.Tracks, track)
	}
	return plan
}
