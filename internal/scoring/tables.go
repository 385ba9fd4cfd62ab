package scoring

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTables []byte

// Level is a seniority bucket read from a job title.
type Level struct {
	Label string `yaml:"label"`
	Score int    `yaml:"score"`
}

type levelRule struct {
	Level   `yaml:",inline"`
	Pattern string `yaml:"pattern"`

	re *regexp.Regexp
}

type skillBonus struct {
	Min   int     `yaml:"min"`
	Bonus float64 `yaml:"bonus"`
}

type difficultyTable struct {
	SkillBonus           []skillBonus `yaml:"skill_bonus"`
	LongDescription      int          `yaml:"long_description"`
	LongDescriptionBonus float64      `yaml:"long_description_bonus"`
	Labels               []string     `yaml:"labels"`
}

type competitivenessTable struct {
	Base        float64  `yaml:"base"`
	Step        float64  `yaml:"step"`
	SeniorLevel int      `yaml:"senior_level"`
	HighSalary  float64  `yaml:"high_salary"`
	Remote      string   `yaml:"remote"`
	Brands      string   `yaml:"brands"`
	Metros      string   `yaml:"metros"`
	Labels      []string `yaml:"labels"`

	remote, brands, metros *regexp.Regexp
}

type currencyRule struct {
	Code    string `yaml:"code"`
	Pattern string `yaml:"pattern"`

	re *regexp.Regexp
}

type fitThreshold struct {
	Min   int    `yaml:"min"`
	Label string `yaml:"label"`
}

type fitTable struct {
	MaxHits int            `yaml:"max_hits"`
	Labels  []fitThreshold `yaml:"labels"`
}

// Tables holds the static keyword lists and thresholds behind every heuristic.
type Tables struct {
	Version              int                  `yaml:"version"`
	Skills               []string             `yaml:"skills"`
	Seniority            []levelRule          `yaml:"seniority"`
	DefaultLevel         Level                `yaml:"default_level"`
	DifficultyTable      difficultyTable      `yaml:"difficulty"`
	CompetitivenessTable competitivenessTable `yaml:"competitiveness"`
	Currencies           []currencyRule       `yaml:"currencies"`
	Fit                  fitTable             `yaml:"fit"`
	MajorKeywords        map[string][]string  `yaml:"major_keywords"`

	skills []*regexp.Regexp
}

var loadDefault = sync.OnceValues(func() (*Tables, error) {
	return Load(defaultTables)
})

// Default returns the embedded tables. It panics if they fail validation.
func Default() *Tables {
	t, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("embedded scoring tables: %v", err))
	}
	return t
}

// Load parses and validates a YAML table set.
func Load(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode scoring tables: %w", err)
	}
	if err := t.compile(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Tables) compile() error {
	if t.Version < 1 {
		return errors.New("scoring tables: version is required")
	}
	if len(t.DifficultyTable.Labels) != 5 || len(t.CompetitivenessTable.Labels) != 5 {
		return errors.New("scoring tables: difficulty and competitiveness need five labels each")
	}
	if t.Fit.MaxHits <= 0 || len(t.Fit.Labels) == 0 {
		return errors.New("scoring tables: fit needs max_hits and labels")
	}

	var err error
	compile := func(name, pattern string) *regexp.Regexp {
		if err != nil {
			return nil
		}
		var re *regexp.Regexp
		re, err = regexp.Compile("(?i)" + pattern)
		if err != nil {
			err = fmt.Errorf("scoring tables: %s: %w", name, err)
		}
		return re
	}

	t.skills = make([]*regexp.Regexp, 0, len(t.Skills))
	for _, skill := range t.Skills {
		t.skills = append(t.skills, compile("skill "+skill, `\b`+regexp.QuoteMeta(skill)+`\b`))
	}
	for i := range t.Seniority {
		t.Seniority[i].re = compile("seniority "+t.Seniority[i].Label, t.Seniority[i].Pattern)
	}
	for i := range t.Currencies {
		t.Currencies[i].re = compile("currency "+t.Currencies[i].Code, t.Currencies[i].Pattern)
	}
	c := &t.CompetitivenessTable
	c.remote = compile("remote", c.Remote)
	c.brands = compile("brands", c.Brands)
	c.metros = compile("metros", c.Metros)

	return err
}
