// Package scoring holds the pure heuristics shown next to compared jobs.
package scoring

import (
	"math"
	"strings"

	"github.com/spigell/jobsight/internal/jobs"
)

// Score is a 1..5 rating with its label.
type Score struct {
	Value float64
	Label string
}

// Fit is how well a job matches the majors suggested by the quiz.
type Fit struct {
	Percent int
	Label   string
	Major   string
}

// Level reads a seniority bucket from a job title.
func (t *Tables) Level(title string) Level {
	for _, rule := range t.Seniority {
		if rule.re.MatchString(title) {
			return rule.Level
		}
	}
	return t.DefaultLevel
}

// CountSkills counts distinct known skills mentioned as whole words.
func (t *Tables) CountSkills(text string) int {
	n := 0
	for _, re := range t.skills {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

// Difficulty rates how demanding the job itself is.
func (t *Tables) Difficulty(job *jobs.Job) Score {
	d := t.DifficultyTable
	score := float64(t.Level(job.Title).Score)

	skills := t.CountSkills(job.Description)
	for _, b := range d.SkillBonus {
		if skills >= b.Min {
			score += b.Bonus
			break
		}
	}
	if len([]rune(job.Description)) > d.LongDescription {
		score += d.LongDescriptionBonus
	}

	return rated(score, d.Labels)
}

// Competitiveness rates how hard the job is to land.
func (t *Tables) Competitiveness(job *jobs.Job) Score {
	c := t.CompetitivenessTable
	score := c.Base

	if t.Level(job.Title).Score >= c.SeniorLevel {
		score += c.Step
	}
	if c.remote.MatchString(job.Description) {
		score += c.Step
	}
	if c.brands.MatchString(job.Company) {
		score += c.Step
	}
	if c.metros.MatchString(job.Location) {
		score += c.Step
	}
	if median, ok := job.MedianSalary(); ok && median > c.HighSalary {
		score += c.Step
	}

	return rated(score, c.Labels)
}

// InferCurrency guesses the salary currency from a location; "" when unknown.
func (t *Tables) InferCurrency(location string) string {
	location = strings.ToLower(location)
	for _, rule := range t.Currencies {
		if rule.re.MatchString(location) {
			return rule.Code
		}
	}
	return ""
}

// QuizFit scores a job against the quiz's suggested majors. ok is false when
// there are no majors to compare with.
func (t *Tables) QuizFit(job *jobs.Job, majors []string) (Fit, bool) {
	if len(majors) == 0 {
		return Fit{}, false
	}

	hay := haystack(job)
	bestMajor, bestHits := "", 0
	for _, m := range majors {
		name := strings.TrimSpace(m)
		keywords, ok := t.MajorKeywords[name]
		if !ok {
			continue
		}
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(hay, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestMajor, bestHits = name, hits
		}
	}
	if bestMajor == "" {
		bestMajor = majors[0]
	}

	pct := int(math.Min(100, math.Round(float64(bestHits)/float64(t.Fit.MaxHits)*100)))
	return Fit{Percent: pct, Label: t.fitLabel(pct), Major: bestMajor}, true
}

func (t *Tables) fitLabel(pct int) string {
	for _, th := range t.Fit.Labels {
		if pct >= th.Min {
			return th.Label
		}
	}
	return t.Fit.Labels[len(t.Fit.Labels)-1].Label
}

func haystack(job *jobs.Job) string {
	parts := []string{job.Title, job.Company, job.Location, job.Description, job.Category}
	return strings.ToLower(strings.Join(parts, " "))
}

func rated(score float64, labels []string) Score {
	score = math.Max(1, math.Min(5, score))
	return Score{Value: score, Label: labels[int(math.Round(score))-1]}
}
