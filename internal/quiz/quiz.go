// Package quiz scores the self-assessment questionnaire and ranks suggested majors and roles.
package quiz

import (
	"cmp"
	"fmt"
	"slices"
)

// Scores are summed answers per category key.
type Scores map[string]int

type RankedBucket struct {
	Key    string   `json:"key"`
	Majors []string `json:"majors"`
	Jobs   []string `json:"jobs"`
	Score  float64  `json:"score"`
}

// Result is what the quiz suggests.
type Result struct {
	TopMajors     []string       `json:"topMajors"`
	TopJobs       []string       `json:"topJobs"`
	RankedBuckets []RankedBucket `json:"rankedBuckets"`
}

// Trait is one normalized personality trait for display.
type Trait struct {
	Key     string
	Label   string
	Raw     int
	Percent float64
}

// Scores sums every answer into each category tagged by its question.
func (c *Catalog) Scores(answers []int) Scores {
	s := make(Scores, len(c.Categories))
	for _, cat := range c.Categories {
		s[cat.Key] = 0
	}
	for i, v := range answers {
		if i >= len(c.Questions) {
			break
		}
		for _, tag := range c.Questions[i].Tags {
			s[tag] += v
		}
	}
	return s
}

// Traits normalizes the trait categories against their maximum reachable score,
// ordered from strongest to weakest.
func (c *Catalog) Traits(s Scores) []Trait {
	maxima := make(map[string]int)
	for _, q := range c.Questions {
		for _, tag := range q.Tags {
			maxima[tag] += MaxAnswer
		}
	}

	traits := make([]Trait, 0, len(c.TraitKeys))
	for _, key := range c.TraitKeys {
		limit := maxima[key]
		if limit == 0 {
			limit = 1
		}
		traits = append(traits, Trait{
			Key:     key,
			Label:   c.Label(key),
			Raw:     s[key],
			Percent: float64(s[key]) / float64(limit) * 100,
		})
	}
	slices.SortStableFunc(traits, func(a, b Trait) int {
		return cmp.Compare(b.Percent, a.Percent)
	})
	return traits
}

// Rank orders buckets by weighted score and pools the majors and roles of the best ones.
func (c *Catalog) Rank(s Scores) Result {
	ranked := make([]RankedBucket, 0, len(c.Buckets))
	for _, b := range c.Buckets {
		var score float64
		for cat, w := range b.Weights {
			score += w * float64(s[cat])
		}
		ranked = append(ranked, RankedBucket{Key: b.Key, Majors: b.Majors, Jobs: b.Jobs, Score: score})
	}
	slices.SortStableFunc(ranked, func(a, b RankedBucket) int {
		return cmp.Compare(b.Score, a.Score)
	})

	pool := ranked[:min(c.PooledBuckets, len(ranked))]
	return Result{
		TopMajors:     pooled(pool, func(b RankedBucket) []string { return b.Majors }, c.TopMajors),
		TopJobs:       pooled(pool, func(b RankedBucket) []string { return b.Jobs }, c.TopJobs),
		RankedBuckets: ranked,
	}
}

// pooled keeps the first occurrence of every name. Buckets are already ordered by
// score, so first-seen order is also highest-score order.
func pooled(buckets []RankedBucket, names func(RankedBucket) []string, limit int) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, limit)
	for _, b := range buckets {
		for _, name := range names(b) {
			if seen[name] {
				continue
			}
			seen[name] = true
			if len(out) < limit {
				out = append(out, name)
			}
		}
	}
	return out
}

// Session walks through the questionnaire one answer at a time.
type Session struct {
	catalog *Catalog
	step    int
	answers []int
	done    bool
}

func (c *Catalog) NewSession() *Session {
	return &Session{catalog: c, answers: make([]int, len(c.Questions))}
}

func (s *Session) Step() int  { return s.step }
func (s *Session) Total() int { return len(s.catalog.Questions) }
func (s *Session) Done() bool { return s.done }

// Question is the question at the current step.
func (s *Session) Question() Question {
	return s.catalog.Questions[s.step]
}

// Answer returns the recorded answer for step i, if any was given yet.
func (s *Session) Answer(i int) int {
	return s.answers[i]
}

// Pick records v for the current question and advances. Answering the last
// question completes the session.
func (s *Session) Pick(v int) error {
	if s.done {
		return fmt.Errorf("quiz is already complete")
	}
	if v < 0 || v > MaxAnswer {
		return fmt.Errorf("answer %d is out of range 0..%d", v, MaxAnswer)
	}
	s.answers[s.step] = v
	if s.step < s.Total()-1 {
		s.step++
	} else {
		s.done = true
	}
	return nil
}

// Back returns to the previous question. It does nothing on the first one.
func (s *Session) Back() {
	if s.step > 0 {
		s.step--
	}
}

func (s *Session) Answers() []int {
	return slices.Clone(s.answers)
}
