package quiz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func fill(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Len(t, c.Questions, 24)
	assert.Len(t, c.Categories, 13)
	assert.Len(t, c.Buckets, 9)
	assert.Equal(t, []string{"R", "I", "A", "S", "E", "C"}, c.TraitKeys)
	assert.Len(t, c.Traits(c.Scores(nil)), len(c.TraitKeys))
}

func TestLoadRejectsMajorWithoutRoadmapCode(t *testing.T) {
	_, err := Load([]byte(`
version: 1
options: [a, b, c, d, e]
categories: [{key: I, label: Investigative}]
questions: [{text: q, tags: [I]}]
buckets: [{key: X, weights: {I: 1}, majors: [Alchemy], jobs: [Wizard]}]
`))
	require.ErrorContains(t, err, `major "Alchemy" has no roadmap code`)
}

func TestScoresAllMaxAnswers(t *testing.T) {
	c := Default()

	touched := make(map[string]int)
	for _, q := range c.Questions {
		for _, tag := range q.Tags {
			touched[tag]++
		}
	}

	scores := c.Scores(fill(len(c.Questions), MaxAnswer))
	for _, cat := range c.Categories {
		assert.Equal(t, MaxAnswer*touched[cat.Key], scores[cat.Key], cat.Key)
	}

	for _, trait := range c.Traits(scores) {
		assert.InDelta(t, 100, trait.Percent, 1e-9, trait.Key)
	}
}

func TestScoresPartialAnswers(t *testing.T) {
	c := Default()

	// Only the first question (tagged I) is answered.
	scores := c.Scores([]int{3})
	assert.Equal(t, 3, scores["I"])
	assert.Equal(t, 0, scores["R"])
	assert.Contains(t, scores, "ENGINEERING")
}

func TestRankPoolsTopBuckets(t *testing.T) {
	c := Default()

	scores := Scores{"IT": 8, "I": 20, "C": 10, "E": 2}
	result := c.Rank(scores)

	require.Len(t, result.RankedBuckets, 9)
	assert.Equal(t, "IT", result.RankedBuckets[0].Key)
	assert.Equal(t, 28.0, result.RankedBuckets[0].Score)
	assert.Equal(t, "ANALYTICS", result.RankedBuckets[1].Key)

	assert.Equal(t, []string{"Computer Science", "Software Engineering", "Information Systems"}, result.TopMajors)
	assert.Len(t, result.TopJobs, 6)
	assert.Equal(t, "Software Engineer", result.TopJobs[0])
}

func TestRankDeduplicatesMajors(t *testing.T) {
	c := Default()

	// OPS first, IT second: Information Systems appears in both.
	result := c.Rank(Scores{"C": 20, "IT": 10})
	assert.Equal(t, "OPS", result.RankedBuckets[0].Key)
	assert.Equal(t, []string{"Accounting", "Operations Management", "Information Systems"}, result.TopMajors)
}

func TestEveryTopMajorHasRoadmapCode(t *testing.T) {
	c := Default()
	for _, b := range c.Buckets {
		for _, m := range b.Majors {
			_, ok := c.RoadmapCode(m)
			assert.True(t, ok, m)
		}
	}
}

func TestSession(t *testing.T) {
	s := Default().NewSession()

	s.Back()
	assert.Equal(t, 0, s.Step())

	require.Error(t, s.Pick(5))
	require.Error(t, s.Pick(-1))

	require.NoError(t, s.Pick(2))
	require.NoError(t, s.Pick(3))
	assert.Equal(t, 2, s.Step())

	s.Back()
	assert.Equal(t, 1, s.Step())
	require.NoError(t, s.Pick(4))
	assert.Equal(t, 4, s.Answer(1))

	for !s.Done() {
		require.NoError(t, s.Pick(1))
	}
	assert.Equal(t, s.Total()-1, s.Step())
	require.Error(t, s.Pick(1))

	answers := s.Answers()
	assert.Len(t, answers, 24)
	assert.Equal(t, []int{2, 4, 1}, answers[:3])
}

type memoryCache struct {
	saved *Cached
}

func (m *memoryCache) SaveQuizResult(_ context.Context, c *Cached) error {
	m.saved = c
	return nil
}

type failingSubmitter struct {
	calls int
}

func (f *failingSubmitter) PostQuizResult(context.Context, *Submission) error {
	f.calls++
	return errors.New("endpoint missing")
}

func TestRecorderIgnoresSubmitFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cache := &memoryCache{}
	sub := &failingSubmitter{}
	at := time.UnixMilli(1717243200000)

	r := &Recorder{
		Catalog:   Default(),
		Cache:     cache,
		Submitter: sub,
		Logger:    zap.New(core),
		Now:       func() time.Time { return at },
	}

	cached, err := r.Record(context.Background(), fill(24, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, sub.calls)
	assert.Same(t, cached, cache.saved)
	assert.Equal(t, int64(1717243200000), cached.At)
	assert.Len(t, cached.Result.TopMajors, 3)
	assert.Equal(t, 1, logs.FilterMessage("posting quiz result failed").Len())
}
