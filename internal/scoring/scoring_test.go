package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jobsight/internal/jobs"
)

func ptr(v float64) *float64 { return &v }

func TestDefaultTablesLoad(t *testing.T) {
	tables := Default()
	require.NotNil(t, tables)
	assert.Equal(t, 1, tables.Version)
	assert.Len(t, tables.Skills, 40)
	assert.Len(t, tables.MajorKeywords, 15)
}

func TestDefaultTablesRateAJob(t *testing.T) {
	tables := Default()
	job := &jobs.Job{Title: "Go Developer", Company: "Acme", Location: "Berlin"}

	difficulty := tables.Difficulty(job)
	assert.Contains(t, tables.DifficultyTable.Labels, difficulty.Label)

	competitiveness := tables.Competitiveness(job)
	assert.Contains(t, tables.CompetitivenessTable.Labels, competitiveness.Label)
}

func TestLoadRejectsBrokenTables(t *testing.T) {
	_, err := Load([]byte("version: 0"))
	require.Error(t, err)

	broken := strings.Replace(string(defaultTables), `'intern|trainee'`, `'intern|(trainee'`, 1)
	_, err = Load([]byte(broken))
	require.ErrorContains(t, err, "seniority Intern")
}

func TestInferCurrency(t *testing.T) {
	tables := Default()

	tests := []struct {
		location string
		want     string
	}{
		{location: "Warszawa, mazowieckie", want: "PLN"},
		{location: "Berlin, Germany", want: "EUR"},
		{location: "London, UK", want: "GBP"},
		{location: "Boston, MA", want: "USD"},
		{location: "Dublin", want: "EUR"},
		{location: "Kharkiv, Ukraine", want: ""},
		{location: "Somewhere", want: ""},
		{location: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tables.InferCurrency(tt.location), tt.location)
	}
}

func TestLevel(t *testing.T) {
	tables := Default()

	tests := []struct {
		title string
		want  string
	}{
		{title: "Java Intern", want: "Intern"},
		{title: "Junior QA", want: "Junior"},
		{title: "Regular PHP Developer", want: "Mid"},
		{title: "Sr. Backend Engineer", want: "Senior"},
		{title: "Engineering Manager", want: "Lead+"},
		{title: "Go Developer", want: "Unspecified"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tables.Level(tt.title).Label, tt.title)
	}
}

func TestDifficulty(t *testing.T) {
	tables := Default()

	plain := tables.Difficulty(&jobs.Job{Title: "Go Developer"})
	assert.Equal(t, 3.0, plain.Value)
	assert.Equal(t, "Medium", plain.Label)

	skills := "java python kotlin spring react angular sql docker kubernetes kafka"
	heavy := tables.Difficulty(&jobs.Job{
		Title:       "Senior Engineer",
		Description: skills + strings.Repeat(" x", 700),
	})
	assert.Equal(t, 5.0, heavy.Value, "4 + 1 + 0.5 is clamped to 5")
	assert.Equal(t, "Very Hard", heavy.Label)

	medium := tables.Difficulty(&jobs.Job{Title: "Intern", Description: "java python sql docker git rest"})
	assert.Equal(t, 1.5, medium.Value)
	assert.Equal(t, "Easy", medium.Label)
}

func TestCompetitiveness(t *testing.T) {
	tables := Default()

	base := tables.Competitiveness(&jobs.Job{Title: "Developer", Company: "Tiny Co", Location: "Lublin"})
	assert.Equal(t, 2.5, base.Value)
	assert.Equal(t, "Medium", base.Label)

	hot := tables.Competitiveness(&jobs.Job{
		Title:       "Lead Engineer",
		Company:     "Google",
		Location:    "Kraków",
		Description: "Hybrid work",
		SalaryMin:   ptr(280000),
		SalaryMax:   ptr(360000),
	})
	assert.Equal(t, 5.0, hot.Value)
	assert.Equal(t, "Very High", hot.Label)
}

func TestCompetitivenessBrandNeedsWholeWord(t *testing.T) {
	tables := Default()

	got := tables.Competitiveness(&jobs.Job{Title: "Developer", Company: "Bringing Co"})
	assert.Equal(t, 2.5, got.Value)
}

func TestQuizFit(t *testing.T) {
	tables := Default()
	job := &jobs.Job{
		Title:       "Machine Learning Engineer",
		Description: "Train a model with pandas and numpy on statistics heavy data.",
	}

	_, ok := tables.QuizFit(job, nil)
	assert.False(t, ok)

	fit, ok := tables.QuizFit(job, []string{"Nursing", "Data Science"})
	require.True(t, ok)
	assert.Equal(t, "Data Science", fit.Major)
	assert.Equal(t, 100, fit.Percent)
	assert.Equal(t, "Excellent", fit.Label)

	none, ok := tables.QuizFit(&jobs.Job{Title: "Barista"}, []string{"Unknown Major"})
	require.True(t, ok)
	assert.Equal(t, 0, none.Percent)
	assert.Equal(t, "Poor", none.Label)
	assert.Equal(t, "Unknown Major", none.Major)
}
