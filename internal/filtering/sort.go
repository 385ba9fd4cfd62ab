package filtering

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/spigell/jobsight/internal/jobs"
)

// SortMode is the client-side ordering applied after filtering.
type SortMode string

const (
	SortDate       SortMode = "date"
	SortRelevance  SortMode = "relevance"
	SortSalaryHigh SortMode = "salaryHigh"
	SortSalaryLow  SortMode = "salaryLow"
)

// SortModes lists the accepted modes in display order.
var SortModes = []SortMode{SortDate, SortRelevance, SortSalaryHigh, SortSalaryLow}

func ParseSortMode(s string) (SortMode, error) {
	if s == "" {
		return SortDate, nil
	}
	for _, mode := range SortModes {
		if string(mode) == s {
			return mode, nil
		}
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

// ServerSort is the sortBy value sent to the search endpoint.
func (m SortMode) ServerSort() string {
	if m == SortRelevance {
		return string(SortRelevance)
	}
	return string(SortDate)
}

// Sort orders jobs in place. Relevance keeps the backend order.
func Sort(v *jobs.Jobs, mode SortMode) {
	if v == nil {
		return
	}
	switch mode {
	case SortSalaryHigh:
		slices.SortStableFunc(v.Items, func(a, b *jobs.Job) int {
			return cmp.Compare(salaryHigh(b), salaryHigh(a))
		})
	case SortSalaryLow:
		slices.SortStableFunc(v.Items, func(a, b *jobs.Job) int {
			return cmp.Compare(salaryLow(a), salaryLow(b))
		})
	case SortDate:
		slices.SortStableFunc(v.Items, func(a, b *jobs.Job) int {
			return cmp.Compare(postedMillis(b), postedMillis(a))
		})
	}
}

func salaryHigh(j *jobs.Job) float64 {
	if v, ok := j.MonthlyMax(); ok {
		return v
	}
	if v, ok := j.MonthlyMin(); ok {
		return v
	}
	return 0
}

func salaryLow(j *jobs.Job) float64 {
	if v, ok := j.MonthlyMin(); ok {
		return v
	}
	if v, ok := j.MonthlyMax(); ok {
		return v
	}
	return math.Inf(1)
}

func postedMillis(j *jobs.Job) int64 {
	if j.Created == nil {
		return 0
	}
	return j.Created.UnixMilli()
}
