package jobs

import (
	"math"
	"regexp"
)

// annualThreshold separates annual figures from monthly ones.
const annualThreshold = 100000

// WorkStyle is the coarse remote/hybrid/onsite classification.
type WorkStyle string

const (
	Remote WorkStyle = "Remote"
	Hybrid WorkStyle = "Hybrid"
	Onsite WorkStyle = "Onsite"
)

var (
	remotePattern = regexp.MustCompile(`(?i)remote`)
	hybridPattern = regexp.MustCompile(`(?i)hybrid`)
)

// ToMonthly treats values >= 100000 as annual.
func ToMonthly(v float64) float64 {
	if v >= annualThreshold {
		return math.Round(v / 12)
	}
	return math.Round(v)
}

func (j *Job) MonthlyMin() (float64, bool) {
	if j.SalaryMin == nil {
		return 0, false
	}
	return ToMonthly(*j.SalaryMin), true
}

func (j *Job) MonthlyMax() (float64, bool) {
	if j.SalaryMax == nil {
		return 0, false
	}
	return ToMonthly(*j.SalaryMax), true
}

// HasSalary reports whether either bound is known.
func (j *Job) HasSalary() bool {
	return j.SalaryMin != nil || j.SalaryMax != nil
}

// MedianSalary is the midpoint of both bounds, or whichever bound exists.
func (j *Job) MedianSalary() (float64, bool) {
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil:
		return math.Round((*j.SalaryMin + *j.SalaryMax) / 2), true
	case j.SalaryMin != nil:
		return *j.SalaryMin, true
	case j.SalaryMax != nil:
		return *j.SalaryMax, true
	}
	return 0, false
}

// WorkStyle classifies a job from its title and location.
func (j *Job) WorkStyle() WorkStyle {
	switch {
	case remotePattern.MatchString(j.Title) || remotePattern.MatchString(j.Location):
		return Remote
	case hybridPattern.MatchString(j.Title) || hybridPattern.MatchString(j.Location):
		return Hybrid
	}
	return Onsite
}
