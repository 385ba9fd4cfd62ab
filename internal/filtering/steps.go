package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobsight/internal/jobs"
)

const day = 24 * time.Hour

// switchable carries the disable state shared by every step.
type switchable struct {
	disabled bool
	reason   string
}

func (s *switchable) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *switchable) IsEnabled() bool { return !s.disabled }

func retain(deps Deps, name string, v *jobs.Jobs, keep func(*jobs.Job) bool) (*jobs.Jobs, Step) {
	initial := v.Len()
	dropped := v.Retain(keep)
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Debug("excluding jobs",
			zap.String("filter", name),
			zap.Strings("excluded_jobs", dropped),
			zap.Int("jobs_left", v.Len()),
		)
	}
	return v, Step{Initial: initial, Dropped: len(dropped), Left: v.Len()}
}

func unchanged(v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	return v, Step{Initial: v.Len(), Dropped: 0, Left: v.Len()}, nil
}

type companyFilter struct {
	switchable
	needle string
}

// NewCompany keeps jobs whose company contains the configured text.
func NewCompany() Filter {
	return &companyFilter{}
}

func (f *companyFilter) Name() string { return "company" }

func (f *companyFilter) Validate(cfg *Config) error {
	f.needle = ""
	if cfg != nil {
		f.needle = strings.ToLower(strings.TrimSpace(cfg.Company))
	}
	return nil
}

func (f *companyFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	if f.needle == "" {
		return unchanged(v)
	}
	v, step := retain(deps, f.Name(), v, func(j *jobs.Job) bool {
		return strings.Contains(strings.ToLower(j.Company), f.needle)
	})
	return v, step, nil
}

func (f *companyFilter) Status() Status {
	details := map[string]string{}
	if f.needle != "" {
		details["company"] = f.needle
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type excludeFilter struct {
	switchable
	terms []string
}

// NewExclude drops jobs mentioning any of the excluded terms.
func NewExclude() Filter {
	return &excludeFilter{}
}

func (f *excludeFilter) Name() string { return "exclude" }

func (f *excludeFilter) Validate(cfg *Config) error {
	f.terms = nil
	if cfg == nil {
		return nil
	}
	for _, term := range strings.Split(cfg.Exclude, ",") {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			f.terms = append(f.terms, term)
		}
	}
	return nil
}

func (f *excludeFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	if len(f.terms) == 0 {
		return unchanged(v)
	}
	v, step := retain(deps, f.Name(), v, func(j *jobs.Job) bool {
		hay := strings.ToLower(strings.Join([]string{j.Title, j.Description, j.Company, j.Location}, " "))
		for _, term := range f.terms {
			if strings.Contains(hay, term) {
				return false
			}
		}
		return true
	})
	return v, step, nil
}

func (f *excludeFilter) Status() Status {
	details := map[string]string{}
	if len(f.terms) > 0 {
		details["terms"] = strings.Join(f.terms, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type workStyleFilter struct {
	switchable
	style jobs.WorkStyle
}

// NewWorkStyle keeps jobs classified as the configured remote, hybrid or onsite style.
func NewWorkStyle() Filter {
	return &workStyleFilter{}
}

func (f *workStyleFilter) Name() string { return "work_style" }

func (f *workStyleFilter) Validate(cfg *Config) error {
	f.style = ""
	if cfg == nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(cfg.WorkStyle)) {
	case "", "any":
	case "remote":
		f.style = jobs.Remote
	case "hybrid":
		f.style = jobs.Hybrid
	case "onsite":
		f.style = jobs.Onsite
	default:
		return fmt.Errorf("unknown work style %q: expected any, remote, hybrid or onsite", cfg.WorkStyle)
	}
	return nil
}

func (f *workStyleFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	if f.style == "" {
		return unchanged(v)
	}
	v, step := retain(deps, f.Name(), v, func(j *jobs.Job) bool {
		return j.WorkStyle() == f.style
	})
	return v, step, nil
}

func (f *workStyleFilter) Status() Status {
	details := map[string]string{}
	if f.style != "" {
		details["style"] = string(f.style)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type postedWithinFilter struct {
	switchable
	days int
}

// NewPostedWithin keeps jobs posted in the last N days. Jobs without a readable date are dropped.
func NewPostedWithin() Filter {
	return &postedWithinFilter{}
}

func (f *postedWithinFilter) Name() string { return "posted_within" }

func (f *postedWithinFilter) Validate(cfg *Config) error {
	f.days = 0
	if cfg == nil {
		return nil
	}
	if cfg.PostedWithin < 0 {
		return fmt.Errorf("posted-within must not be negative, got %d", cfg.PostedWithin)
	}
	f.days = cfg.PostedWithin
	return nil
}

func (f *postedWithinFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	if f.days == 0 {
		return unchanged(v)
	}
	cutoff := deps.now().Add(-time.Duration(f.days) * day)
	v, step := retain(deps, f.Name(), v, func(j *jobs.Job) bool {
		return j.Created != nil && !j.Created.Before(cutoff)
	})
	return v, step, nil
}

func (f *postedWithinFilter) Status() Status {
	details := map[string]string{"days": "any"}
	if f.days > 0 {
		details["days"] = strconv.Itoa(f.days)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type hasSalaryFilter struct {
	switchable
	only bool
}

// NewHasSalary drops jobs without any salary bound when requested.
func NewHasSalary() Filter {
	return &hasSalaryFilter{}
}

func (f *hasSalaryFilter) Name() string { return "has_salary" }

func (f *hasSalaryFilter) Validate(cfg *Config) error {
	f.only = cfg != nil && cfg.HasSalary
	return nil
}

func (f *hasSalaryFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	if !f.only {
		return unchanged(v)
	}
	v, step := retain(deps, f.Name(), v, (*jobs.Job).HasSalary)
	return v, step, nil
}

func (f *hasSalaryFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"salary_only": strconv.FormatBool(f.only)},
	}
}

type minMonthlyFilter struct {
	switchable
	threshold float64
}

// NewMinMonthly keeps jobs whose monthly salary reaches the threshold.
// The upper bound is compared when known, the lower one otherwise.
func NewMinMonthly() Filter {
	return &minMonthlyFilter{}
}

func (f *minMonthlyFilter) Name() string { return "min_monthly" }

func (f *minMonthlyFilter) Validate(cfg *Config) error {
	f.threshold = 0
	if cfg == nil {
		return nil
	}
	if cfg.MinMonthly < 0 {
		return fmt.Errorf("min-monthly must not be negative, got %d", cfg.MinMonthly)
	}
	f.threshold = float64(cfg.MinMonthly)
	return nil
}

func (f *minMonthlyFilter) Apply(_ context.Context, deps Deps, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	if f.threshold == 0 {
		return unchanged(v)
	}
	v, step := retain(deps, f.Name(), v, func(j *jobs.Job) bool {
		monthly, ok := j.MonthlyMax()
		if !ok {
			monthly, ok = j.MonthlyMin()
		}
		return ok && monthly >= f.threshold
	})
	return v, step, nil
}

func (f *minMonthlyFilter) Status() Status {
	details := map[string]string{}
	if f.threshold > 0 {
		details["threshold"] = strconv.FormatFloat(f.threshold, 'f', 0, 64)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
