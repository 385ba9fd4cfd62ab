package jobs

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// ParseError reports a backend record that matches none of the known shapes.
type ParseError struct {
	Index  int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("job record %d: %s", e.Index, e.Reason)
}

type adzunaRecord struct {
	ID           any `json:"id"`
	Title        any `json:"title"`
	Company      any `json:"company"`
	Location     any `json:"location"`
	Description  any `json:"description"`
	Created      any `json:"created"`
	CreatedAt    any `json:"created_at"`
	SalaryMin    any `json:"salary_min"`
	SalaryMax    any `json:"salary_max"`
	Currency     any `json:"currency"`
	Category     any `json:"category"`
	ContractType any `json:"contract_type"`
	RedirectURL  any `json:"redirect_url"`
	URL          any `json:"url"`
}

type dtoRecord struct {
	ID           any `json:"id"`
	Title        any `json:"title"`
	Company      any `json:"company"`
	Location     any `json:"location"`
	Description  any `json:"description"`
	PostedAt     any `json:"postedAt"`
	Created      any `json:"created"`
	SalaryMin    any `json:"salaryMin"`
	SalaryMax    any `json:"salaryMax"`
	Currency     any `json:"currency"`
	Category     any `json:"category"`
	ContractType any `json:"contractType"`
	URL          any `json:"url"`
}

// dtoFields are the keys that mark a record as the backend DTO shape.
var dtoFields = []string{"id", "title", "company", "url", "salaryMin", "salaryMax", "postedAt"}

// Parse converts one raw backend record into a Job. idx is only used in errors.
func Parse(raw any, idx int) (*Job, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &ParseError{Index: idx, Reason: fmt.Sprintf("expected an object, got %T", raw)}
	}

	if looksAdzuna(m) {
		var rec adzunaRecord
		if err := decode(m, &rec); err != nil {
			return nil, &ParseError{Index: idx, Reason: err.Error()}
		}
		return rec.job(), nil
	}

	for _, field := range dtoFields {
		if _, ok := m[field]; ok {
			var rec dtoRecord
			if err := decode(m, &rec); err != nil {
				return nil, &ParseError{Index: idx, Reason: err.Error()}
			}
			return rec.job(), nil
		}
	}

	return nil, &ParseError{Index: idx, Reason: "unrecognized job shape"}
}

func decode(m map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(m)
}

func looksAdzuna(m map[string]any) bool {
	if company, ok := m["company"].(map[string]any); ok && textOf(company["display_name"]) != "" {
		return true
	}
	if location, ok := m["location"].(map[string]any); ok && textOf(location["display_name"]) != "" {
		return true
	}
	if textOf(m["redirect_url"]) != "" {
		return true
	}
	if _, ok := numberOf(m["salary_min"]); ok {
		return true
	}
	_, ok := numberOf(m["salary_max"])
	return ok
}

func (r *adzunaRecord) job() *Job {
	company := r.Company
	if m, ok := company.(map[string]any); ok && m["display_name"] != nil {
		company = m["display_name"]
	}

	created := r.Created
	if created == nil {
		created = r.CreatedAt
	}

	url := textOf(r.RedirectURL)
	if url == "" {
		url = textOf(r.URL)
	}

	job := &Job{
		ID:           textOf(r.ID),
		Title:        orDefault(textOf(r.Title), untitledRole),
		Company:      orDefault(textOf(company), "—"),
		Location:     adzunaLocation(r.Location),
		Description:  CleanText(textOf(r.Description)),
		SalaryMin:    numberPtr(r.SalaryMin),
		SalaryMax:    numberPtr(r.SalaryMax),
		Currency:     textOf(r.Currency),
		Category:     textOf(r.Category),
		ContractType: textOf(r.ContractType),
		URL:          url,
		Source:       SourceAdzuna,
	}
	job.Created = postedPtr(created)
	job.Key = identityKey(job)
	return job
}

func (r *dtoRecord) job() *Job {
	created := r.PostedAt
	if created == nil {
		created = r.Created
	}

	job := &Job{
		ID:           textOf(r.ID),
		Title:        orDefault(textOf(r.Title), untitledRole),
		Company:      orDefault(textOf(r.Company), "—"),
		Location:     textOf(r.Location),
		Description:  CleanText(textOf(r.Description)),
		SalaryMin:    numberPtr(r.SalaryMin),
		SalaryMax:    numberPtr(r.SalaryMax),
		Currency:     textOf(r.Currency),
		Category:     textOf(r.Category),
		ContractType: textOf(r.ContractType),
		URL:          textOf(r.URL),
		Source:       SourceDTO,
	}
	job.Created = postedPtr(created)
	job.Key = identityKey(job)
	return job
}

func adzunaLocation(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return textOf(v)
	}
	if name := textOf(m["display_name"]); name != "" {
		return name
	}
	if area, ok := m["area"].([]any); ok {
		parts := make([]string, 0, len(area))
		for _, a := range area {
			if s := textOf(a); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// identityKey follows id, then link, then a random key.
func identityKey(job *Job) string {
	if job.ID != "" {
		return job.ID
	}
	if job.URL != "" {
		return job.URL
	}
	return uuid.NewString()
}

func postedPtr(v any) *time.Time {
	t, ok := ParsePosted(v)
	if !ok {
		return nil
	}
	return &t
}

func numberPtr(v any) *float64 {
	n, ok := numberOf(v)
	if !ok {
		return nil
	}
	return &n
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
