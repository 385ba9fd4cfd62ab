package jobs

import (
	"encoding/json"
	"os"
	"time"
)

// Source names the backend record variant a job was decoded from.
type Source string

const (
	SourceAdzuna Source = "adzuna"
	SourceDTO    Source = "dto"
)

const untitledRole = "Untitled role"

type Jobs struct {
	Items []*Job
}

// Job is the canonical record every view works with.
type Job struct {
	ID           string     `json:"id,omitempty"`
	Key          string     `json:"key"`
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	Created      *time.Time `json:"created,omitempty"`
	SalaryMin    *float64   `json:"salary_min,omitempty"`
	SalaryMax    *float64   `json:"salary_max,omitempty"`
	Currency     string     `json:"currency,omitempty"`
	Category     string     `json:"category,omitempty"`
	ContractType string     `json:"contract_type,omitempty"`
	Description  string     `json:"description,omitempty"`
	URL          string     `json:"url,omitempty"`
	Source       Source     `json:"source,omitempty"`
}

// Identity is the id when the backend provided one, the fallback key otherwise.
func (j *Job) Identity() string {
	if j.ID != "" {
		return j.ID
	}
	return j.Key
}

func (v *Jobs) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Items)
}

// FindByID looks a job up by id or by fallback key.
func (v *Jobs) FindByID(id string) *Job {
	for _, job := range v.Items {
		if job.ID == id || job.Key == id {
			return job
		}
	}
	return nil
}

// Retain keeps jobs matching keep, preserving order, and returns identities of the dropped ones.
func (v *Jobs) Retain(keep func(*Job) bool) []string {
	var dropped []string
	kept := v.Items[:0]
	for _, job := range v.Items {
		if keep(job) {
			kept = append(kept, job)
			continue
		}
		dropped = append(dropped, job.Identity())
	}
	v.Items = kept
	return dropped
}

func (v *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}
