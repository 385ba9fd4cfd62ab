package jobs

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decodeRaw(t *testing.T, s string) any {
	t.Helper()
	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return raw
}

func TestParseAdzunaShape(t *testing.T) {
	raw := decodeRaw(t, `{
		"id": 4711,
		"title": "Senior Java Developer",
		"company": {"display_name": "Acme"},
		"location": {"display_name": "Warszawa, mazowieckie"},
		"description": "<p>Build <b>services</b></p>\n\n with Spring",
		"created": "2024-05-01T10:00:00Z",
		"salary_min": 120000,
		"category": {"label": "IT Jobs"},
		"redirect_url": "https://example.com/4711"
	}`)

	job, err := Parse(raw, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.Source != SourceAdzuna {
		t.Fatalf("expected adzuna source, got %q", job.Source)
	}
	if job.ID != "4711" || job.Key != "4711" {
		t.Fatalf("unexpected identity: id=%q key=%q", job.ID, job.Key)
	}
	if job.Company != "Acme" || job.Category != "IT Jobs" {
		t.Fatalf("unexpected company/category: %q/%q", job.Company, job.Category)
	}
	if job.Description != "Build services with Spring" {
		t.Fatalf("description not cleaned: %q", job.Description)
	}
	if job.SalaryMin == nil || *job.SalaryMin != 120000 || job.SalaryMax != nil {
		t.Fatalf("unexpected salary: %v/%v", job.SalaryMin, job.SalaryMax)
	}
	if job.Created == nil || !job.Created.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected created: %v", job.Created)
	}
	if job.URL != "https://example.com/4711" {
		t.Fatalf("unexpected url: %q", job.URL)
	}
}

func TestParseAdzunaAreaLocation(t *testing.T) {
	raw := decodeRaw(t, `{"redirect_url": "https://example.com/a", "location": {"area": ["UK", "London"]}}`)

	job, err := Parse(raw, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Location != "UK, London" {
		t.Fatalf("unexpected location: %q", job.Location)
	}
	if job.Title != untitledRole || job.Company != "—" {
		t.Fatalf("unexpected defaults: %q/%q", job.Title, job.Company)
	}
	if job.ID != "" || job.Key != "https://example.com/a" {
		t.Fatalf("expected link key fallback, got id=%q key=%q", job.ID, job.Key)
	}
}

func TestParseDTOShape(t *testing.T) {
	raw := decodeRaw(t, `{
		"id": "j-1",
		"title": "Data Analyst",
		"company": {"__CLASS__": "java.lang.String", "value": "Globex"},
		"location": "Berlin",
		"postedAt": {"epochSecond": 1714550400},
		"salaryMin": 4000,
		"salaryMax": 6000,
		"url": "https://example.com/j-1"
	}`)

	job, err := Parse(raw, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Source != SourceDTO {
		t.Fatalf("expected dto source, got %q", job.Source)
	}
	if job.Company != "Globex" {
		t.Fatalf("unexpected company: %q", job.Company)
	}
	if job.Created == nil || job.Created.Unix() != 1714550400 {
		t.Fatalf("unexpected created: %v", job.Created)
	}
	median, ok := job.MedianSalary()
	if !ok || median != 5000 {
		t.Fatalf("unexpected median: %v %v", median, ok)
	}
}

func TestParseRejectsUnknownShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "not an object", raw: `"just a string"`},
		{name: "array", raw: `[1, 2]`},
		{name: "object without job fields", raw: `{"foo": "bar"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(decodeRaw(t, tt.raw), 7)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if parseErr.Index != 7 {
				t.Fatalf("expected index 7, got %d", parseErr.Index)
			}
		})
	}
}

func TestParseStringSalaryIsIgnored(t *testing.T) {
	job, err := Parse(decodeRaw(t, `{"id": "1", "salaryMin": "5000"}`), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.HasSalary() {
		t.Fatalf("string salary must not count as a salary")
	}
	if _, ok := job.MedianSalary(); ok {
		t.Fatalf("expected no median salary")
	}
}

func TestParsePosted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		want   time.Time
		wantOK bool
	}{
		{name: "iso string", raw: `"2024-03-02T08:00:00Z"`, want: time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), wantOK: true},
		{name: "date only", raw: `"2024-03-02"`, want: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "epoch millis", raw: `1709366400000`, want: time.Unix(1709366400, 0).UTC(), wantOK: true},
		{name: "epoch seconds", raw: `1709366400`, want: time.Unix(1709366400, 0).UTC(), wantOK: true},
		{name: "instant with millis", raw: `{"epochSecond": 1, "epochMilli": 1709366400000}`, want: time.Unix(1709366400, 0).UTC(), wantOK: true},
		{name: "class wrapper", raw: `{"__CLASS__": "java.time.Instant", "value": "2024-03-02T08:00:00Z"}`, want: time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), wantOK: true},
		{name: "garbage string", raw: `"not a date"`, wantOK: false},
		{name: "empty string", raw: `""`, wantOK: false},
		{name: "null", raw: `null`, wantOK: false},
		{name: "bool", raw: `true`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParsePosted(decodeRaw(t, tt.raw))
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParsePostedZonedObject(t *testing.T) {
	got, ok := ParsePosted(map[string]any{"year": 2024.0, "month": 2.0, "day": 29.0, "hour": 13.0})
	if !ok {
		t.Fatalf("expected zoned object to parse")
	}
	want := time.Date(2024, time.February, 29, 13, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestToMonthly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want float64
	}{
		{in: 120000, want: 10000},
		{in: 100000, want: 8333},
		{in: 99999.6, want: 100000},
		{in: 5000, want: 5000},
	}

	for _, tt := range tests {
		if got := ToMonthly(tt.in); got != tt.want {
			t.Fatalf("ToMonthly(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestMedianSalaryMissingBoth(t *testing.T) {
	job := &Job{Title: "No pay info"}
	if _, ok := job.MedianSalary(); ok {
		t.Fatalf("expected no median for a job without salary")
	}
}

func TestWorkStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		job  Job
		want WorkStyle
	}{
		{job: Job{Title: "Go Developer (Remote)"}, want: Remote},
		{job: Job{Title: "Go Developer", Location: "Hybrid - Kraków"}, want: Hybrid},
		{job: Job{Title: "Remote-first hybrid role"}, want: Remote},
		{job: Job{Title: "Go Developer", Location: "Berlin"}, want: Onsite},
	}

	for _, tt := range tests {
		if got := tt.job.WorkStyle(); got != tt.want {
			t.Fatalf("%q: expected %s, got %s", tt.job.Title, tt.want, got)
		}
	}
}

func TestRetainPreservesOrder(t *testing.T) {
	v := &Jobs{Items: []*Job{{ID: "a"}, {ID: "b"}, {Key: "c"}, {ID: "d"}}}

	dropped := v.Retain(func(j *Job) bool { return j.ID != "b" && j.Key != "c" })

	if strings.Join(dropped, ",") != "b,c" {
		t.Fatalf("unexpected dropped: %v", dropped)
	}
	if v.Len() != 2 || v.Items[0].ID != "a" || v.Items[1].ID != "d" {
		t.Fatalf("unexpected remaining items: %+v", v.Items)
	}
	if v.FindByID("d") == nil || v.FindByID("b") != nil {
		t.Fatalf("FindByID mismatch after retain")
	}
}
