// Package report renders results for the terminal.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/spigell/jobsight/internal/compare"
	"github.com/spigell/jobsight/internal/jobs"
)

const (
	missing       = "—"
	titleWidth    = 48
	snippetLength = 160
)

// Printer writes tables to W. Now anchors relative dates.
type Printer struct {
	W   io.Writer
	Now func() time.Time
}

func New(w io.Writer) *Printer {
	return &Printer{W: w, Now: time.Now}
}

func (p *Printer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(p.W, 0, 0, 2, ' ', 0)
}

// Money formats a monthly amount with thousands separators.
func Money(v float64, currency string) string {
	s := humanize.Comma(int64(math.Round(v)))
	if currency != "" {
		s += " " + currency
	}
	return s
}

func (p *Printer) ago(t *time.Time) string {
	if t == nil || t.IsZero() {
		return missing
	}
	return humanize.RelTime(*t, p.Now(), "ago", "from now")
}

func salaryRange(job *jobs.Job) string {
	lo, hasLo := job.MonthlyMin()
	hi, hasHi := job.MonthlyMax()
	switch {
	case hasLo && hasHi && lo != hi:
		return fmt.Sprintf("%s-%s", Money(lo, ""), Money(hi, job.Currency))
	case hasHi:
		return Money(hi, job.Currency)
	case hasLo:
		return Money(lo, job.Currency)
	}
	return missing
}

func shorten(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}

// Jobs prints one search page. page is zero based.
func (p *Printer) Jobs(list []*jobs.Job, page int) error {
	fmt.Fprintf(p.W, "Page %d, %d %s\n", page+1, len(list), plural(len(list), "job", "jobs"))
	if len(list) == 0 {
		return nil
	}

	tw := p.table()
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tSTYLE\tMONTHLY\tPOSTED")
	for _, job := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			job.Identity(),
			shorten(job.Title, titleWidth),
			shorten(job.Company, 28),
			shorten(job.Location, 28),
			job.WorkStyle(),
			salaryRange(job),
			p.ago(job.Created),
		)
	}
	return tw.Flush()
}

// Job prints the detail of a single job.
func (p *Printer) Job(job *jobs.Job) {
	fmt.Fprintf(p.W, "%s\n%s · %s\n", job.Title, job.Company, job.Location)
	fmt.Fprintf(p.W, "Monthly: %s  Posted: %s\n", salaryRange(job), p.ago(job.Created))
	if job.Description != "" {
		fmt.Fprintf(p.W, "\n%s\n", shorten(job.Description, snippetLength*3))
	}
	if job.URL != "" {
		fmt.Fprintf(p.W, "\n%s\n", job.URL)
	}
}

// Compare prints picks side by side, one column per job.
func (p *Printer) Compare(rows []compare.Row) error {
	if len(rows) == 0 {
		fmt.Fprintln(p.W, "No jobs to compare yet. Add some from explore.")
		return nil
	}

	tw := p.table()
	line := func(name string, cell func(compare.Row) string) {
		cells := make([]string, 0, len(rows)+1)
		cells = append(cells, name)
		for _, r := range rows {
			cells = append(cells, cell(r))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	line("", func(r compare.Row) string { return shorten(r.Job.Title, 32) })
	line("Key", func(r compare.Row) string { return r.Job.Identity() })
	line("Company", func(r compare.Row) string { return shorten(r.Job.Company, 32) })
	line("Location", func(r compare.Row) string { return shorten(r.Job.Location, 32) })
	line("Posted", func(r compare.Row) string { return p.ago(r.Job.Created) })
	line("Contract", func(r compare.Row) string { return orMissing(r.Job.ContractType) })
	line("Median salary", func(r compare.Row) string {
		if !r.HasMedian {
			return missing
		}
		return Money(r.Median, r.Currency)
	})
	line("Currency", func(r compare.Row) string { return orMissing(r.Currency) })
	line("Level", func(r compare.Row) string { return r.Level.Label })
	line("Difficulty", func(r compare.Row) string {
		return fmt.Sprintf("%.1f %s", r.Difficulty.Value, r.Difficulty.Label)
	})
	line("Competitiveness", func(r compare.Row) string {
		return fmt.Sprintf("%.1f %s", r.Competitiveness.Value, r.Competitiveness.Label)
	})
	line("Quiz fit", func(r compare.Row) string {
		if r.Fit == nil {
			return "take the quiz"
		}
		return fmt.Sprintf("%d%% %s (%s)", r.Fit.Percent, r.Fit.Label, r.Fit.Major)
	})

	return tw.Flush()
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
