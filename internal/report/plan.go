package report

import (
	"fmt"
	"strings"

	"github.com/spigell/jobsight/internal/quiz"
	"github.com/spigell/jobsight/internal/roadmap"
)

const barWidth = 20

func (p *Printer) Plan(plan *roadmap.Plan) {
	fmt.Fprintln(p.W, plan.Title)
	for _, track := range plan.Tracks {
		fmt.Fprintf(p.W, "\n%s\n", track.Title)
		for _, item := range track.Items {
			fmt.Fprintf(p.W, "  [%s] %s\n", item.Type, item.Label)
		}
	}
}

// Roadmap prints the outcome of any roadmap mode.
func (p *Printer) Roadmap(res *roadmap.Result) {
	if res.Plan != nil {
		p.Plan(res.Plan)
		return
	}
	fmt.Fprintln(p.W, res.Text)
	if res.Model != "" {
		fmt.Fprintf(p.W, "\n(model: %s)\n", res.Model)
	}
}

// QuizResult prints suggestions followed by the trait profile.
func (p *Printer) QuizResult(c *quiz.Catalog, cached *quiz.Cached) {
	fmt.Fprintln(p.W, "Suggested majors:")
	for i, m := range cached.Result.TopMajors {
		fmt.Fprintf(p.W, "  %d. %s\n", i+1, m)
	}
	fmt.Fprintln(p.W, "Suggested roles:")
	for _, j := range cached.Result.TopJobs {
		fmt.Fprintf(p.W, "  - %s\n", j)
	}

	traits := c.Traits(cached.Scores)
	if len(traits) == 0 {
		return
	}
	fmt.Fprintln(p.W, "\nTraits:")
	for _, t := range traits {
		fmt.Fprintf(p.W, "  %-14s %s %3.0f%%\n", t.Label, bar(t.Percent), t.Percent)
	}
}

func bar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	filled = max(0, min(barWidth, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
