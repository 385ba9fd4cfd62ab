package report

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/spigell/jobsight/internal/jobsight"
	"github.com/spigell/jobsight/internal/localstate"
)

// Cabinet is everything the account page shows. A nil section failed to load.
type Cabinet struct {
	Email     string
	Profile   localstate.Profile
	Searches  []jobsight.SavedSearch
	Compares  []jobsight.SavedCompare
	Quizzes   []jobsight.SavedQuizResult
	Roadmaps  []jobsight.SavedRoadmap
	LoadError map[string]error
}

func (p *Printer) when(t jobsight.Timestamp) string {
	if t.IsZero() {
		return missing
	}
	return humanize.RelTime(t.Time, p.Now(), "ago", "from now")
}

func (p *Printer) Profile(email string, prof localstate.Profile) {
	if email == "" {
		fmt.Fprintln(p.W, "Not signed in.")
	} else {
		fmt.Fprintf(p.W, "Signed in as %s\n", email)
	}
	fmt.Fprintf(p.W, "Name:     %s\n", orMissing(prof.DisplayName))
	fmt.Fprintf(p.W, "Country:  %s\n", orMissing(prof.Country))
	fmt.Fprintf(p.W, "Headline: %s\n", orMissing(prof.Headline))
}

func (p *Printer) Cabinet(c *Cabinet) error {
	p.Profile(c.Email, c.Profile)

	section := func(name string, n int) bool {
		fmt.Fprintf(p.W, "\n%s (%d)\n", name, n)
		if err := c.LoadError[name]; err != nil {
			fmt.Fprintf(p.W, "  could not load: %v\n", err)
			return false
		}
		return n > 0
	}

	if section("Saved searches", len(c.Searches)) {
		tw := p.table()
		fmt.Fprintln(tw, "  ID\tWHAT\tWHERE\tSORT\tSAVED")
		for _, s := range c.Searches {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", s.ID, orMissing(s.What), orMissing(s.Place()), s.SortBy, p.when(s.CreatedAt))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if section("Saved compares", len(c.Compares)) {
		for _, s := range c.Compares {
			title := s.Title
			if title == "" {
				title = "Compare set"
			}
			fmt.Fprintf(p.W, "  %s  %s  %s\n", s.ID, title, p.when(s.CreatedAt))
		}
	}

	if section("Saved quiz results", len(c.Quizzes)) {
		for _, q := range c.Quizzes {
			summary := missing
			if res, err := q.Result(); err == nil && len(res.TopMajors) > 0 {
				summary = res.TopMajors[0]
			}
			fmt.Fprintf(p.W, "  %s  %s  %s\n", q.ID, summary, p.when(q.CreatedAt))
		}
	}

	if section("Saved roadmaps", len(c.Roadmaps)) {
		for _, r := range c.Roadmaps {
			title := r.Title
			if title == "" {
				title = r.Source
			}
			fmt.Fprintf(p.W, "  %s  %s  %s\n", r.ID, title, p.when(r.CreatedAt))
		}
	}

	return nil
}
