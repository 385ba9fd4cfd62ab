package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/jobsight/internal/compare"
	"github.com/spigell/jobsight/internal/jobsight"
	"github.com/spigell/jobsight/internal/localstate"
	"github.com/spigell/jobsight/internal/report"
	"github.com/spigell/jobsight/internal/roadmap"
)

var cabinetCmd = &cobra.Command{
	Use:     "cabinet",
	Aliases: []string{"account"},
	Short:   "Show your profile and everything saved to your account",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)
		defer e.close()
		u := e.requireUser()

		c, err := loadCabinet(e, u.Email)
		if err != nil {
			e.logger.Fatal("loading cabinet", zap.Error(err))
		}
		if err := e.out.Cabinet(c); err != nil {
			e.logger.Fatal("printing cabinet", zap.Error(err))
		}
	},
}

// loadCabinet fetches the saved sections concurrently. A failing section is
// reported next to the others instead of failing the whole page.
func loadCabinet(e *env, email string) (*report.Cabinet, error) {
	c := &report.Cabinet{Email: email, LoadError: map[string]error{}}

	profile, err := e.state.Profile(e.ctx)
	if err != nil {
		return nil, err
	}
	c.Profile = profile

	var searchErr, compareErr, quizErr, roadmapErr error
	var g errgroup.Group
	g.Go(func() error {
		c.Searches, searchErr = e.client.SavedSearches(e.ctx)
		return nil
	})
	g.Go(func() error {
		c.Compares, compareErr = e.client.SavedCompares(e.ctx)
		return nil
	})
	g.Go(func() error {
		c.Quizzes, quizErr = e.client.SavedQuizResults(e.ctx)
		return nil
	})
	g.Go(func() error {
		c.Roadmaps, roadmapErr = e.client.SavedRoadmaps(e.ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for name, err := range map[string]error{
		"Saved searches":     searchErr,
		"Saved compares":     compareErr,
		"Saved quiz results": quizErr,
		"Saved roadmaps":     roadmapErr,
	} {
		if err != nil {
			e.logger.Debug("loading cabinet section", zap.String("section", name), zap.Error(err))
			c.LoadError[name] = err
		}
	}
	return c, nil
}

var cabinetProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit the locally kept profile",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)
		defer e.close()

		p, err := e.state.Profile(e.ctx)
		if err != nil {
			e.logger.Fatal("reading profile", zap.Error(err))
		}

		flags := cmd.Flags()
		changed := false
		for flag, field := range map[string]*string{"name": &p.DisplayName, "country": &p.Country, "headline": &p.Headline} {
			if flags.Changed(flag) {
				*field, _ = flags.GetString(flag)
				*field = strings.TrimSpace(*field)
				changed = true
			}
		}
		if changed {
			if err := e.state.SaveProfile(e.ctx, p); err != nil {
				e.logger.Fatal("saving profile", zap.Error(err))
			}
		}

		e.user()
		e.out.Profile(e.session.Email(), p)
	},
}

var cabinetSearchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "Manage saved searches",
}

var cabinetSearchesRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a saved search",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)
		defer e.close()
		e.requireUser()

		if err := e.client.DeleteSearch(e.ctx, jobsight.ID(args[0])); err != nil {
			e.logger.Fatal("deleting saved search", zap.Error(err))
		}
		fmt.Fprintln(e.out.W, "Deleted.")
	},
}

var cabinetSearchesRunCmd = &cobra.Command{
	Use:   "run ID",
	Short: "Open a saved search in explore",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)
		e.requireUser()

		list, err := e.client.SavedSearches(e.ctx)
		if err != nil {
			e.logger.Fatal("loading saved searches", zap.Error(err))
		}

		var found *jobsight.SavedSearch
		for i := range list {
			if list[i].ID.String() == args[0] {
				found = &list[i]
				break
			}
		}
		if found == nil {
			e.logger.Fatal("saved search not found", zap.String("id", args[0]))
		}

		err = e.state.SavePrefill(e.ctx, localstate.Prefill{
			What:      found.What,
			Where:     found.Place(),
			FullTime:  found.FullTime,
			Permanent: found.Permanent,
			SortBy:    found.SortBy,
		})
		if err != nil {
			e.logger.Fatal("saving explore prefill", zap.Error(err))
		}
		e.close()

		explore(exploreCmd)
	},
}

var cabinetComparesCmd = &cobra.Command{
	Use:   "compares",
	Short: "Inspect saved compare sets",
}

var cabinetComparesShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a saved compare set",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)
		defer e.close()
		e.requireUser()

		list, err := e.client.SavedCompares(e.ctx)
		if err != nil {
			e.logger.Fatal("loading saved compares", zap.Error(err))
		}
		for _, set := range list {
			if set.ID.String() != args[0] {
				continue
			}
			picks, err := set.Jobs()
			if err != nil {
				e.logger.Fatal("reading compare set", zap.Error(err))
			}
			if err := e.out.Compare(compare.Evaluate(e.tables, picks, e.quizMajors())); err != nil {
				e.logger.Fatal("printing compare table", zap.Error(err))
			}
			return
		}
		e.logger.Fatal("saved compare set not found", zap.String("id", args[0]))
	},
}

var cabinetComparesRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a saved compare set",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)
		defer e.close()
		e.requireUser()

		if err := e.client.DeleteCompare(e.ctx, jobsight.ID(args[0])); err != nil {
			e.logger.Fatal("deleting compare set", zap.Error(err))
		}
		fmt.Fprintln(e.out.W, "Deleted.")
	},
}

var cabinetRoadmapsCmd = &cobra.Command{
	Use:   "roadmaps",
	Short: "Manage saved roadmaps",
}

var cabinetRoadmapsRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a saved roadmap",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)
		defer e.close()
		e.requireUser()

		if err := e.client.DeleteRoadmap(e.ctx, jobsight.ID(args[0])); err != nil {
			e.logger.Fatal("deleting saved roadmap", zap.Error(err))
		}
		fmt.Fprintln(e.out.W, "Deleted.")
	},
}

var cabinetRoadmapsDownloadCmd = &cobra.Command{
	Use:   "download ID",
	Short: "Write a saved roadmap to a text file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)
		defer e.close()
		e.requireUser()

		list, err := e.client.SavedRoadmaps(e.ctx)
		if err != nil {
			e.logger.Fatal("loading saved roadmaps", zap.Error(err))
		}
		for _, r := range list {
			if r.ID.String() != args[0] {
				continue
			}
			name, _ := cmd.Flags().GetString("out")
			if name == "" {
				name = roadmap.FileName(r.Title)
			}
			if err := os.WriteFile(name, []byte(r.PlanText+"\n"), 0o644); err != nil {
				e.logger.Fatal("writing roadmap file", zap.Error(err))
			}
			e.logger.Info("roadmap written", zap.String("filename", name))
			return
		}
		e.logger.Fatal("saved roadmap not found", zap.String("id", args[0]))
	},
}

func init() {
	pf := cabinetProfileCmd.Flags()
	pf.String("name", "", "display name")
	pf.String("country", "", "country")
	pf.String("headline", "", "one line headline")

	cabinetRoadmapsDownloadCmd.Flags().StringP("out", "o", "", "output file (default derived from the title)")

	cabinetSearchesCmd.AddCommand(cabinetSearchesRmCmd, cabinetSearchesRunCmd)
	cabinetComparesCmd.AddCommand(cabinetComparesShowCmd, cabinetComparesRmCmd)
	cabinetRoadmapsCmd.AddCommand(cabinetRoadmapsRmCmd, cabinetRoadmapsDownloadCmd)
	cabinetCmd.AddCommand(cabinetProfileCmd, cabinetSearchesCmd, cabinetComparesCmd, cabinetRoadmapsCmd)
	rootCmd.AddCommand(cabinetCmd)
}
