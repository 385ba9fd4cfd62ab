package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobsight/internal/compare"
	"github.com/spigell/jobsight/internal/filtering"
	"github.com/spigell/jobsight/internal/jobs"
	"github.com/spigell/jobsight/internal/jobsight"
)

const (
	PromptNextPage   = "Next page"
	PromptPrevPage   = "Previous page"
	PromptShowJob    = "Show a job"
	PromptAddCompare = "Add to compare"
	PromptSaveSearch = "Save this search"
	PromptJobsToFile = "Dump jobs to file"
	PromptExit       = "Exit"
	PromptBack       = "back"

	unexpectedFormatMessage = "Unexpected response format. Try changing filters."
)

var errExit = errors.New("exit requested")

var explorePrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptNextPage, PromptPrevPage, PromptShowJob, PromptAddCompare, PromptSaveSearch, PromptJobsToFile, PromptExit},
}

// searchFlags are the flags that override a pending prefill.
var searchFlags = []string{"what", "where", "full-time", "permanent", "sort", "page"}

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Search jobs, filter and sort them",
	Run: func(cmd *cobra.Command, _ []string) {
		explore(cmd)
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)

	f := exploreCmd.Flags()
	f.String("what", "", "keywords, e.g. golang")
	f.String("where", "", "location, e.g. Berlin")
	f.Bool("full-time", false, "full-time jobs only")
	f.Bool("permanent", false, "permanent contracts only")
	f.String("sort", string(filtering.SortDate), "sort mode: date, relevance, salaryHigh or salaryLow")
	f.Int("page", 0, "zero based page index")

	f.String("company", "", "keep jobs whose company contains this text")
	f.String("exclude", "", "comma separated terms; drop jobs mentioning any")
	f.String("work-style", "", "remote, hybrid or onsite")
	f.Int("posted-within", 0, "keep jobs posted within this many days (0 for any date)")
	f.Bool("has-salary", false, "keep jobs with a salary only")
	f.Int("min-monthly", 0, "minimum monthly salary")
	f.StringSlice("skip-filter", nil, "filter steps to turn off for this run, e.g. exclude,has_salary")

	f.String("add", "", "add the job with this id or key to compare")
	f.Bool("save", false, "save this search to your account")
	f.BoolP("interactive", "i", false, "browse pages and act on jobs interactively")

	for _, name := range searchFlags {
		viper.BindPFlag("search."+name, f.Lookup(name))
	}
	for _, name := range []string{"company", "exclude", "work-style", "posted-within", "has-salary", "min-monthly"} {
		viper.BindPFlag("filters."+name, f.Lookup(name))
	}
}

type explorer struct {
	*env
	params *jobsight.SearchParams
	mode   filtering.SortMode
	steps  []filtering.Filter
	list   *jobs.Jobs
}

func explore(cmd *cobra.Command) {
	e := setup(cmd)
	defer e.close()

	params := e.cfg.Search.SearchParams
	sortName := e.cfg.Search.Sort

	prefill, err := e.state.TakePrefill(e.ctx)
	if err != nil {
		e.logger.Debug("reading explore prefill", zap.Error(err))
	}
	if prefill != nil && !anyChanged(cmd, searchFlags) {
		params = jobsight.SearchParams{
			What:      prefill.What,
			Where:     prefill.Where,
			FullTime:  prefill.FullTime,
			Permanent: prefill.Permanent,
		}
		sortName = prefill.SortBy
		e.logger.Info("using saved search", zap.String("what", params.What), zap.String("where", params.Where))
	}

	mode, err := filtering.ParseSortMode(sortName)
	if err != nil {
		e.logger.Fatal("parsing sort mode", zap.Error(err))
	}
	params.SortBy = mode.ServerSort()
	if params.Page < 0 {
		params.Page = 0
	}

	x := &explorer{env: e, params: &params, mode: mode, steps: filtering.Pipeline()}
	skipped, _ := cmd.Flags().GetStringSlice("skip-filter")
	for _, name := range skipped {
		filtering.DisableByName(x.steps, strings.TrimSpace(name), "skipped with --skip-filter")
	}
	x.load()
	for _, st := range filtering.Describe(x.steps) {
		e.logger.Debug("filter step", zap.String("filter", st.Name), zap.Bool("enabled", st.Enabled),
			zap.String("reason", st.Reason), zap.Any("details", st.Details))
	}

	if id, _ := cmd.Flags().GetString("add"); id != "" {
		x.add(id)
	}
	if save, _ := cmd.Flags().GetBool("save"); save {
		x.save()
	}
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if err := x.loop(); err != nil && !errors.Is(err, errExit) {
			e.logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func anyChanged(cmd *cobra.Command, names []string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

// load fetches the current page. On failure the list is emptied, never kept stale.
func (x *explorer) load() {
	x.list = &jobs.Jobs{}

	raw, err := x.client.Search(x.ctx, x.params)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, jobsight.ErrUnexpectedFormat) {
			msg = unexpectedFormatMessage
		}
		x.logger.Debug("search failed", zap.Error(err))
		fmt.Fprintf(x.out.W, "Search failed: %s\n", msg)
		return
	}
	x.logger.Debug("got jobs", zap.Int("count", raw.Len()), zap.Int("page", x.params.Page))

	filtered, err := filtering.Run(x.ctx, x.cfg.Filters, filtering.Deps{Logger: x.logger}, x.steps, raw)
	if err != nil {
		x.logger.Fatal("filtering failed", zap.Error(err))
	}
	filtering.Sort(filtered, x.mode)
	x.list = filtered

	if err := x.out.Jobs(x.list.Items, x.params.Page); err != nil {
		x.logger.Fatal("printing jobs", zap.Error(err))
	}
}

func (x *explorer) add(id string) {
	job := x.list.FindByID(id)
	if job == nil {
		fmt.Fprintf(x.out.W, "There is no job %s on this page.\n", id)
		return
	}

	items, err := x.picks.Add(x.ctx, job)
	switch {
	case errors.Is(err, compare.ErrAlreadyAdded), errors.Is(err, compare.ErrLimitReached):
		fmt.Fprintln(x.out.W, err.Error())
	case err != nil:
		x.logger.Fatal("adding to compare", zap.Error(err))
	default:
		fmt.Fprintf(x.out.W, "Added %q to compare (%d/%d).\n", job.Title, len(items), compare.MaxPicks)
	}
}

// save stores the search server-side. Failures are only logged.
func (x *explorer) save() {
	if x.user() == nil {
		fmt.Fprintln(x.out.W, "Sign in to save searches.")
		return
	}
	if _, err := x.client.SaveSearch(x.ctx, jobsight.NewSavedSearch(x.params, time.Now())); err != nil {
		x.logger.Debug("saving search failed", zap.Error(err))
		return
	}
	fmt.Fprintln(x.out.W, "Search saved.")
}

func (x *explorer) loop() error {
	for {
		_, action, err := explorePrompt.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptNextPage:
			x.params.Page++
			x.load()
		case PromptPrevPage:
			if x.params.Page > 0 {
				x.params.Page--
			}
			x.load()
		case PromptShowJob, PromptAddCompare:
			job, err := x.choose()
			if err != nil {
				return err
			}
			if job == nil {
				continue
			}
			if action == PromptShowJob {
				x.out.Job(job)
			} else {
				x.add(job.Identity())
			}
		case PromptSaveSearch:
			x.save()
		case PromptJobsToFile:
			filename, err := x.list.DumpToTmpFile()
			if err != nil {
				return err
			}
			x.logger.Info("dumped jobs", zap.String("filename", filename), zap.Int("count", x.list.Len()))
		case PromptExit:
			return errExit
		}
	}
}

// choose asks for one job of the current page. Nil means back.
func (x *explorer) choose() (*jobs.Job, error) {
	if x.list.Len() == 0 {
		fmt.Fprintln(x.out.W, "No jobs on this page.")
		return nil, nil
	}

	items := make([]string, 0, x.list.Len()+1)
	for _, job := range x.list.Items {
		items = append(items, fmt.Sprintf("%s %s @ %s", job.Identity(), job.Title, job.Company))
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: append(items, PromptBack),
		Size:  12,
	}

	_, selected, err := jobPrompt.Run()
	if err != nil {
		return nil, err
	}
	if selected == PromptBack {
		return nil, nil
	}

	return x.list.FindByID(strings.Split(selected, " ")[0]), nil
}
