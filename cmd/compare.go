package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobsight/internal/compare"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare up to three picked jobs side by side",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)
		defer e.close()

		picks, err := e.picks.List(e.ctx)
		if err != nil {
			e.logger.Fatal("reading compare picks", zap.Error(err))
		}
		rows := compare.Evaluate(e.tables, picks, e.quizMajors())
		if err := e.out.Compare(rows); err != nil {
			e.logger.Fatal("printing compare table", zap.Error(err))
		}
	},
}

var compareRemoveCmd = &cobra.Command{
	Use:   "remove ID_OR_KEY",
	Short: "Remove one pick",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)
		defer e.close()

		items, err := e.picks.Remove(e.ctx, args[0])
		if err != nil {
			e.logger.Fatal("removing pick", zap.Error(err))
		}
		fmt.Fprintf(e.out.W, "%d/%d picks left.\n", len(items), compare.MaxPicks)
	},
}

var compareClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every pick",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)
		defer e.close()

		if err := e.picks.Clear(e.ctx); err != nil {
			e.logger.Fatal("clearing picks", zap.Error(err))
		}
		fmt.Fprintln(e.out.W, "Compare list cleared.")
	},
}

var compareSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the current picks to your account",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)
		defer e.close()
		e.requireUser()

		picks, err := e.picks.List(e.ctx)
		if err != nil {
			e.logger.Fatal("reading compare picks", zap.Error(err))
		}
		if len(picks) == 0 {
			fmt.Fprintln(e.out.W, "Nothing to save, the compare list is empty.")
			return
		}

		title, _ := cmd.Flags().GetString("title")
		saved, err := e.client.SaveCompare(e.ctx, title, picks)
		if err != nil {
			e.logger.Fatal("saving compare set", zap.Error(err))
		}
		fmt.Fprintf(e.out.W, "Saved compare set %s.\n", saved.ID)
	},
}

func init() {
	compareSaveCmd.Flags().String("title", "", "a title for the saved set")

	compareCmd.AddCommand(compareRemoveCmd, compareClearCmd, compareSaveCmd)
	rootCmd.AddCommand(compareCmd)
}
