package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobsight/internal/roadmap"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Build a learning roadmap from your CV, a major, your quiz result or a target role",
}

var roadmapMajorsCmd = &cobra.Command{
	Use:   "majors",
	Short: "List the majors a roadmap can be built for",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)
		defer e.close()

		for _, m := range roadmap.DefaultCatalog().Majors {
			fmt.Fprintf(e.out.W, "%-4s %s\n", m.Key, m.Label)
		}
	},
}

var roadmapCVCmd = &cobra.Command{
	Use:   "cv",
	Short: "Extract skills from a resume and build the roadmap of the closest major",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)
		defer e.close()

		path, _ := cmd.Flags().GetString("file")
		f, err := os.Open(path)
		if err != nil {
			e.logger.Fatal("opening resume", zap.Error(err))
		}
		defer f.Close()

		e.user()
		skills, err := e.client.AnalyzeResume(e.ctx, filepath.Base(path), f)
		if err != nil {
			e.logger.Fatal("analyzing resume", zap.Error(err))
		}
		e.logger.Info("extracted skills", zap.Strings("skills", skills))

		buildRoadmap(e, roadmap.CV{Skills: skills})
	},
}

var roadmapMajorCmd = &cobra.Command{
	Use:   "major KEY",
	Short: "Build the roadmap of a major (see 'roadmap majors')",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup(cmd)
		defer e.close()

		e.user()
		buildRoadmap(e, roadmap.Major{Key: args[0]})
	},
}

var roadmapQuizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Build the roadmap of the major your last quiz suggested",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)
		defer e.close()

		cached, err := e.state.QuizResult(e.ctx)
		if err != nil {
			e.logger.Fatal("reading quiz result", zap.Error(err))
		}

		e.user()
		buildRoadmap(e, roadmap.Quiz{Cached: cached})
	},
}

var roadmapPreciseCmd = &cobra.Command{
	Use:   "precise",
	Short: "Generate a month-by-month plan for a target role",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)
		defer e.close()

		flags := cmd.Flags()
		role, _ := flags.GetString("role")
		skills, _ := flags.GetString("skills")
		months, _ := flags.GetInt("months")
		country, _ := flags.GetString("country")
		save, _ := flags.GetBool("save")
		download, _ := flags.GetString("download")

		req := roadmap.PreciseRequest{
			TargetRole:     role,
			CurrentSkills:  skills,
			TimelineMonths: months,
			Country:        country,
		}

		e.user()
		res := buildRoadmap(e, roadmap.Precise{Request: req})

		if flags.Changed("download") {
			name := strings.TrimSpace(download)
			if name == "" {
				name = roadmap.FileName(strings.TrimSpace(role))
			}
			if err := os.WriteFile(name, []byte(res.Text+"\n"), 0o644); err != nil {
				e.logger.Fatal("writing roadmap file", zap.Error(err))
			}
			e.logger.Info("roadmap written", zap.String("filename", name))
		}

		if save {
			e.requireUser()
			payload, err := roadmap.NewSavePayload(&req, res.Text, res.Model, time.Now())
			if msg, ok := roadmapMessage(err); ok {
				fmt.Fprintln(e.out.W, msg)
				return
			}
			if err != nil {
				e.logger.Fatal("saving roadmap", zap.Error(err))
			}
			saved, err := e.client.SaveRoadmap(e.ctx, payload)
			if err != nil {
				e.logger.Fatal("saving roadmap", zap.Error(err))
			}
			fmt.Fprintf(e.out.W, "Saved roadmap %s.\n", saved.ID)
		}
	},
}

func init() {
	roadmapCVCmd.Flags().StringP("file", "f", "", "resume file (pdf, docx or txt)")
	roadmapCVCmd.MarkFlagRequired("file")

	f := roadmapPreciseCmd.Flags()
	f.String("role", "", "target role, e.g. Data Analyst")
	f.String("skills", "", "comma separated current skills")
	f.Int("months", 6, fmt.Sprintf("timeline in months (%d..%d)", roadmap.MinMonths, roadmap.MaxMonths))
	f.String("country", "", "country code for local examples, e.g. PL")
	f.Bool("save", false, "save the plan to your account")
	f.String("download", "", "write the plan to a text file (default name derived from the role)")
	f.Lookup("download").NoOptDefVal = " "

	roadmapCmd.AddCommand(roadmapMajorsCmd, roadmapCVCmd, roadmapMajorCmd, roadmapQuizCmd, roadmapPreciseCmd)
	rootCmd.AddCommand(roadmapCmd)
}

const (
	noSkillsMessage     = "Please extract skills from your CV first."
	noQuizResultMessage = "No saved quiz results found."
	emptyPlanMessage    = "Generate a roadmap first."
)

// roadmapMessage is the text shown for errors the user can act on.
func roadmapMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, roadmap.ErrNoSkills):
		return noSkillsMessage, true
	case errors.Is(err, roadmap.ErrNoQuizResult):
		return noQuizResultMessage, true
	case errors.Is(err, roadmap.ErrEmptyPlan):
		return emptyPlanMessage, true
	}
	return "", false
}

func buildRoadmap(e *env, req roadmap.Request) *roadmap.Result {
	res, err := e.builder().Build(e.ctx, req)
	if msg, ok := roadmapMessage(err); ok {
		fmt.Fprintln(e.out.W, msg)
		e.close()
		os.Exit(1)
	}
	if err != nil {
		e.logger.Fatal("building roadmap", zap.Error(err))
	}

	e.logger.Debug("roadmap ready", zap.String("major", res.Major), zap.String("model", res.Model))
	e.out.Roadmap(res)
	return res
}
