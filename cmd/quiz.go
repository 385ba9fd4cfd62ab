package cmd

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobsight/internal/quiz"
	"github.com/spigell/jobsight/internal/utils"
)

const PromptPrevQuestion = "« previous question"

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take the career quiz and get suggested majors and roles",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)
		defer e.close()

		raw, _ := cmd.Flags().GetString("answers")
		var (
			answers []int
			err     error
		)
		if raw != "" {
			answers, err = parseAnswers(raw, len(e.quiz.Questions))
		} else {
			answers, err = askQuiz(e.quiz)
		}
		if err != nil {
			e.logger.Fatal("answering the quiz", zap.Error(err))
		}

		// Posting is attempted with whatever session exists.
		e.user()
		recorder := &quiz.Recorder{
			Catalog:   e.quiz,
			Cache:     e.state,
			Submitter: e.client,
			Logger:    e.logger,
		}
		cached, err := recorder.Record(e.ctx, answers)
		if err != nil {
			e.logger.Warn("caching quiz result", zap.Error(err))
		}
		e.out.QuizResult(e.quiz, cached)
	},
}

var quizShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the last quiz result",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)
		defer e.close()

		cached, err := e.state.QuizResult(e.ctx)
		if err != nil {
			e.logger.Fatal("reading quiz result", zap.Error(err))
		}
		if cached == nil {
			fmt.Fprintln(e.out.W, noQuizResultMessage)
			return
		}
		e.out.QuizResult(e.quiz, cached)
	},
}

func init() {
	quizCmd.Flags().String("answers", "", "comma separated answers 0..4, one per question, instead of prompting")

	quizCmd.AddCommand(quizShowCmd)
	rootCmd.AddCommand(quizCmd)
}

func parseAnswers(raw string, total int) ([]int, error) {
	parts := utils.SplitList(raw)
	if len(parts) != total {
		return nil, fmt.Errorf("expected %d answers, got %d", total, len(parts))
	}

	answers := make([]int, 0, total)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > quiz.MaxAnswer {
			return nil, fmt.Errorf("answer %d: %q is not a number in 0..%d", i+1, p, quiz.MaxAnswer)
		}
		answers = append(answers, v)
	}
	return answers, nil
}

func askQuiz(c *quiz.Catalog) ([]int, error) {
	s := c.NewSession()
	for !s.Done() {
		items := append([]string{}, c.Options...)
		if s.Step() > 0 {
			items = append(items, PromptPrevQuestion)
		}

		p := promptui.Select{
			Label:     fmt.Sprintf("%d/%d %s", s.Step()+1, s.Total(), s.Question().Text),
			Items:     items,
			CursorPos: s.Answer(s.Step()),
		}
		idx, _, err := p.Run()
		if err != nil {
			return nil, err
		}

		if idx == len(c.Options) {
			s.Back()
			continue
		}
		if err := s.Pick(idx); err != nil {
			return nil, err
		}
	}
	return s.Answers(), nil
}
