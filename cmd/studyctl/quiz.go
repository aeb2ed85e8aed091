package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studybuddy/backend/internal/points"
	"github.com/studybuddy/backend/internal/questionbank"
	"github.com/studybuddy/backend/internal/quiz"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the available quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := questionbank.Default()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, q := range bank.Quizzes() {
			fmt.Fprintf(out, "%d  %-20s %-8s %2d questions  %3d pts  %s  (pool %d)\n",
				q.ID, q.Title, q.Difficulty, q.QuestionCount, q.Points, q.TimeEstimate,
				bank.PoolSize(q.Title, q.Difficulty))
		}
		return nil
	},
}

var quizCmd = &cobra.Command{
	Use:   "quiz <quiz-id>",
	Short: "Take a quiz in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid quiz id %q", args[0])
		}
		bank, err := questionbank.Default()
		if err != nil {
			return err
		}
		q, ok := bank.Quiz(id)
		if !ok {
			return quiz.ErrQuizNotFound
		}

		store, err := openSnapshot(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		sess := quiz.NewSession(bank, quiz.DefaultRand)
		err = sess.Start(quiz.Config{
			QuizID:         q.ID,
			Topic:          q.Title,
			Difficulty:     q.Difficulty,
			TotalQuestions: q.QuestionCount,
			BasePoints:     q.Points,
		})
		if err != nil {
			return err
		}

		if err := playQuiz(sess, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return err
		}
		if sess.State() != quiz.StateCompleted {
			fmt.Fprintln(cmd.OutOrStdout(), "Quiz abandoned. No points awarded.")
			return nil
		}

		total, err := points.NewService(store, nil).AwardQuiz(cmd.Context(), userFlag(cmd), q.ID, q.Title,
			string(q.Difficulty), sess.Score(), q.QuestionCount, sess.Reward())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nScore: %d/%d  Points earned: %d  Time: %s\nTotal points: %d\n",
			sess.Score(), q.QuestionCount, sess.Reward(), quiz.FormatDuration(sess.Elapsed()), total)
		return nil
	},
}

// playQuiz drives a started session from line-based input until it
// completes or is abandoned. Input running out abandons the quiz.
func playQuiz(sess *quiz.Session, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	cfg := sess.Config()

	for sess.State() == quiz.StateInProgress {
		if sess.Exhausted() {
			opt, ok := chooseExhaustion(sc, out)
			if !ok {
				sess.Abandon()
				return nil
			}
			if err := sess.Resolve(opt); err != nil {
				return err
			}
			continue
		}

		q := sess.Current()
		fmt.Fprintf(out, "\nQuestion %d of %d\n%s\n", sess.AnsweredCount()+1, cfg.TotalQuestions, q.Prompt)
		for i, o := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, o)
		}

		a, ok := readAnswer(sc, out, sess)
		if !ok {
			sess.Abandon()
			return nil
		}
		if a.Correct {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintf(out, "Incorrect. The answer was %d) %s\n", a.CorrectOption+1, q.Options[a.CorrectOption])
		}
		if a.Explanation != "" {
			fmt.Fprintln(out, a.Explanation)
		}
		if err := sess.Advance(); err != nil {
			return err
		}
	}
	return nil
}

func readAnswer(sc *bufio.Scanner, out io.Writer, sess *quiz.Session) (quiz.Answer, bool) {
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return quiz.Answer{}, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
		if err != nil {
			fmt.Fprintln(out, "Enter the number of an option.")
			continue
		}
		a, err := sess.SubmitAnswer(n - 1)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		return a, true
	}
}

func chooseExhaustion(sc *bufio.Scanner, out io.Writer) (quiz.ExhaustionOption, bool) {
	choices := quiz.ExhaustionChoices()
	fmt.Fprintf(out, "\n%s\n%s\n", quiz.ExhaustedExplanation, quiz.ExhaustedPrompt)
	for i, c := range choices {
		fmt.Fprintf(out, "  %d) %s\n", i+1, c.Label)
	}
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return "", false
		}
		n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
		if err != nil || n < 1 || n > len(choices) {
			fmt.Fprintln(out, "Enter the number of a choice.")
			continue
		}
		return choices[n-1].Option, true
	}
}
