package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studybuddy/backend/internal/studyplan"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a study plan and save it as the local snapshot",
	Long: `Generate a study plan from an exam date, daily hours and a list of subjects.

Each --subject takes the form "Name:Topic=Hours,Topic=Hours", for example
  --subject "Math:Algebra=3,Geometry=2.5"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		examDate, _ := cmd.Flags().GetString("exam-date")
		daily, _ := cmd.Flags().GetFloat64("daily-hours")
		entries, _ := cmd.Flags().GetStringArray("subject")

		draft, err := buildDraft(examDate, daily, entries)
		if err != nil {
			return err
		}

		store, err := openSnapshot(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		plan, err := studyplan.NewService(store).Generate(cmd.Context(), userFlag(cmd), *draft)
		if err != nil {
			return err
		}
		printPlan(cmd.OutOrStdout(), plan)
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved study plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSnapshot(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		plan, err := studyplan.NewService(store).Current(cmd.Context(), userFlag(cmd))
		if errors.Is(err, studyplan.ErrNoPlan) {
			fmt.Fprintln(cmd.OutOrStdout(), "No study plan saved.")
			return nil
		}
		if err != nil {
			return err
		}
		printPlan(cmd.OutOrStdout(), plan)
		return nil
	},
}

var planClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved study plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSnapshot(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		return studyplan.NewService(store).Discard(cmd.Context(), userFlag(cmd))
	},
}

func init() {
	planCmd.Flags().String("exam-date", "", "Exam date (YYYY-MM-DD)")
	planCmd.Flags().Float64("daily-hours", 0, "Hours available per day")
	planCmd.Flags().StringArray("subject", nil, `Subject and portions, "Name:Topic=Hours,..."`)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planClearCmd)
}

// buildDraft assembles a draft through the same mutators the editor uses,
// so duplicate names and bad portions fail the same way.
func buildDraft(examDate string, daily float64, entries []string) (*studyplan.Draft, error) {
	d := studyplan.NewDraft(0)
	d.ExamDate = examDate
	d.DailyHours = daily

	for _, entry := range entries {
		name, portions, _ := strings.Cut(entry, ":")
		if err := d.AddSubject(name); err != nil {
			return nil, err
		}
		i := len(d.Subjects) - 1
		if strings.TrimSpace(portions) == "" {
			continue
		}
		for _, p := range strings.Split(portions, ",") {
			topic, hours, ok := strings.Cut(p, "=")
			if !ok {
				return nil, fmt.Errorf("portion %q: expected Topic=Hours", strings.TrimSpace(p))
			}
			h, err := strconv.ParseFloat(strings.TrimSpace(hours), 64)
			if err != nil {
				return nil, fmt.Errorf("portion %q: invalid hours", strings.TrimSpace(p))
			}
			if err := d.AddPortion(i, topic, h); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

func printPlan(out io.Writer, plan *studyplan.Plan) {
	fmt.Fprintf(out, "Exam: %s (%d days)\n", plan.ExamDate, plan.DaysUntilExam)
	fmt.Fprintf(out, "Daily hours: %g  Total hours: %g  Per subject per day: %.2f\n",
		plan.DailyHours, plan.TotalHours, plan.HoursPerSubjectPerDay)
	for _, s := range plan.Subjects {
		fmt.Fprintf(out, "\n%s\n", s.Name)
		for _, p := range s.Portions {
			fmt.Fprintf(out, "  - %s: %gh\n", p.Topic, p.Hours)
		}
	}
}
