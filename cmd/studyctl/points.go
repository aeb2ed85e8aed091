package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studybuddy/backend/internal/points"
)

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Show the local points total",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSnapshot(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		total, err := points.NewService(store, nil).Total(cmd.Context(), userFlag(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Total points: %d\n", total)
		return nil
	},
}
