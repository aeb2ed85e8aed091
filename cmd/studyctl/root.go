package main

import (
	"github.com/spf13/cobra"

	"github.com/studybuddy/backend/internal/config"
	"github.com/studybuddy/backend/internal/snapshot"
)

var rootCmd = &cobra.Command{
	Use:           "studyctl",
	Short:         "StudyBuddy command line tools",
	Long:          "studyctl runs database migrations, takes quizzes and builds study plans against a local snapshot file.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to the local snapshot file (overrides SNAPSHOT_PATH)")
	rootCmd.PersistentFlags().Int64("user", 1, "Local user id the snapshots belong to")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(loginCmd)
}

// openSnapshot resolves the snapshot path using --db first, then config.
func openSnapshot(cmd *cobra.Command) (*snapshot.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		path = cfg.SnapshotPath
	}
	return snapshot.Open(path)
}

func userFlag(cmd *cobra.Command) int64 {
	id, _ := cmd.Flags().GetInt64("user")
	return id
}
