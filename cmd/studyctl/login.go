package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/studybuddy/backend/internal/auth"
	"github.com/studybuddy/backend/internal/llm"
	"github.com/studybuddy/backend/internal/validation"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to a StudyBuddy server, creating the user on first login",
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		name, _ := cmd.Flags().GetString("name")
		age, _ := cmd.Flags().GetInt("age")
		education, _ := cmd.Flags().GetString("education")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		client := auth.NewClient(server, timeout)
		resp, err := client.Login(cmd.Context(), validation.LoginInput{Name: name, Age: age, Education: education})
		if err != nil {
			var verr validation.Errors
			var rerr *llm.RemoteError
			switch {
			case errors.As(err, &verr):
				return fmt.Errorf("%s", verr.Error())
			case errors.As(err, &rerr):
				return fmt.Errorf("%s", rerr.Reason)
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, resp.Message)
		fmt.Fprintf(out, "Welcome, %s\n", resp.User.DisplayName())
		fmt.Fprintf(out, "Token: %s\n", resp.Token)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("server", "http://localhost:8080", "Server base URL")
	loginCmd.Flags().String("name", "", "Your name")
	loginCmd.Flags().Int("age", 0, "Your age")
	loginCmd.Flags().String("education", "", "Education level")
	loginCmd.Flags().Duration("timeout", 10*time.Second, "Request timeout")
}
