package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lostaf-io/lostaf/internal/domain/user"
)

func NewSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage API sessions",
	}
	cmd.AddCommand(newSessionIssueCmd())
	return cmd
}

func newSessionIssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Create a user and issue a session token for it",
		Long: `Store the user record and print a session token accepted by the API,
either as the session_token cookie or as a Bearer token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			id, _ := cmd.Flags().GetString("id")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if id == "" {
				id = uuid.NewString()
			}
			if name == "" {
				name = email
			}

			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if ttl <= 0 {
				ttl = time.Duration(a.cfg.Auth.SessionTTLHours) * time.Hour
			}

			u := user.User{ID: id, Email: email, Name: name}
			if err := a.sessions.SaveUser(cmd.Context(), u); err != nil {
				return fmt.Errorf("save user: %w", err)
			}
			sess, err := a.sessions.Issue(cmd.Context(), u, ttl)
			if err != nil {
				return fmt.Errorf("issue session: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sess)
		},
	}

	cmd.Flags().String("email", "", "User email (required)")
	cmd.Flags().String("name", "", "Display name (defaults to the email)")
	cmd.Flags().String("id", "", "User ID (generated when empty)")
	cmd.Flags().Duration("ttl", 0, "Session lifetime (defaults to auth.session_ttl_hours)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
