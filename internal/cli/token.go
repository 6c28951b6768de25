package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"millionaire-quiz-service/internal/auth"
	"millionaire-quiz-service/internal/config"
)

// NewTokenCmd mints a signed token for local play and testing.
func NewTokenCmd(configPath *string) *cobra.Command {
	var (
		userID   int64
		username string
		email    string
		role     string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed player token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Auth.Secret == "" {
				return fmt.Errorf("auth secret not configured")
			}
			parsed, err := auth.ParseRole(role)
			if err != nil {
				return err
			}
			if userID <= 0 {
				return fmt.Errorf("--user must be positive")
			}

			tokens := auth.NewTokenService(cfg.Auth.Secret, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))
			raw, err := tokens.Issue(auth.User{ID: userID, Username: username, Role: parsed}, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 1, "user id")
	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleUser), "user or administrator")
	return cmd
}
