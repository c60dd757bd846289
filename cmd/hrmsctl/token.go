package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/config"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

// newTokenCmd issues an access token signed with the server secret, for
// operators calling an API that has auth enabled.
func newTokenCmd(a *app) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with AUTH_JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.envFiles()...)
			if err != nil {
				return err
			}
			if !cfg.AuthEnabled() {
				return fmt.Errorf("AUTH_JWT_SECRET is not set")
			}
			if ttl <= 0 {
				ttl = cfg.Auth.AccessExpiration
			}

			token, expiresAt, err := jwt.NewJWTService(cfg.Auth.Secret, ttl).GenerateAccessToken(subject)
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}
			if a.flags.output == outputJSON {
				return a.printJSON(map[string]any{"access_token": token, "expires_at": expiresAt})
			}
			fmt.Fprintln(a.stdout, token)
			fmt.Fprintf(a.stderr, "expires %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
			return nil
		},
	}
	host, _ := os.Hostname()
	cmd.Flags().StringVar(&subject, "subject", "hrmsctl@"+host, "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "lifetime (default AUTH_ACCESS_EXPIRATION)")
	return cmd
}
