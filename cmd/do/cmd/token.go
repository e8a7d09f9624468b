package cmd

import (
	"fmt"
	"time"

	"github.com/fitcircle/fitcircle/internal/config"
	"github.com/fitcircle/fitcircle/internal/service"
	"github.com/spf13/cobra"
)

// TokenCmd mints a signed session token for local API testing.
func TokenCmd() *cobra.Command {
	var (
		name   string
		image  string
		expiry time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token for a user (development only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.IsProduction() {
				return fmt.Errorf("refusing to issue tokens with APP_ENV=production")
			}

			authService := service.NewAuthService(nil, cfg.JWTSecret, false, expiry)
			token, expiresAt, err := authService.IssueToken(service.Identity{
				UserID:      args[0],
				DisplayName: name,
				ImageURL:    image,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name carried in the token")
	cmd.Flags().StringVar(&image, "image", "", "avatar URL carried in the token")
	cmd.Flags().DurationVar(&expiry, "expiry", 24*time.Hour, "token lifetime")
	return cmd
}
