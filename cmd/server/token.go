package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"despachos/rndc-gateway/internal/auth"
	"despachos/rndc-gateway/internal/config"
)

// newTokenCmd mints bearer tokens for operators and admins.
func newTokenCmd(configFile *string) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the /api/v1 endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			token, err := issueToken(cfg.JWT, subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "user the token is issued to")
	cmd.Flags().StringVar(&role, "role", auth.RoleOperator, "operator or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func issueToken(cfg config.JWTConfig, subject, role string, ttl time.Duration) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt.secret is not configured")
	}
	if role != auth.RoleOperator && role != auth.RoleAdmin {
		return "", fmt.Errorf("unknown role %q", role)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("ttl must be positive")
	}
	return auth.NewTokenService([]byte(cfg.Secret), cfg.Issuer).Issue(subject, role, ttl)
}
