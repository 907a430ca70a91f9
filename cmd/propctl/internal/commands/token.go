package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"propapi/internal/auth"
	"propapi/internal/model"
)

// TokenCmd issues a bearer token signed with JWT_SECRET.
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user")
			role, _ := cmd.Flags().GetString("role")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			cfg := loadEnv().cfg
			issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
			if err != nil {
				return err
			}
			token, err := issueToken(issuer, userID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().String("user", "", "User ID (UUID) the token is issued to")
	cmd.Flags().String("role", string(model.RoleTenant), "Role: landlord or tenant")
	cmd.Flags().Duration("ttl", 0, "Token lifetime, defaults to JWT_TOKEN_TTL")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func issueToken(issuer *auth.Issuer, userID, role string, ttl time.Duration) (string, error) {
	r := model.Role(role)
	if r != model.RoleLandlord && r != model.RoleTenant {
		return "", fmt.Errorf("invalid role %q: want landlord or tenant", role)
	}
	if ttl > 0 {
		return issuer.IssueWithTTL(userID, r, ttl)
	}
	return issuer.Issue(userID, r)
}
