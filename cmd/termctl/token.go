package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/glossary-backend/internal/auth"
	"github.com/heartmarshall/glossary-backend/internal/config"
	"github.com/heartmarshall/glossary-backend/internal/domain"
)

func newTokenCmd() *cobra.Command {
	var id auth.Identity
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for a collaborator",
		Long: `Mint an access token for a collaborator.

The secret, issuer and TTL come from the server configuration
(CONFIG_PATH or ./config.yaml, overridden by AUTH_* variables).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id.Role = strings.ToUpper(id.Role)
			if !domain.CollaboratorRole(id.Role).IsValid() {
				return fmt.Errorf("--role must be ADMIN, EDITOR, REVIEWER or VIEWER, got %q", id.Role)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			mgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
			tok, err := mgr.GenerateAccessToken(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVarP(&id.UserID, "user", "u", "", "collaborator id (token subject)")
	cmd.Flags().StringVarP(&id.Name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&id.Role, "role", "r", string(domain.RoleEditor), "ADMIN, EDITOR, REVIEWER or VIEWER")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
