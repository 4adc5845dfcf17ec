package main

import (
	"fmt"
	"time"

	"github.com/sebuszqo/FinanceDashboard/internal/identity"
	"github.com/spf13/cobra"
)

// tokenCmd mints an access token signed with JWT_SECRET, for local use against the API.
func tokenCmd() *cobra.Command {
	var (
		ownerID string
		email   string
		name    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.RequireJWTSecret(); err != nil {
				return err
			}
			tokens, err := identity.NewTokenManager(cfg.JWTSecret)
			if err != nil {
				return err
			}
			token, err := tokens.GenerateAccessJWT(identity.Identity{OwnerID: ownerID, Email: email, Name: name}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&ownerID, "owner", "", "owner id the token is issued for")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", identity.DefaultTokenDuration, "token lifetime")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
