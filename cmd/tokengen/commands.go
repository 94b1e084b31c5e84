package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gokatarajesh/livequiz/internal/auth/jwt"
)

func newRootCmd() *cobra.Command {
	var secret, issuer string

	cmd := &cobra.Command{
		Use:          "tokengen",
		Short:        "Issue and inspect livequiz bearer tokens",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret (defaults to JWT_SECRET)")
	cmd.PersistentFlags().StringVar(&issuer, "issuer", os.Getenv("APP_NAME"), "token issuer (defaults to APP_NAME)")

	managerFor := func(ttl time.Duration) (*jwt.Manager, error) {
		if secret == "" {
			return nil, errors.New("a secret is required: set JWT_SECRET or pass --secret")
		}
		return jwt.NewManager(jwt.TokenConfig{Secret: []byte(secret), TTL: ttl, Issuer: issuer}), nil
	}

	cmd.AddCommand(newIssueCmd(managerFor), newInspectCmd(managerFor))
	return cmd
}

func newIssueCmd(managerFor func(time.Duration) (*jwt.Manager, error)) *cobra.Command {
	var (
		role string
		name string
		id   string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Print a signed token for an admin or participant",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := managerFor(ttl)
			if err != nil {
				return err
			}

			subjectID := uuid.New()
			if id != "" {
				if subjectID, err = uuid.Parse(id); err != nil {
					return fmt.Errorf("invalid --id: %w", err)
				}
			}

			token, err := manager.Issue(jwt.Subject{ID: subjectID, DisplayName: name, Role: role})
			if err != nil {
				return fmt.Errorf("issue %s token: %w", role, err)
			}
			log.Info().Str("subject", subjectID.String()).Str("role", role).Dur("ttl", ttl).Msg("token issued")
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", jwt.RoleParticipant, "admin or participant")
	cmd.Flags().StringVar(&name, "name", "", "display name carried in the token")
	cmd.Flags().StringVar(&id, "id", "", "subject id (random when empty)")
	cmd.Flags().DurationVar(&ttl, "ttl", 4*time.Hour, "token lifetime")
	return cmd
}

func newInspectCmd(managerFor func(time.Duration) (*jwt.Manager, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <token>",
		Short: "Validate a token and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := managerFor(0)
			if err != nil {
				return err
			}
			claims, err := manager.Validate(args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(claims)
		},
	}
}
