package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/pkg/passpkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
)

func newTokenCommand(opts *options) *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for the configured API client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}

			if duration <= 0 {
				duration = e.config.AccessTokenDuration
			}

			maker, err := tokenpkg.NewMaker(e.config.TokenType, e.config.TokenSymmetricKey)
			if err != nil {
				return err
			}

			token, payload, err := maker.CreateToken(e.config.APIClientID, duration)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", payload.ExpiredAt.UTC().Format(time.RFC3339))

			return nil
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 0, "token lifetime, defaults to ACCESS_TOKEN_DURATION")

	return cmd
}

func newHashSecretCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-secret [secret]",
		Short: "Print the bcrypt hash to put into API_CLIENT_SECRET_HASH",
		Long:  "Print the bcrypt hash to put into API_CLIENT_SECRET_HASH. Without argument the secret is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var secret string

			if len(args) == 1 {
				secret = args[0]
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}

				secret = strings.TrimSpace(string(b))
			}

			if secret == "" {
				return fmt.Errorf("secret must not be empty")
			}

			hash, err := passpkg.Hash(secret)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)

			return nil
		},
	}
}
