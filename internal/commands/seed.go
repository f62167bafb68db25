package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/internal/accountpolicy"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/seed"
	"github.com/go-petr/pet-ledger/internal/transactionservice"
	"github.com/go-petr/pet-ledger/pkg/eventpkg"
)

func newSeedCommand(opts *options) *cobra.Command {
	var (
		months int
		random int
		days   int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Book demo transactions on the first account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}

			ctx := e.logger.WithContext(cmd.Context())

			st, release, err := opts.openStore(ctx, e)
			if err != nil {
				return err
			}
			defer release()

			publisher := eventpkg.NopPublisher{}
			policy := accountpolicy.New(e.config.MaxAccounts, e.config.BaseIBAN)

			seeder := seed.New(
				accountservice.New(st, policy, publisher),
				transactionservice.New(st, publisher),
			)

			now := time.Now()
			params := append(seed.Demo(months, now), seed.Random(random, days, now)...)

			account, n, err := seeder.Run(ctx, params)
			if err != nil {
				return fmt.Errorf("seeding after %d transactions: %w", n, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "booked %d transactions on account %d (%s)\n", n, account.ID, account.Title)

			return nil
		},
	}

	cmd.Flags().IntVar(&months, "months", 3, "months of the fixed demo plan")
	cmd.Flags().IntVar(&random, "random", 0, "number of additional random transactions")
	cmd.Flags().IntVar(&days, "days", 65, "random transactions are booked within this many days")

	return cmd
}
