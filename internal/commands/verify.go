package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/internal/saldo"
	"github.com/go-petr/pet-ledger/internal/transactionservice"
	"github.com/go-petr/pet-ledger/pkg/eventpkg"
)

func newVerifyCommand(opts *options) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check every stored saldo against the recomputed running balance",
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

			mismatches, err := transactionservice.New(st, eventpkg.NopPublisher{}).Audit(ctx, fix)
			if err != nil {
				return err
			}

			return report(cmd.OutOrStdout(), mismatches, fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "rewrite the mismatching saldi")

	return cmd
}

func report(w io.Writer, mismatches []saldo.Mismatch, fixed bool) error {
	for _, m := range mismatches {
		fmt.Fprintf(w, "account %d transaction %d: stored %s, computed %s\n",
			m.AccountID, m.TransactionID, m.Stored.StringFixed(2), m.Computed.StringFixed(2))
	}

	switch {
	case len(mismatches) == 0:
		fmt.Fprintln(w, "all saldi are consistent")
	case fixed:
		fmt.Fprintf(w, "fixed %d saldi\n", len(mismatches))
	default:
		return fmt.Errorf("%d saldo mismatches found, run with --fix to repair", len(mismatches))
	}

	return nil
}
