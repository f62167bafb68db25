package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}

			db, err := openDB(cmd.Context(), e)
			if err != nil {
				return err
			}

			if err := db.Close(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")

			return nil
		},
	}
}
