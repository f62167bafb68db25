// Package commands holds the petledger command line interface.
package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/internal/memstore"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/store"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

type options struct {
	configPath string
	memory     bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "petledger",
		Short: "Personal ledger with running balances and transfers",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "./configs", "directory holding app.env")
	rootCmd.PersistentFlags().BoolVar(&opts.memory, "memory", false, "use the in-memory store instead of Postgres")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newVerifyCommand(opts),
		newTokenCommand(opts),
		newHashSecretCommand(),
	)

	return rootCmd
}

// env is what every command needs once the configuration is loaded.
type env struct {
	config configpkg.Config
	logger zerolog.Logger
}

func (o *options) load() (env, error) {
	config, err := configpkg.Load(o.configPath)
	if err != nil {
		return env{}, fmt.Errorf("loading config: %w", err)
	}

	return env{config: config, logger: middleware.CreateLogger(config)}, nil
}

// openStore returns the configured store and a function releasing it.
func (o *options) openStore(ctx context.Context, e env) (store.Store, func(), error) {
	if o.memory {
		e.logger.Warn().Msg("using in-memory store, data is lost on exit")
		return memstore.New(), func() {}, nil
	}

	db, err := openDB(ctx, e)
	if err != nil {
		return nil, nil, err
	}

	release := func() {
		if err := db.Close(); err != nil {
			e.logger.Error().Err(err).Msg("cannot close database")
		}
	}

	return store.NewSQLStore(db), release, nil
}

func openDB(ctx context.Context, e env) (*sql.DB, error) {
	db, err := dbpkg.Setup(e.config.DBDriver, e.config.DBSource)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := dbpkg.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return db, nil
}
