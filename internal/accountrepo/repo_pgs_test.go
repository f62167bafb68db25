//go:build integration

package accountrepo_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
	"github.com/go-petr/pet-ledger/internal/integrationtest/helpers"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	dbDriver string
	dbSource string
	ctx      context.Context
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	logger := middleware.CreateLogger(config)
	ctx = logger.WithContext(context.Background())

	os.Exit(m.Run())
}

func TestCreate(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := accountrepo.NewRepoPGS(tx)

	title, iban := randompkg.Title(), randompkg.IBAN()

	got, err := repo.Create(ctx, title, iban)
	require.NoError(t, err)

	want := domain.Account{Title: title, IBAN: iban, CreatedAt: time.Now().UTC()}

	ignoreFields := cmpopts.IgnoreFields(domain.Account{}, "ID")
	compareCreatedAt := cmpopts.EquateApproxTime(time.Minute)
	if diff := cmp.Diff(want, got, ignoreFields, compareCreatedAt); diff != "" {
		t.Errorf("repo.Create(ctx, %v, %v) returned unexpected difference (-want +got):\n%s", title, iban, diff)
	}

	require.NotZero(t, got.ID)
}

func TestCreateDuplicateIBAN(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	account := helpers.SeedAccount(t, tx)

	_, err := accountrepo.NewRepoPGS(tx).Create(ctx, randompkg.Title(), account.IBAN)
	require.ErrorIs(t, err, domain.ErrDuplicateIBAN)
}

func TestGetAndLock(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := accountrepo.NewRepoPGS(tx)
	want := helpers.SeedAccount(t, tx)

	got, err := repo.Get(ctx, want.ID)
	require.NoError(t, err)
	require.Equal(t, want, got)

	got, err = repo.GetForUpdate(ctx, want.ID)
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = repo.Get(ctx, want.ID+1000)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	require.NoError(t, repo.LockTable(ctx))
}

func TestListCountUpdateDelete(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := accountrepo.NewRepoPGS(tx)

	before, err := repo.Count(ctx)
	require.NoError(t, err)

	a1 := helpers.SeedAccount(t, tx)
	a2 := helpers.SeedAccount(t, tx)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, before+2, n)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Contains(t, list, a1)
	require.Contains(t, list, a2)

	updated, err := repo.UpdateTitle(ctx, a1.ID, "Renamed")
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, a1.IBAN, updated.IBAN)

	_, err = repo.UpdateTitle(ctx, a1.ID+1000, "Renamed")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	helpers.SeedTransaction(t, tx, a2.ID, decimal.RequireFromString("10"), time.Now().UTC())

	require.NoError(t, repo.Delete(ctx, a2.ID))
	require.ErrorIs(t, repo.Delete(ctx, a2.ID), domain.ErrAccountNotFound)

	var left int
	err = tx.QueryRow(`SELECT count(*) FROM transactions WHERE account_id = $1`, a2.ID).Scan(&left)
	require.NoError(t, err)
	require.Zero(t, left)
}
