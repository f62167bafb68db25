//go:build integration

package transactionrepo_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
	"github.com/go-petr/pet-ledger/internal/integrationtest/helpers"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
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

	bookedAt := time.Date(2023, 2, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		arg     func(account domain.Account) domain.Transaction
		wantErr error
	}{
		{
			name: "OK",
			arg: func(account domain.Account) domain.Transaction {
				return domain.Transaction{
					AccountID:   account.ID,
					Description: "Apple salary",
					Amount:      decimal.RequireFromString("1200.00"),
					Category:    domain.CategorySalary,
					BookedAt:    bookedAt,
					Saldo:       decimal.RequireFromString("1200.00"),
				}
			},
		},
		{
			name: "ErrAccountNotFound",
			arg: func(account domain.Account) domain.Transaction {
				return domain.Transaction{
					AccountID:   account.ID + 1000,
					Description: "Rent",
					Amount:      decimal.RequireFromString("-600"),
					Category:    domain.CategoryRent,
					BookedAt:    bookedAt,
				}
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "ErrInvalidAmount",
			arg: func(account domain.Account) domain.Transaction {
				return domain.Transaction{
					AccountID:   account.ID,
					Description: "Nothing",
					Amount:      decimal.Zero,
					Category:    domain.CategoryRent,
					BookedAt:    bookedAt,
				}
			},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tx := integrationtest.SetupTX(t, dbDriver, dbSource)
			account := helpers.SeedAccount(t, tx)
			want := tc.arg(account)

			got, err := transactionrepo.NewRepoPGS(tx).Create(ctx, want)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)

			ignoreFields := cmpopts.IgnoreFields(domain.Transaction{}, "ID", "CreatedAt")
			if diff := cmp.Diff(want, got, ignoreFields); diff != "" {
				t.Errorf("repo.Create(ctx, %+v) returned unexpected difference (-want +got):\n%s", want, diff)
			}

			fetched, err := transactionrepo.NewRepoPGS(tx).Get(ctx, got.ID)
			require.NoError(t, err)
			require.Equal(t, got, fetched)
		})
	}
}

func TestListAndSaldo(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := transactionrepo.NewRepoPGS(tx)

	account := helpers.SeedAccount(t, tx)
	day := time.Date(2023, 3, 10, 12, 0, 0, 0, time.UTC)

	t1 := helpers.SeedTransaction(t, tx, account.ID, decimal.RequireFromString("100"), day)
	t2 := helpers.SeedTransaction(t, tx, account.ID, decimal.RequireFromString("-30"), day.AddDate(0, 0, 2))
	t3 := helpers.SeedTransaction(t, tx, account.ID, decimal.RequireFromString("50"), day.AddDate(0, 0, 1))

	all, err := repo.ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{t1.ID, t3.ID, t2.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

	latest, err := repo.List(ctx, domain.ListTransactionsParams{AccountID: account.ID})
	require.NoError(t, err)
	require.Equal(t, []int64{t2.ID, t3.ID, t1.ID}, []int64{latest[0].ID, latest[1].ID, latest[2].ID})

	start := day.AddDate(0, 0, 1)
	filtered, err := repo.List(ctx, domain.ListTransactionsParams{AccountID: account.ID, StartDate: &start, EndDate: &start})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, t3.ID, filtered[0].ID)

	require.NoError(t, repo.UpdateSaldo(ctx, t2.ID, decimal.RequireFromString("120")))
	require.ErrorIs(t, repo.UpdateSaldo(ctx, t2.ID+1000, decimal.Zero), domain.ErrTransactionNotFound)

	saldos, err := repo.LatestSaldos(ctx)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("120").Equal(saldos[account.ID]))

	_, err = repo.Get(ctx, t2.ID+1000)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}
