package transactionservice

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/memstore"
	"github.com/go-petr/pet-ledger/internal/saldo"
	"github.com/go-petr/pet-ledger/internal/store"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/eventpkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	ts := t0.Add(d)
	return &ts
}

func seedAccount(t *testing.T, st *memstore.Store) domain.Account {
	t.Helper()

	a, err := st.CreateAccount(context.Background(), domain.Account{Title: randompkg.Title(), IBAN: randompkg.IBAN()})
	require.NoError(t, err)

	return a
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "got %s, want %s", got, want)
}

// failingStore makes UpdateSaldo fail inside every unit of work.
type failingStore struct {
	*memstore.Store
}

type failingQuerier struct {
	store.Querier
}

func (f failingStore) ExecTx(ctx context.Context, fn func(store.Querier) error) error {
	return f.Store.ExecTx(ctx, func(q store.Querier) error {
		return fn(failingQuerier{q})
	})
}

func (failingQuerier) UpdateSaldo(context.Context, int64, decimal.Decimal) error {
	return errorspkg.ErrInternal
}

func TestCreateBackdating(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memstore.New()
	a := seedAccount(t, st)
	s := New(st, eventpkg.NopPublisher{})

	t1, err := s.Create(ctx, a.ID, domain.CreateTransactionParams{Description: "One", Amount: "100", Category: domain.CategorySalary, BookedAt: at(time.Hour)})
	require.NoError(t, err)
	requireDecimal(t, "100", t1.Saldo)

	t2, err := s.Create(ctx, a.ID, domain.CreateTransactionParams{Description: "Two", Amount: "-30", Category: domain.CategoryRent, BookedAt: at(3 * time.Hour)})
	require.NoError(t, err)
	requireDecimal(t, "70", t2.Saldo)

	t3, err := s.Create(ctx, a.ID, domain.CreateTransactionParams{Description: "Three", Amount: "50", Category: domain.CategorySalary, BookedAt: at(2 * time.Hour)})
	require.NoError(t, err)
	requireDecimal(t, "150", t3.Saldo)

	all, err := st.ListAccountTransactions(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)

	got := map[int64]decimal.Decimal{}
	for _, txn := range all {
		got[txn.ID] = txn.Saldo
	}

	requireDecimal(t, "100", got[t1.ID])
	requireDecimal(t, "150", got[t3.ID])
	requireDecimal(t, "120", got[t2.ID])
	require.Empty(t, saldo.Verify(all))
}

func TestCreateWithStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		accountID   func(a domain.Account) int32
		arg         domain.CreateTransactionParams
		wantStatus  string
		wantMessage string
	}{
		{
			name:        "OK",
			accountID:   func(a domain.Account) int32 { return a.ID },
			arg:         domain.CreateTransactionParams{Description: "Apple salary", Amount: "1200", Category: domain.CategorySalary},
			wantStatus:  domain.StatusSuccess,
			wantMessage: MsgCreated,
		},
		{
			name:        "AccountNotFound",
			accountID:   func(a domain.Account) int32 { return a.ID + 1 },
			arg:         domain.CreateTransactionParams{Description: "Apple salary", Amount: "1200", Category: domain.CategorySalary},
			wantStatus:  domain.StatusError,
			wantMessage: domain.ErrAccountNotFound.Error(),
		},
		{
			name:        "InvalidDescription",
			accountID:   func(a domain.Account) int32 { return a.ID },
			arg:         domain.CreateTransactionParams{Description: "  ", Amount: "1200", Category: domain.CategorySalary},
			wantStatus:  domain.StatusError,
			wantMessage: domain.ErrInvalidDescription.Error(),
		},
		{
			name:        "ZeroAmount",
			accountID:   func(a domain.Account) int32 { return a.ID },
			arg:         domain.CreateTransactionParams{Description: "Nothing", Amount: "0", Category: domain.CategorySalary},
			wantStatus:  domain.StatusError,
			wantMessage: domain.ErrInvalidAmount.Error(),
		},
		{
			name:        "TransferCategory",
			accountID:   func(a domain.Account) int32 { return a.ID },
			arg:         domain.CreateTransactionParams{Description: "Sneaky", Amount: "10", Category: domain.CategoryTransfer},
			wantStatus:  domain.StatusError,
			wantMessage: domain.ErrInvalidCategory.Error(),
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			publisher := eventpkg.NewMockPublisher(ctrl)

			times := 0
			if tc.wantStatus == domain.StatusSuccess {
				times = 1
			}

			publisher.EXPECT().
				Publish(gomock.Any(), gomock.Eq(eventpkg.KeyTransactionCreated), gomock.Any()).
				Times(times).
				Return(nil)

			ctx := context.Background()
			st := memstore.New()
			a := seedAccount(t, st)

			got := New(st, publisher).CreateWithStatus(ctx, tc.accountID(a), tc.arg)
			require.Equal(t, tc.wantStatus, got.Status)
			require.Equal(t, tc.wantMessage, got.Message)

			all, err := st.ListAccountTransactions(ctx, a.ID)
			require.NoError(t, err)

			if tc.wantStatus == domain.StatusSuccess {
				require.Len(t, all, 1)
				require.Equal(t, []int64{all[0].ID}, got.IDs)
			} else {
				require.Empty(t, all)
				require.Empty(t, got.IDs)
			}
		})
	}
}

func TestCreateRollsBackOnPersistenceFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memstore.New()
	a := seedAccount(t, st)

	got := New(failingStore{st}, eventpkg.NopPublisher{}).CreateWithStatus(ctx, a.ID, domain.CreateTransactionParams{
		Description: "Rent", Amount: "-600", Category: domain.CategoryRent,
	})
	require.Equal(t, domain.Result{Status: domain.StatusError, Message: MsgCreateError}, got)

	all, err := st.ListAccountTransactions(ctx, a.ID)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestCreatePublishFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	publisher := eventpkg.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(1).Return(errorspkg.ErrInternal)

	st := memstore.New()
	a := seedAccount(t, st)

	got := New(st, publisher).CreateWithStatus(context.Background(), a.ID, domain.CreateTransactionParams{
		Description: "Rent", Amount: "-600", Category: domain.CategoryRent,
	})
	require.True(t, got.OK())
}

func TestCreateConcurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memstore.New()
	a := seedAccount(t, st)
	s := New(st, eventpkg.NopPublisher{})

	const n = 25

	var wg sync.WaitGroup

	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, err := s.Create(ctx, a.ID, domain.CreateTransactionParams{
				Description: randompkg.Description(),
				Amount:      randompkg.Amount(100).String(),
				Category:    randompkg.Category(),
				BookedAt:    at(time.Duration(i%5) * time.Hour),
			})
			errs <- err
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	all, err := st.ListAccountTransactions(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, all, n)
	require.Empty(t, saldo.Verify(all))
}

func TestGetAndList(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)

	want := domain.Transaction{ID: 7, AccountID: 1, Description: "Rent"}

	repo.EXPECT().GetTransaction(gomock.Any(), gomock.Eq(int64(7))).Times(1).Return(want, nil)
	repo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Eq(domain.ListTransactionsParams{
			AccountID: 1, SearchType: domain.SearchIncludes, Description: "ren",
		})).
		Times(1).
		Return([]domain.Transaction{want}, nil)

	s := New(repo, eventpkg.NopPublisher{})

	got, err := s.Get(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, want, got)

	list, err := s.List(context.Background(), domain.ListTransactionsParams{AccountID: 1, SearchType: "bogus", Description: "ren"})
	require.NoError(t, err)
	require.Equal(t, []domain.Transaction{want}, list)
}

func TestAudit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := memstore.New()
	a := seedAccount(t, st)
	s := New(st, eventpkg.NopPublisher{})

	first, err := s.Create(ctx, a.ID, domain.CreateTransactionParams{Description: "One", Amount: "100", Category: domain.CategorySalary, BookedAt: at(0)})
	require.NoError(t, err)

	_, err = s.Create(ctx, a.ID, domain.CreateTransactionParams{Description: "Two", Amount: "-40", Category: domain.CategoryRent, BookedAt: at(time.Hour)})
	require.NoError(t, err)

	mismatches, err := s.Audit(ctx, false)
	require.NoError(t, err)
	require.Empty(t, mismatches)

	require.NoError(t, st.UpdateSaldo(ctx, first.ID, decimal.NewFromInt(1)))

	mismatches, err = s.Audit(ctx, true)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	require.Equal(t, first.ID, mismatches[0].TransactionID)

	mismatches, err = s.Audit(ctx, false)
	require.NoError(t, err)
	require.Empty(t, mismatches)
}

func TestSummarise(t *testing.T) {
	t.Parallel()

	txns := []domain.Transaction{
		{Description: "Apple salary", Amount: decimal.RequireFromString("1200")},
		{Description: "Rent", Amount: decimal.RequireFromString("-600")},
		{Description: "Rent", Amount: decimal.RequireFromString("-600")},
		{Description: "Lidl", Amount: decimal.RequireFromString("-20.55")},
	}

	got := Summarise(txns)

	requireDecimal(t, "1200", got.Income)
	requireDecimal(t, "-1220.55", got.Expenses)
	requireDecimal(t, "-20.55", got.Sum)
	require.Equal(t, 4, got.Count)
	require.Equal(t, []string{"Apple salary", "Lidl", "Rent"}, got.Descriptions)

	empty := Summarise(nil)
	require.Zero(t, empty.Count)
	require.Empty(t, empty.Descriptions)
	requireDecimal(t, "0", empty.Sum)
}
