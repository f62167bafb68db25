// Package memstore is an in-memory implementation of the ledger store.
//
// All access is serialised by a single mutex. A unit of work runs on a copy of the data which
// replaces the live data only when the work succeeds.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/store"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type data struct {
	accounts     map[int32]domain.Account
	transactions map[int64]domain.Transaction
	nextAccount  int32
	nextTxn      int64
}

func (d *data) clone() *data {
	c := &data{
		accounts:     make(map[int32]domain.Account, len(d.accounts)),
		transactions: make(map[int64]domain.Transaction, len(d.transactions)),
		nextAccount:  d.nextAccount,
		nextTxn:      d.nextTxn,
	}

	for k, v := range d.accounts {
		c.accounts[k] = v
	}

	for k, v := range d.transactions {
		c.transactions[k] = v
	}

	return c
}

// Store is a concurrency safe in-memory store.
type Store struct {
	mu   sync.Mutex
	data *data
	now  func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		data: &data{
			accounts:     make(map[int32]domain.Account),
			transactions: make(map[int64]domain.Transaction),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

var _ store.Store = (*Store)(nil)

// ExecTx runs fn on a copy of the data and keeps the copy only when fn succeeds.
//
// Other callers are blocked until fn returns.
func (s *Store) ExecTx(ctx context.Context, fn func(store.Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()

	if err := fn(&queries{d: work, now: s.now}); err != nil {
		if domain.KindOf(err) == domain.KindPersistence {
			zerolog.Ctx(ctx).Error().Err(err).Msg("unit of work rolled back")
			return errorspkg.ErrInternal
		}

		return err
	}

	s.data = work

	return nil
}

func (s *Store) run(fn func(q *queries) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(&queries{d: s.data, now: s.now})
}

// CreateAccount inserts the account.
func (s *Store) CreateAccount(ctx context.Context, a domain.Account) (got domain.Account, err error) {
	err = s.run(func(q *queries) error {
		got, err = q.CreateAccount(ctx, a)
		return err
	})

	return got, err
}

// GetAccount returns the account with the given id.
func (s *Store) GetAccount(ctx context.Context, id int32) (got domain.Account, err error) {
	err = s.run(func(q *queries) error {
		got, err = q.GetAccount(ctx, id)
		return err
	})

	return got, err
}

// LockAccount returns the account. Outside a unit of work the lock ends with the call.
func (s *Store) LockAccount(ctx context.Context, id int32) (domain.Account, error) {
	return s.GetAccount(ctx, id)
}

// LockAccounts is a no-op outside a unit of work.
func (s *Store) LockAccounts(context.Context) error {
	return nil
}

// ListAccounts returns all accounts ordered by id.
func (s *Store) ListAccounts(ctx context.Context) (got []domain.Account, err error) {
	err = s.run(func(q *queries) error {
		got, err = q.ListAccounts(ctx)
		return err
	})

	return got, err
}

// CountAccounts returns the number of accounts.
func (s *Store) CountAccounts(ctx context.Context) (n int, err error) {
	err = s.run(func(q *queries) error {
		n, err = q.CountAccounts(ctx)
		return err
	})

	return n, err
}

// UpdateAccountTitle changes the account title.
func (s *Store) UpdateAccountTitle(ctx context.Context, id int32, title string) (got domain.Account, err error) {
	err = s.run(func(q *queries) error {
		got, err = q.UpdateAccountTitle(ctx, id, title)
		return err
	})

	return got, err
}

// DeleteAccount removes the account and its transactions.
func (s *Store) DeleteAccount(ctx context.Context, id int32) error {
	return s.run(func(q *queries) error {
		return q.DeleteAccount(ctx, id)
	})
}

// CreateTransaction inserts the transaction.
func (s *Store) CreateTransaction(ctx context.Context, t domain.Transaction) (got domain.Transaction, err error) {
	err = s.run(func(q *queries) error {
		got, err = q.CreateTransaction(ctx, t)
		return err
	})

	return got, err
}

// GetTransaction returns the transaction with the given id.
func (s *Store) GetTransaction(ctx context.Context, id int64) (got domain.Transaction, err error) {
	err = s.run(func(q *queries) error {
		got, err = q.GetTransaction(ctx, id)
		return err
	})

	return got, err
}

// ListTransactions returns the filtered transactions, latest first.
func (s *Store) ListTransactions(ctx context.Context, arg domain.ListTransactionsParams) (got []domain.Transaction, err error) {
	err = s.run(func(q *queries) error {
		got, err = q.ListTransactions(ctx, arg)
		return err
	})

	return got, err
}

// ListAccountTransactions returns all transactions of the account in chronological order.
func (s *Store) ListAccountTransactions(ctx context.Context, accountID int32) (got []domain.Transaction, err error) {
	err = s.run(func(q *queries) error {
		got, err = q.ListAccountTransactions(ctx, accountID)
		return err
	})

	return got, err
}

// UpdateSaldo stores a recomputed saldo.
func (s *Store) UpdateSaldo(ctx context.Context, id int64, saldo decimal.Decimal) error {
	return s.run(func(q *queries) error {
		return q.UpdateSaldo(ctx, id, saldo)
	})
}

// LatestSaldos returns the current saldo of every account with transactions.
func (s *Store) LatestSaldos(ctx context.Context) (got map[int32]decimal.Decimal, err error) {
	err = s.run(func(q *queries) error {
		got, err = q.LatestSaldos(ctx)
		return err
	})

	return got, err
}

// queries operates on data without locking.
type queries struct {
	d   *data
	now func() time.Time
}

func (q *queries) CreateAccount(_ context.Context, a domain.Account) (domain.Account, error) {
	for _, other := range q.d.accounts {
		if other.IBAN == a.IBAN {
			return domain.Account{}, domain.ErrDuplicateIBAN
		}
	}

	q.d.nextAccount++

	a.ID = q.d.nextAccount
	a.CreatedAt = q.now()
	q.d.accounts[a.ID] = a

	return a, nil
}

func (q *queries) GetAccount(_ context.Context, id int32) (domain.Account, error) {
	a, ok := q.d.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

func (q *queries) LockAccount(ctx context.Context, id int32) (domain.Account, error) {
	return q.GetAccount(ctx, id)
}

func (q *queries) LockAccounts(context.Context) error {
	return nil
}

func (q *queries) ListAccounts(context.Context) ([]domain.Account, error) {
	items := make([]domain.Account, 0, len(q.d.accounts))
	for _, a := range q.d.accounts {
		items = append(items, a)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items, nil
}

func (q *queries) CountAccounts(context.Context) (int, error) {
	return len(q.d.accounts), nil
}

func (q *queries) UpdateAccountTitle(_ context.Context, id int32, title string) (domain.Account, error) {
	a, ok := q.d.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	a.Title = title
	q.d.accounts[id] = a

	return a, nil
}

func (q *queries) DeleteAccount(_ context.Context, id int32) error {
	if _, ok := q.d.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}

	delete(q.d.accounts, id)

	for tid, t := range q.d.transactions {
		if t.AccountID == id {
			delete(q.d.transactions, tid)
		}
	}

	return nil
}

func (q *queries) CreateTransaction(_ context.Context, t domain.Transaction) (domain.Transaction, error) {
	if _, ok := q.d.accounts[t.AccountID]; !ok {
		return domain.Transaction{}, domain.ErrAccountNotFound
	}

	if t.Amount.IsZero() {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	q.d.nextTxn++

	t.ID = q.d.nextTxn
	t.CreatedAt = q.now()
	q.d.transactions[t.ID] = t

	return t, nil
}

func (q *queries) GetTransaction(_ context.Context, id int64) (domain.Transaction, error) {
	t, ok := q.d.transactions[id]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	return t, nil
}

func (q *queries) ListTransactions(_ context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error) {
	items := []domain.Transaction{}

	for _, t := range q.d.transactions {
		if matches(t, arg) {
			items = append(items, t)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].BookedAt.Equal(items[j].BookedAt) {
			return items[i].BookedAt.After(items[j].BookedAt)
		}

		return items[i].ID > items[j].ID
	})

	if arg.Offset > 0 {
		if int(arg.Offset) >= len(items) {
			return []domain.Transaction{}, nil
		}

		items = items[arg.Offset:]
	}

	if arg.Limit > 0 && int(arg.Limit) < len(items) {
		items = items[:arg.Limit]
	}

	return items, nil
}

func dateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func matches(t domain.Transaction, arg domain.ListTransactionsParams) bool {
	if arg.AccountID != 0 && t.AccountID != arg.AccountID {
		return false
	}

	if arg.StartDate != nil && dateOf(t.BookedAt) < dateOf(*arg.StartDate) {
		return false
	}

	if arg.EndDate != nil && dateOf(t.BookedAt) > dateOf(*arg.EndDate) {
		return false
	}

	if arg.Category != "" && t.Category != arg.Category {
		return false
	}

	if arg.Description != "" {
		if arg.SearchType == domain.SearchMatches {
			return t.Description == arg.Description
		}

		return strings.Contains(strings.ToLower(t.Description), strings.ToLower(arg.Description))
	}

	return true
}

func (q *queries) ListAccountTransactions(_ context.Context, accountID int32) ([]domain.Transaction, error) {
	items := []domain.Transaction{}

	for _, t := range q.d.transactions {
		if t.AccountID == accountID {
			items = append(items, t)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].BookedAt.Equal(items[j].BookedAt) {
			return items[i].BookedAt.Before(items[j].BookedAt)
		}

		return items[i].ID < items[j].ID
	})

	return items, nil
}

func (q *queries) UpdateSaldo(_ context.Context, id int64, saldo decimal.Decimal) error {
	t, ok := q.d.transactions[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}

	t.Saldo = saldo
	q.d.transactions[id] = t

	return nil
}

func (q *queries) LatestSaldos(ctx context.Context) (map[int32]decimal.Decimal, error) {
	saldos := make(map[int32]decimal.Decimal)

	for id := range q.d.accounts {
		txns, _ := q.ListAccountTransactions(ctx, id)
		if len(txns) > 0 {
			saldos[id] = txns[len(txns)-1].Saldo
		}
	}

	return saldos, nil
}
