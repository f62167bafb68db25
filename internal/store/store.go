// Package store defines the persistence contract of the ledger and its Postgres implementation.
package store

//go:generate mockgen -source store.go -destination store_mock.go -package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Querier provides every query of the ledger.
type Querier interface {
	CreateAccount(ctx context.Context, a domain.Account) (domain.Account, error)
	GetAccount(ctx context.Context, id int32) (domain.Account, error)
	// LockAccount returns the account and holds a write lock on it until the unit of work ends.
	LockAccount(ctx context.Context, id int32) (domain.Account, error)
	// LockAccounts serialises account creation and deletion until the unit of work ends.
	LockAccounts(ctx context.Context) error
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	CountAccounts(ctx context.Context) (int, error)
	UpdateAccountTitle(ctx context.Context, id int32, title string) (domain.Account, error)
	DeleteAccount(ctx context.Context, id int32) error

	CreateTransaction(ctx context.Context, t domain.Transaction) (domain.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (domain.Transaction, error)
	ListTransactions(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error)
	// ListAccountTransactions returns every transaction of the account in chronological order.
	ListAccountTransactions(ctx context.Context, accountID int32) ([]domain.Transaction, error)
	UpdateSaldo(ctx context.Context, id int64, saldo decimal.Decimal) error
	// LatestSaldos returns the saldo of the latest transaction of every account that has one.
	LatestSaldos(ctx context.Context) (map[int32]decimal.Decimal, error)
}

// Store provides all queries and their execution within a unit of work.
type Store interface {
	Querier
	// ExecTx runs fn within a unit of work that is committed when fn returns nil
	// and rolled back otherwise.
	ExecTx(ctx context.Context, fn func(Querier) error) error
}

// Queries implements Querier on top of the account and transaction repositories.
type Queries struct {
	accounts     *accountrepo.RepoPGS
	transactions *transactionrepo.RepoPGS
}

// NewQueries returns Queries running on db, which is either a connection pool or a transaction.
func NewQueries(db dbpkg.SQLInterface) *Queries {
	return &Queries{
		accounts:     accountrepo.NewRepoPGS(db),
		transactions: transactionrepo.NewRepoPGS(db),
	}
}

// SQLStore provides all functions to execute db queries and transactions.
type SQLStore struct {
	*Queries
	db *sql.DB
}

// NewSQLStore returns a Postgres backed Store.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		Queries: NewQueries(db),
		db:      db,
	}
}

// ExecTx executes fn within a database transaction.
func (s *SQLStore) ExecTx(ctx context.Context, fn func(Querier) error) error {
	err := dbpkg.ExecTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(NewQueries(tx))
	})
	if err == nil {
		return nil
	}

	var lerr *domain.Error
	if errors.As(err, &lerr) {
		return lerr
	}

	if !errors.Is(err, errorspkg.ErrInternal) {
		zerolog.Ctx(ctx).Error().Err(err).Msg("unit of work failed")
	}

	return errorspkg.ErrInternal
}

// CreateAccount inserts the account.
func (q *Queries) CreateAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	return q.accounts.Create(ctx, a.Title, a.IBAN)
}

// GetAccount returns the account with the given id.
func (q *Queries) GetAccount(ctx context.Context, id int32) (domain.Account, error) {
	return q.accounts.Get(ctx, id)
}

// LockAccount returns the account with the given id locked for update.
func (q *Queries) LockAccount(ctx context.Context, id int32) (domain.Account, error) {
	return q.accounts.GetForUpdate(ctx, id)
}

// LockAccounts locks the accounts table against concurrent inserts and deletes.
func (q *Queries) LockAccounts(ctx context.Context) error {
	return q.accounts.LockTable(ctx)
}

// ListAccounts returns all accounts ordered by id.
func (q *Queries) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return q.accounts.List(ctx)
}

// CountAccounts returns the number of accounts.
func (q *Queries) CountAccounts(ctx context.Context) (int, error) {
	return q.accounts.Count(ctx)
}

// UpdateAccountTitle changes the account title.
func (q *Queries) UpdateAccountTitle(ctx context.Context, id int32, title string) (domain.Account, error) {
	return q.accounts.UpdateTitle(ctx, id, title)
}

// DeleteAccount removes the account and its transactions.
func (q *Queries) DeleteAccount(ctx context.Context, id int32) error {
	return q.accounts.Delete(ctx, id)
}

// CreateTransaction inserts the transaction.
func (q *Queries) CreateTransaction(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	return q.transactions.Create(ctx, t)
}

// GetTransaction returns the transaction with the given id.
func (q *Queries) GetTransaction(ctx context.Context, id int64) (domain.Transaction, error) {
	return q.transactions.Get(ctx, id)
}

// ListTransactions returns the filtered transactions, latest first.
func (q *Queries) ListTransactions(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error) {
	return q.transactions.List(ctx, arg)
}

// ListAccountTransactions returns all transactions of the account in chronological order.
func (q *Queries) ListAccountTransactions(ctx context.Context, accountID int32) ([]domain.Transaction, error) {
	return q.transactions.ListByAccount(ctx, accountID)
}

// UpdateSaldo stores a recomputed saldo.
func (q *Queries) UpdateSaldo(ctx context.Context, id int64, saldo decimal.Decimal) error {
	return q.transactions.UpdateSaldo(ctx, id, saldo)
}

// LatestSaldos returns the current saldo of every account with transactions.
func (q *Queries) LatestSaldos(ctx context.Context) (map[int32]decimal.Decimal, error) {
	return q.transactions.LatestSaldos(ctx)
}
