// Package transactionrepo manages repository layer of transactions.
package transactionrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `id, account_id, description, amount, category, booked_at, saldo, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (domain.Transaction, error) {
	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.Description,
		&t.Amount,
		&t.Category,
		&t.BookedAt,
		&t.Saldo,
		&t.CreatedAt,
	)

	t.BookedAt = t.BookedAt.UTC()
	t.CreatedAt = t.CreatedAt.UTC()

	return t, err
}

const createQuery = `
INSERT INTO
    transactions (account_id, description, amount, category, booked_at, saldo)
VALUES
    ($1, $2, $3, $4, $5, $6)
RETURNING ` + columns

// Create inserts the transaction and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.Transaction) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.AccountID,
		arg.Description,
		arg.Amount,
		arg.Category,
		arg.BookedAt,
		arg.Saldo,
	)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_account_id_fkey":
				return domain.Transaction{}, domain.ErrAccountNotFound
			case "transactions_amount_check":
				return domain.Transaction{}, domain.ErrInvalidAmount
			}
		}

		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT ` + columns + `
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			l.Info().Err(err).Int64("transaction_id", id).Send()
			return domain.Transaction{}, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return domain.Transaction{}, errorspkg.ErrInternal
	}

	return t, nil
}

// listQuery builds the filtered transaction query, latest booking first.
func listQuery(arg domain.ListTransactionsParams) (string, []any) {
	var (
		where []string
		args  []any
	)

	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if arg.AccountID != 0 {
		add("account_id = $%d", arg.AccountID)
	}

	if arg.StartDate != nil {
		add("(booked_at AT TIME ZONE 'UTC')::date >= $%d::date", arg.StartDate.UTC().Format("2006-01-02"))
	}

	if arg.EndDate != nil {
		add("(booked_at AT TIME ZONE 'UTC')::date <= $%d::date", arg.EndDate.UTC().Format("2006-01-02"))
	}

	if arg.Category != "" {
		add("category = $%d", arg.Category)
	}

	if arg.Description != "" {
		switch arg.SearchType {
		case domain.SearchMatches:
			add("description = $%d", arg.Description)
		default:
			add("strpos(lower(description), lower($%d)) > 0", arg.Description)
		}
	}

	var sb strings.Builder

	sb.WriteString("SELECT " + columns + " FROM transactions")

	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}

	sb.WriteString(" ORDER BY booked_at DESC, id DESC")

	if arg.Limit > 0 {
		args = append(args, arg.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	if arg.Offset > 0 {
		args = append(args, arg.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}

// List returns the transactions matching the filters, latest first.
func (r *RepoPGS) List(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error) {
	query, args := listQuery(arg)
	return r.list(ctx, query, args...)
}

const listByAccountQuery = `
SELECT ` + columns + `
FROM transactions
WHERE account_id = $1
ORDER BY booked_at, id
`

// ListByAccount returns all transactions of the account in chronological order.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID int32) ([]domain.Transaction, error) {
	return r.list(ctx, listByAccountQuery, accountID)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const updateSaldoQuery = `
UPDATE transactions
SET saldo = $2
WHERE id = $1
`

// UpdateSaldo stores the saldo of the transaction.
func (r *RepoPGS) UpdateSaldo(ctx context.Context, id int64, saldo decimal.Decimal) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, updateSaldoQuery, id, saldo)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

const latestSaldosQuery = `
SELECT DISTINCT ON (account_id)
	account_id, saldo
FROM transactions
ORDER BY account_id, booked_at DESC, id DESC
`

// LatestSaldos returns the saldo of the latest transaction of every account.
func (r *RepoPGS) LatestSaldos(ctx context.Context) (map[int32]decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, latestSaldosQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	saldos := make(map[int32]decimal.Decimal)

	for rows.Next() {
		var (
			id    int32
			saldo decimal.Decimal
		)

		if err := rows.Scan(&id, &saldo); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		saldos[id] = saldo
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return saldos, nil
}
