// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.IBAN,
		&a.CreatedAt,
	)

	a.CreatedAt = a.CreatedAt.UTC()

	return a, err
}

const createQuery = `
INSERT INTO
    accounts (title, iban)
VALUES
    ($1, $2)
RETURNING id, title, iban, created_at
`

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, title, iban string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, createQuery, title, iban))
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_iban_key" {
				return domain.Account{}, domain.ErrDuplicateIBAN
			}
		}

		return domain.Account{}, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	id, title, iban, created_at
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int32) (domain.Account, error) {
	return r.get(ctx, getQuery, id)
}

const getForUpdateQuery = getQuery + `FOR UPDATE
`

// GetForUpdate returns the account with the given id and locks its row until the transaction ends.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int32) (domain.Account, error) {
	return r.get(ctx, getForUpdateQuery, id)
}

func (r *RepoPGS) get(ctx context.Context, query string, id int32, args ...any) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, append([]any{id}, args...)...))
	if err != nil {
		if err == sql.ErrNoRows {
			l.Info().Err(err).Int32("account_id", id).Send()
			return domain.Account{}, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return domain.Account{}, errorspkg.ErrInternal
	}

	return a, nil
}

const lockTableQuery = `LOCK TABLE accounts IN SHARE ROW EXCLUSIVE MODE`

// LockTable blocks concurrent inserts and deletes of accounts until the transaction ends.
func (r *RepoPGS) LockTable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, lockTableQuery); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

const listQuery = `
SELECT
	id, title, iban, created_at
FROM accounts
ORDER BY id
`

// List returns all accounts.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
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

const countQuery = `SELECT count(*) FROM accounts`

// Count returns the number of accounts.
func (r *RepoPGS) Count(ctx context.Context) (int, error) {
	var n int

	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&n); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return n, nil
}

const updateTitleQuery = `
UPDATE accounts
SET title = $2
WHERE id = $1
RETURNING id, title, iban, created_at
`

// UpdateTitle changes the title of the account and returns the changed account.
func (r *RepoPGS) UpdateTitle(ctx context.Context, id int32, title string) (domain.Account, error) {
	return r.get(ctx, updateTitleQuery, id, title)
}

const deleteQuery = `
DELETE FROM accounts
WHERE id = $1
`

// Delete removes the account with the given id. Its transactions are removed by cascade.
func (r *RepoPGS) Delete(ctx context.Context, id int32) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, id)
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
		return domain.ErrAccountNotFound
	}

	return nil
}
