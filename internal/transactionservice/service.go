// Package transactionservice manages business logic layer of transactions.
package transactionservice

import (
	"context"
	"sort"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/saldo"
	"github.com/go-petr/pet-ledger/internal/store"
	"github.com/go-petr/pet-ledger/pkg/eventpkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Result messages.
const (
	MsgCreated     = "Successfully created new transaction."
	MsgCreateError = "Error occurred while creating the transaction."
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	ExecTx(ctx context.Context, fn func(store.Querier) error) error
	GetTransaction(ctx context.Context, id int64) (domain.Transaction, error)
	ListTransactions(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListAccountTransactions(ctx context.Context, accountID int32) ([]domain.Transaction, error)
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo      Repo
	publisher eventpkg.Publisher
}

// New returns transaction service struct to manage transaction business logic.
func New(repo Repo, publisher eventpkg.Publisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
	}
}

// Create validates arg and books it on the account.
//
// The account lookup, the insert and the saldo update of every later transaction of the
// account happen in one unit of work, nothing is stored on failure.
func (s *Service) Create(ctx context.Context, accountID int32, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	var created domain.Transaction

	err := s.repo.ExecTx(ctx, func(q store.Querier) error {
		if _, err := q.LockAccount(ctx, accountID); err != nil {
			return err
		}

		txn, err := domain.NewTransaction(accountID, arg)
		if err != nil {
			return err
		}

		created, err = s.CreateWithin(ctx, q, txn)

		return err
	})
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Int32("account_id", accountID).Msg("transaction not created")
		return domain.Transaction{}, err
	}

	s.publish(ctx, eventpkg.KeyTransactionCreated, eventpkg.TransactionEvent{
		TransactionID: created.ID,
		AccountID:     created.AccountID,
		Amount:        created.Amount,
		Category:      created.Category,
		Saldo:         created.Saldo,
		BookedAt:      created.BookedAt,
	})

	return created, nil
}

// CreateWithStatus is Create reporting its outcome as a Result.
func (s *Service) CreateWithStatus(ctx context.Context, accountID int32, arg domain.CreateTransactionParams) domain.Result {
	txn, err := s.Create(ctx, accountID, arg)
	if err != nil {
		return domain.Failure(zerolog.Ctx(ctx), err, MsgCreateError)
	}

	return domain.Success(MsgCreated, txn.ID)
}

// CreateWithin stores an already validated transaction inside the caller's unit of work and
// updates the saldo of the new transaction and of every later transaction of its account.
func (s *Service) CreateWithin(ctx context.Context, q store.Querier, txn domain.Transaction) (domain.Transaction, error) {
	if _, err := q.LockAccount(ctx, txn.AccountID); err != nil {
		return domain.Transaction{}, err
	}

	txn.Saldo = decimal.Zero

	created, err := q.CreateTransaction(ctx, txn)
	if err != nil {
		return domain.Transaction{}, err
	}

	all, err := q.ListAccountTransactions(ctx, created.AccountID)
	if err != nil {
		return domain.Transaction{}, err
	}

	stored := make(map[int64]decimal.Decimal, len(all))
	for _, t := range all {
		stored[t.ID] = t.Saldo
	}

	affected := make(map[int64]bool)
	for _, id := range saldo.Affected(created, all) {
		affected[id] = true
	}

	for _, t := range saldo.Recompute(all) {
		if !affected[t.ID] {
			continue
		}

		if t.ID == created.ID {
			created.Saldo = t.Saldo
		}

		if stored[t.ID].Equal(t.Saldo) {
			continue
		}

		if err := q.UpdateSaldo(ctx, t.ID, t.Saldo); err != nil {
			return domain.Transaction{}, err
		}
	}

	return created, nil
}

// Get returns the transaction with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// List returns the transactions matching arg, latest booking first.
func (s *Service) List(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error) {
	if arg.SearchType != domain.SearchMatches {
		arg.SearchType = domain.SearchIncludes
	}

	return s.repo.ListTransactions(ctx, arg)
}

// Audit compares every stored saldo with its recomputed value.
// With fix set the mismatching saldi are rewritten.
func (s *Service) Audit(ctx context.Context, fix bool) ([]saldo.Mismatch, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	var mismatches []saldo.Mismatch

	for _, a := range accounts {
		if !fix {
			all, err := s.repo.ListAccountTransactions(ctx, a.ID)
			if err != nil {
				return nil, err
			}

			mismatches = append(mismatches, saldo.Verify(all)...)

			continue
		}

		err := s.repo.ExecTx(ctx, func(q store.Querier) error {
			if _, err := q.LockAccount(ctx, a.ID); err != nil {
				return err
			}

			all, err := q.ListAccountTransactions(ctx, a.ID)
			if err != nil {
				return err
			}

			found := saldo.Verify(all)
			for _, m := range found {
				if err := q.UpdateSaldo(ctx, m.TransactionID, m.Computed); err != nil {
					return err
				}
			}

			mismatches = append(mismatches, found...)

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return mismatches, nil
}

func (s *Service) publish(ctx context.Context, key string, body any) {
	if err := s.publisher.Publish(ctx, key, body); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("routing_key", key).Msg("event not published")
	}
}

// Statistics summarises a set of transactions.
type Statistics struct {
	Income       decimal.Decimal `json:"income"`
	Expenses     decimal.Decimal `json:"expenses"`
	Sum          decimal.Decimal `json:"sum"`
	Count        int             `json:"count"`
	Descriptions []string        `json:"descriptions"`
}

// Summarise returns income, expenses, their sum, the number of transactions and the sorted
// distinct descriptions of txns.
func Summarise(txns []domain.Transaction) Statistics {
	st := Statistics{
		Income:       decimal.Zero,
		Expenses:     decimal.Zero,
		Sum:          decimal.Zero,
		Count:        len(txns),
		Descriptions: []string{},
	}

	seen := make(map[string]bool)

	for _, t := range txns {
		if t.Amount.IsPositive() {
			st.Income = st.Income.Add(t.Amount)
		} else {
			st.Expenses = st.Expenses.Add(t.Amount)
		}

		if !seen[t.Description] {
			seen[t.Description] = true
			st.Descriptions = append(st.Descriptions, t.Description)
		}
	}

	st.Sum = st.Income.Add(st.Expenses)

	sort.Strings(st.Descriptions)

	return st
}
