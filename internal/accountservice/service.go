// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"time"

	"github.com/go-petr/pet-ledger/internal/accountpolicy"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/store"
	"github.com/go-petr/pet-ledger/pkg/eventpkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Result messages.
const (
	MsgCreated     = "Successfully created new account."
	MsgUpdated     = "Successfully updated account info."
	MsgDeleted     = "Successfully deleted account."
	MsgCreateError = "Error occurred while creating the account."
	MsgUpdateError = "Error occurred while updating the account."
	MsgDeleteError = "Error occurred while deleting the account."
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	ExecTx(ctx context.Context, fn func(store.Querier) error) error
	GetAccount(ctx context.Context, id int32) (domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	LatestSaldos(ctx context.Context) (map[int32]decimal.Decimal, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo      Repo
	policy    accountpolicy.Policy
	publisher eventpkg.Publisher
}

// New returns account service struct to manage account business logic.
func New(repo Repo, policy accountpolicy.Policy, publisher eventpkg.Publisher) *Service {
	return &Service{
		repo:      repo,
		policy:    policy,
		publisher: publisher,
	}
}

// Create creates an account with the next free IBAN of the policy.
func (s *Service) Create(ctx context.Context, title string) (domain.Account, error) {
	return s.create(ctx, title, "")
}

// CreateWithIBAN creates an account with the given IBAN.
func (s *Service) CreateWithIBAN(ctx context.Context, title, iban string) (domain.Account, error) {
	return s.create(ctx, title, iban)
}

func (s *Service) create(ctx context.Context, title, iban string) (domain.Account, error) {
	var created domain.Account

	err := s.repo.ExecTx(ctx, func(q store.Querier) error {
		if err := q.LockAccounts(ctx); err != nil {
			return err
		}

		n, err := q.CountAccounts(ctx)
		if err != nil {
			return err
		}

		if err := s.policy.CheckLimit(n); err != nil {
			return err
		}

		if iban == "" {
			accounts, err := q.ListAccounts(ctx)
			if err != nil {
				return err
			}

			used := make([]string, 0, len(accounts))
			for _, a := range accounts {
				used = append(used, a.IBAN)
			}

			if iban, err = s.policy.NextIBAN(used); err != nil {
				return err
			}
		}

		account, err := domain.NewAccount(title, iban)
		if err != nil {
			return err
		}

		created, err = q.CreateAccount(ctx, account)

		return err
	})
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Str("title", title).Msg("account not created")
		return domain.Account{}, err
	}

	s.publish(ctx, eventpkg.KeyAccountCreated, created)

	return created, nil
}

// CreateWithStatus is Create reporting its outcome as a Result.
func (s *Service) CreateWithStatus(ctx context.Context, title string) domain.Result {
	account, err := s.Create(ctx, title)
	if err != nil {
		return domain.Failure(zerolog.Ctx(ctx), err, MsgCreateError)
	}

	return domain.Success(MsgCreated, int64(account.ID))
}

// Get returns account for the given account ID.
func (s *Service) Get(ctx context.Context, id int32) (domain.Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	return s.repo.ListAccounts(ctx)
}

// UpdateTitle validates and changes the account title.
func (s *Service) UpdateTitle(ctx context.Context, id int32, title string) (domain.Account, error) {
	if err := domain.ValidateTitle(title); err != nil {
		return domain.Account{}, err
	}

	var updated domain.Account

	err := s.repo.ExecTx(ctx, func(q store.Querier) error {
		var err error

		updated, err = q.UpdateAccountTitle(ctx, id, title)

		return err
	})
	if err != nil {
		return domain.Account{}, err
	}

	return updated, nil
}

// UpdateTitleWithStatus is UpdateTitle reporting its outcome as a Result.
func (s *Service) UpdateTitleWithStatus(ctx context.Context, id int32, title string) domain.Result {
	account, err := s.UpdateTitle(ctx, id, title)
	if err != nil {
		return domain.Failure(zerolog.Ctx(ctx), err, MsgUpdateError)
	}

	return domain.Success(MsgUpdated, int64(account.ID))
}

// Delete removes the account together with its transactions.
// The last remaining account cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int32) error {
	var deleted domain.Account

	err := s.repo.ExecTx(ctx, func(q store.Querier) error {
		if err := q.LockAccounts(ctx); err != nil {
			return err
		}

		var err error

		deleted, err = q.LockAccount(ctx, id)
		if err != nil {
			return err
		}

		n, err := q.CountAccounts(ctx)
		if err != nil {
			return err
		}

		if n <= 1 {
			return domain.ErrLastAccountDeletion
		}

		return q.DeleteAccount(ctx, id)
	})
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Int32("account_id", id).Msg("account not deleted")
		return err
	}

	s.publish(ctx, eventpkg.KeyAccountDeleted, deleted)

	return nil
}

// DeleteWithStatus is Delete reporting its outcome as a Result.
func (s *Service) DeleteWithStatus(ctx context.Context, id int32) domain.Result {
	if err := s.Delete(ctx, id); err != nil {
		return domain.Failure(zerolog.Ctx(ctx), err, MsgDeleteError)
	}

	return domain.Success(MsgDeleted, int64(id))
}

// Balances returns the current saldo of every account, zero for accounts without transactions.
func (s *Service) Balances(ctx context.Context) ([]domain.AccountBalance, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	saldos, err := s.repo.LatestSaldos(ctx)
	if err != nil {
		return nil, err
	}

	balances := make([]domain.AccountBalance, 0, len(accounts))

	for _, a := range accounts {
		saldo, ok := saldos[a.ID]
		if !ok {
			saldo = decimal.Zero
		}

		balances = append(balances, domain.AccountBalance{Account: a, Saldo: saldo})
	}

	return balances, nil
}

func (s *Service) publish(ctx context.Context, key string, a domain.Account) {
	event := eventpkg.AccountEvent{
		AccountID: a.ID,
		Title:     a.Title,
		IBAN:      a.IBAN,
		At:        time.Now().UTC(),
	}

	if err := s.publisher.Publish(ctx, key, event); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("routing_key", key).Msg("event not published")
	}
}
