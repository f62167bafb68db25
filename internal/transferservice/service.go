// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/store"
	"github.com/go-petr/pet-ledger/pkg/eventpkg"
	"github.com/rs/zerolog"
)

// Result messages.
const (
	MsgTransferred   = "Successfully transferred money."
	MsgTransferError = "Error occurred while transferring money."
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	ExecTx(ctx context.Context, fn func(store.Querier) error) error
	GetAccount(ctx context.Context, id int32) (domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// TransactionCreator books a validated transaction inside a unit of work.
type TransactionCreator interface {
	CreateWithin(ctx context.Context, q store.Querier, txn domain.Transaction) (domain.Transaction, error)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo      Repo
	creator   TransactionCreator
	publisher eventpkg.Publisher
}

// New return transfer service struct to manage transfer business logic.
func New(repo Repo, creator TransactionCreator, publisher eventpkg.Publisher) *Service {
	return &Service{
		repo:      repo,
		creator:   creator,
		publisher: publisher,
	}
}

func (s *Service) resolveRecipient(ctx context.Context, arg domain.CreateTransferParams) (domain.Account, error) {
	if arg.RecipientID != 0 {
		return s.repo.GetAccount(ctx, arg.RecipientID)
	}

	if arg.RecipientLabel == "" {
		return domain.Account{}, domain.ErrRecipientRequired
	}

	label, err := domain.ParseRecipientLabel(arg.RecipientLabel)
	if err != nil {
		return domain.Account{}, err
	}

	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return domain.Account{}, err
	}

	for _, a := range accounts {
		if label.Matches(a) {
			return a, nil
		}
	}

	return domain.Account{}, domain.ErrAccountNotFound
}

// Transfer moves arg.Amount from the sender to the recipient as two Transfer transactions
// booked at the same instant with the same description.
//
// Both legs are written in one unit of work, a failing recipient leg leaves no sender leg behind.
func (s *Service) Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	sender, err := s.repo.GetAccount(ctx, arg.SenderID)
	if err != nil {
		l.Info().Err(err).Int32("sender_id", arg.SenderID).Send()
		return domain.TransferResult{}, err
	}

	recipient, err := s.resolveRecipient(ctx, arg)
	if err != nil {
		l.Info().Err(err).Msg("recipient not resolved")
		return domain.TransferResult{}, err
	}

	if recipient.ID == sender.ID {
		return domain.TransferResult{}, domain.ErrSameAccountTransfer
	}

	description, err := domain.ValidateDescription(arg.Description)
	if err != nil {
		return domain.TransferResult{}, err
	}

	amount, err := domain.ParseTransferAmount(arg.Amount)
	if err != nil {
		return domain.TransferResult{}, err
	}

	bookedAt, err := domain.ResolveBookedAt(arg.BookedAt)
	if err != nil {
		return domain.TransferResult{}, err
	}

	senderLeg, recipientLeg := domain.NewTransferLegs(sender.ID, recipient.ID, description, amount, bookedAt)

	var result domain.TransferResult

	err = s.repo.ExecTx(ctx, func(q store.Querier) error {
		// Lock in id order so two opposite transfers cannot deadlock.
		first, second := sender.ID, recipient.ID
		if second < first {
			first, second = second, first
		}

		if _, err := q.LockAccount(ctx, first); err != nil {
			return err
		}

		if _, err := q.LockAccount(ctx, second); err != nil {
			return err
		}

		result.SenderLeg, err = s.creator.CreateWithin(ctx, q, senderLeg)
		if err != nil {
			return err
		}

		result.RecipientLeg, err = s.creator.CreateWithin(ctx, q, recipientLeg)

		return err
	})
	if err != nil {
		l.Info().Err(err).Int32("sender_id", sender.ID).Int32("recipient_id", recipient.ID).Msg("transfer rolled back")
		return domain.TransferResult{}, err
	}

	event := eventpkg.TransferEvent{
		SenderID:       sender.ID,
		RecipientID:    recipient.ID,
		SenderLegID:    result.SenderLeg.ID,
		RecipientLegID: result.RecipientLeg.ID,
		Amount:         amount,
		Description:    description,
		BookedAt:       bookedAt,
	}

	if err := s.publisher.Publish(ctx, eventpkg.KeyTransferCompleted, event); err != nil {
		l.Warn().Err(err).Msg("transfer event not published")
	}

	return result, nil
}

// TransferWithStatus is Transfer reporting its outcome as a Result carrying both leg ids.
func (s *Service) TransferWithStatus(ctx context.Context, arg domain.CreateTransferParams) domain.Result {
	result, err := s.Transfer(ctx, arg)
	if err != nil {
		return domain.Failure(zerolog.Ctx(ctx), err, MsgTransferError)
	}

	return domain.Success(MsgTransferred, result.IDs()...)
}
