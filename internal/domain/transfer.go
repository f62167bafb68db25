package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrSameAccountTransfer indicates a transfer to the sender account.
	ErrSameAccountTransfer = newError(KindConstraint, "Sender and recipient account must differ.")
	// ErrRecipientRequired indicates a transfer without recipient.
	ErrRecipientRequired = newError(KindValidation, "Recipient is required.")
)

// CreateTransferParams is the input data of a transfer.
//
// The recipient is given either by RecipientID or by RecipientLabel.
type CreateTransferParams struct {
	SenderID       int32      `json:"sender_id"`
	RecipientID    int32      `json:"recipient_id"`
	RecipientLabel string     `json:"recipient"`
	Description    string     `json:"description"`
	Amount         string     `json:"amount"`
	BookedAt       *time.Time `json:"booked_at"`
}

// TransferResult holds both committed legs of a transfer.
type TransferResult struct {
	SenderLeg    Transaction `json:"sender_leg"`
	RecipientLeg Transaction `json:"recipient_leg"`
}

// IDs returns the ids of the sender and the recipient legs.
func (r TransferResult) IDs() []int64 {
	return []int64{r.SenderLeg.ID, r.RecipientLeg.ID}
}

// ParseTransferAmount parses a transfer amount, which must be positive.
func ParseTransferAmount(amount string) (decimal.Decimal, error) {
	d, err := ParseAmount(amount)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if d.IsNegative() {
		return decimal.Decimal{}, ErrNegativeAmount
	}

	return d, nil
}
