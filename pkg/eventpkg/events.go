package eventpkg

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountEvent is emitted when an account is created or deleted.
type AccountEvent struct {
	AccountID int32     `json:"account_id"`
	Title     string    `json:"title"`
	IBAN      string    `json:"iban"`
	At        time.Time `json:"at"`
}

// TransactionEvent is emitted when a transaction is committed.
type TransactionEvent struct {
	TransactionID int64           `json:"transaction_id"`
	AccountID     int32           `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Saldo         decimal.Decimal `json:"saldo"`
	BookedAt      time.Time       `json:"booked_at"`
}

// TransferEvent is emitted when both legs of a transfer are committed.
type TransferEvent struct {
	SenderID       int32           `json:"sender_id"`
	RecipientID    int32           `json:"recipient_id"`
	SenderLegID    int64           `json:"sender_leg_id"`
	RecipientLegID int64           `json:"recipient_leg_id"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	BookedAt       time.Time       `json:"booked_at"`
}
