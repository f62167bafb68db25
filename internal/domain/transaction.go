package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Transaction categories.
const (
	CategorySalary         = "Salary"
	CategoryRent           = "Rent"
	CategoryUtilities      = "Utilities"
	CategoryGroceries      = "Groceries"
	CategoryNightOut       = "Night out"
	CategoryOnlineServices = "Online services"
	// CategoryTransfer is reserved for transfer legs.
	CategoryTransfer = "Transfer"
)

// UserCategories lists the categories a transaction can be created with directly.
var UserCategories = []string{
	CategorySalary,
	CategoryRent,
	CategoryUtilities,
	CategoryGroceries,
	CategoryNightOut,
	CategoryOnlineServices,
}

// Search types of the description filter.
const (
	SearchMatches  = "Matches"
	SearchIncludes = "Includes"
)

// MaxDescriptionLen is the maximum length of a trimmed description.
const MaxDescriptionLen = 80

// AmountPlaces is the number of decimal places amounts and saldi are kept with.
const AmountPlaces = 2

var (
	// ErrInvalidDescription indicates an empty or too long description.
	ErrInvalidDescription = newError(KindValidation,
		"The description variable must be a string with more than 0 and less than 80 characters.")
	// ErrInvalidAmount indicates a non numeric or zero amount.
	ErrInvalidAmount = newError(KindValidation, "The amount variable must be non-zero decimal, integer or float.")
	// ErrNegativeAmount indicates a transfer amount that is not positive.
	ErrNegativeAmount = newError(KindValidation, "The amount variable must be positive.")
	// ErrInvalidCategory indicates an unknown or reserved category.
	ErrInvalidCategory = newError(KindValidation, "Invalid category value.")
	// ErrInvalidTimestamp indicates a booking timestamp outside UTC.
	ErrInvalidTimestamp = newError(KindValidation, "utc_datetime_booked is not in UTC.")
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = newError(KindNotFound, "Transaction not found.")
)

// Transaction is a signed amount booked on an account together with the account saldo at that point.
type Transaction struct {
	ID          int64           `json:"id"`
	AccountID   int32           `json:"account_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	BookedAt    time.Time       `json:"booked_at"`
	Saldo       decimal.Decimal `json:"saldo"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateTransactionParams is the raw input for a user created transaction.
type CreateTransactionParams struct {
	Description string     `json:"description"`
	Amount      string     `json:"amount"`
	Category    string     `json:"category"`
	BookedAt    *time.Time `json:"booked_at"`
}

// ListTransactionsParams holds the transaction filters.
//
// Zero values disable a filter. StartDate and EndDate are compared with the UTC date of the booking.
type ListTransactionsParams struct {
	AccountID   int32
	StartDate   *time.Time
	EndDate     *time.Time
	Category    string
	SearchType  string
	Description string
	Limit       int32
	Offset      int32
}

// IsUserCategory reports whether category can be used for a directly created transaction.
func IsUserCategory(category string) bool {
	for _, c := range UserCategories {
		if c == category {
			return true
		}
	}

	return false
}

// ValidateDescription trims description and checks its length.
func ValidateDescription(description string) (string, error) {
	trimmed := strings.TrimSpace(description)

	n := utf8.RuneCountInString(trimmed)
	if n == 0 || n > MaxDescriptionLen {
		return "", ErrInvalidDescription
	}

	return trimmed, nil
}

// ParseAmount parses a decimal amount and rounds it to cents, half to even.
func ParseAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	d = d.RoundBank(AmountPlaces)
	if d.IsZero() {
		return decimal.Decimal{}, ErrInvalidAmount
	}

	return d, nil
}

// ResolveBookedAt returns the booking timestamp in UTC, defaulting to the current instant.
//
// A timestamp with a non-zero UTC offset is rejected.
func ResolveBookedAt(bookedAt *time.Time) (time.Time, error) {
	if bookedAt == nil {
		return time.Now().UTC(), nil
	}

	if _, offset := bookedAt.Zone(); offset != 0 {
		return time.Time{}, ErrInvalidTimestamp
	}

	return bookedAt.UTC(), nil
}

// NewTransaction returns a validated, not yet persisted transaction for the account.
//
// The saldo is left at zero until the transaction is stored.
func NewTransaction(accountID int32, arg CreateTransactionParams) (Transaction, error) {
	description, err := ValidateDescription(arg.Description)
	if err != nil {
		return Transaction{}, err
	}

	amount, err := ParseAmount(arg.Amount)
	if err != nil {
		return Transaction{}, err
	}

	if !IsUserCategory(arg.Category) {
		return Transaction{}, ErrInvalidCategory
	}

	bookedAt, err := ResolveBookedAt(arg.BookedAt)
	if err != nil {
		return Transaction{}, err
	}

	txn := Transaction{
		AccountID:   accountID,
		Description: description,
		Amount:      amount,
		Category:    arg.Category,
		BookedAt:    bookedAt,
	}

	return txn, nil
}

// NewTransferLegs returns the sender and the recipient transactions of a transfer.
//
// amount must already be validated and positive.
func NewTransferLegs(senderID, recipientID int32, description string, amount decimal.Decimal,
	bookedAt time.Time,
) (sender, recipient Transaction) {
	sender = Transaction{
		AccountID:   senderID,
		Description: description,
		Amount:      amount.Neg(),
		Category:    CategoryTransfer,
		BookedAt:    bookedAt,
	}

	recipient = Transaction{
		AccountID:   recipientID,
		Description: description,
		Amount:      amount,
		Category:    CategoryTransfer,
		BookedAt:    bookedAt,
	}

	return sender, recipient
}
