// Package domain provides definitions of all ledger entities and their validation.
package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Account title and IBAN limits.
const (
	MinTitleLen = 3
	MaxTitleLen = 15
	IBANLen     = 22
)

var (
	// ErrInvalidTitle indicates that the account title is too short, too long or starts with a digit.
	ErrInvalidTitle = newError(KindValidation, "title must be between 3 to 15 characters long.")
	// ErrInvalidIBAN indicates that the IBAN does not have exactly 22 characters.
	ErrInvalidIBAN = newError(KindValidation, "iban must be exactly 22 characters long.")
	// ErrDuplicateIBAN indicates that the IBAN is used by another account.
	ErrDuplicateIBAN = newError(KindConstraint, "The IBAN is already taken by another account.")
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = newError(KindNotFound, "Account not found.")
	// ErrAccountLimitExceeded indicates that no more accounts can be created.
	ErrAccountLimitExceeded = newError(KindConstraint, "Cannot add more than 5 accounts.")
	// ErrLastAccountDeletion indicates an attempt to delete the only remaining account.
	ErrLastAccountDeletion = newError(KindConstraint, "Cannot delete the last account.")
	// ErrInvalidRecipient indicates a malformed recipient label.
	ErrInvalidRecipient = newError(KindValidation, "Invalid recipient.")
)

// Account holds a titled set of transactions identified by an IBAN.
type Account struct {
	ID        int32     `json:"id"`
	Title     string    `json:"title"`
	IBAN      string    `json:"iban"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountBalance is the current saldo of an account.
type AccountBalance struct {
	Account Account         `json:"account"`
	Saldo   decimal.Decimal `json:"saldo"`
}

// ValidateTitle checks the account title rules.
func ValidateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < MinTitleLen || n > MaxTitleLen {
		return ErrInvalidTitle
	}

	first, _ := utf8.DecodeRuneInString(title)
	if unicode.IsDigit(first) {
		return ErrInvalidTitle
	}

	return nil
}

// ValidateIBAN checks that iban has exactly IBANLen characters.
func ValidateIBAN(iban string) error {
	if utf8.RuneCountInString(iban) != IBANLen {
		return ErrInvalidIBAN
	}

	return nil
}

// NewAccount returns a validated, not yet persisted account.
//
// IBAN uniqueness is enforced by the store.
func NewAccount(title, iban string) (Account, error) {
	if err := ValidateTitle(title); err != nil {
		return Account{}, err
	}

	if err := ValidateIBAN(iban); err != nil {
		return Account{}, err
	}

	return Account{Title: title, IBAN: iban}, nil
}

// Label returns the recipient label of the account, e.g. "Savings (GB29...00)".
func (a Account) Label() string {
	return fmt.Sprintf("%s (%s...%s)", a.Title, a.IBAN[:4], a.IBAN[len(a.IBAN)-2:])
}

var labelRe = regexp.MustCompile(`^(.+) \((\w{4})\.\.\.(\w{2})\)$`)

// RecipientLabel is a parsed account label.
type RecipientLabel struct {
	Title      string
	IBANPrefix string
	IBANSuffix string
}

// ParseRecipientLabel parses labels produced by Account.Label.
func ParseRecipientLabel(label string) (RecipientLabel, error) {
	m := labelRe.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return RecipientLabel{}, ErrInvalidRecipient
	}

	return RecipientLabel{Title: m[1], IBANPrefix: m[2], IBANSuffix: m[3]}, nil
}

// Matches reports whether the account carries the label.
func (l RecipientLabel) Matches(a Account) bool {
	return a.Title == l.Title &&
		strings.HasPrefix(a.IBAN, l.IBANPrefix) &&
		strings.HasSuffix(a.IBAN, l.IBANSuffix)
}
