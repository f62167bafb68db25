// Package randompkg provides functionality for generating random ledger test data.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	digits   = "0123456789"
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// IntBetween generates a random integer in [min, max].
func IntBetween(min, max int) int64 {
	return int64(min) + Intn(max-min+1)
}

func pick(set string, n int) string {
	var sb strings.Builder

	k := len(set)

	for i := 0; i < n; i++ {
		_ = sb.WriteByte(set[Intn(k)]) // The returned err is always nil.
	}

	return sb.String()
}

// String generates a random string of length n.
func String(n int) string {
	return pick(alphabet, n)
}

// ClientID generates a random API client id.
func ClientID() string {
	return String(6)
}

// Title generates a random valid account title.
func Title() string {
	return strings.ToUpper(String(1)) + String(int(IntBetween(2, 14)))
}

// IBAN generates a random 22 character IBAN-like identifier.
func IBAN() string {
	return "GB" + pick(digits, 20)
}

// Description generates a random transaction description.
func Description() string {
	return fmt.Sprintf("%s %s", strings.ToUpper(String(1))+String(5), String(8))
}

// Category generates a random user category.
func Category() string {
	categories := []string{"Salary", "Rent", "Utilities", "Groceries", "Night out", "Online services"}
	return categories[Intn(len(categories))]
}

// Amount generates a random non-zero amount with 2 decimals between -max and max.
func Amount(max int) decimal.Decimal {
	cents := IntBetween(1, max*100)
	if Intn(2) == 0 {
		cents = -cents
	}

	return decimal.New(cents, -2)
}

// PositiveAmount generates a random amount with 2 decimals in (0, max].
func PositiveAmount(max int) decimal.Decimal {
	return decimal.New(IntBetween(1, max*100), -2)
}

// BookedAt generates a random UTC timestamp within the last year, truncated to seconds.
func BookedAt() time.Time {
	return time.Now().UTC().Add(-time.Duration(Intn(365*24)) * time.Hour).Truncate(time.Second)
}
