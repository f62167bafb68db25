// Package accountpolicy holds the account limit and IBAN assignment rules.
package accountpolicy

import (
	"fmt"
	"strconv"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Defaults used when the configuration leaves a value empty.
const (
	DefaultMaxAccounts = 5
	DefaultBaseIBAN    = "GB29000060161331920000"
)

const suffixLen = 4

// Policy decides how many accounts may exist and which IBAN a new account gets.
type Policy struct {
	MaxAccounts int
	BaseIBAN    string
}

// New returns a policy, falling back to the defaults for zero values.
func New(maxAccounts int, baseIBAN string) Policy {
	if maxAccounts <= 0 {
		maxAccounts = DefaultMaxAccounts
	}

	if domain.ValidateIBAN(baseIBAN) != nil {
		baseIBAN = DefaultBaseIBAN
	}

	return Policy{MaxAccounts: maxAccounts, BaseIBAN: baseIBAN}
}

// CheckLimit returns domain.ErrAccountLimitExceeded when count accounts already exist.
func (p Policy) CheckLimit(count int) error {
	if count >= p.MaxAccounts {
		return domain.ErrAccountLimitExceeded
	}

	return nil
}

// NextIBAN returns the first unused IBAN obtained by adding 1, 2, ... to the four digit suffix
// of the base IBAN. The suffix wraps around at 10000.
func (p Policy) NextIBAN(existing []string) (string, error) {
	used := make(map[string]struct{}, len(existing))
	for _, iban := range existing {
		used[iban] = struct{}{}
	}

	prefix := p.BaseIBAN[:len(p.BaseIBAN)-suffixLen]

	base, err := strconv.Atoi(p.BaseIBAN[len(p.BaseIBAN)-suffixLen:])
	if err != nil {
		return "", fmt.Errorf("base iban %q: %w", p.BaseIBAN, err)
	}

	for i := 1; i <= 10_000; i++ {
		iban := fmt.Sprintf("%s%04d", prefix, (base+i)%10_000)
		if _, ok := used[iban]; !ok {
			return iban, nil
		}
	}

	return "", domain.ErrDuplicateIBAN
}
