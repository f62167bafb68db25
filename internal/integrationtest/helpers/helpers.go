// Package helpers seeds the database for integration tests.
package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/shopspring/decimal"
)

// SeedAccount creates a random account.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface) domain.Account {
	t.Helper()

	account, err := accountrepo.NewRepoPGS(db).Create(context.Background(), randompkg.Title(), randompkg.IBAN())
	if err != nil {
		t.Fatalf("SeedAccount returned error: %v", err)
	}

	return account
}

// SeedTransaction creates a transaction on the account. The saldo is stored as given.
func SeedTransaction(t *testing.T, db dbpkg.SQLInterface, accountID int32, amount decimal.Decimal,
	bookedAt time.Time,
) domain.Transaction {
	t.Helper()

	arg := domain.Transaction{
		AccountID:   accountID,
		Description: randompkg.Description(),
		Amount:      amount,
		Category:    randompkg.Category(),
		BookedAt:    bookedAt,
		Saldo:       amount,
	}

	txn, err := transactionrepo.NewRepoPGS(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("SeedTransaction returned error: %v", err)
	}

	return txn
}
