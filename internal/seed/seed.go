// Package seed fills an empty ledger with demo data.
package seed

import (
	"context"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/rs/zerolog"
)

// DefaultTitle is the title of the account created when the ledger has none.
const DefaultTitle = "Main"

// AccountService provides the account operations needed by the seeder.
//
//go:generate mockgen -source seed.go -destination seed_mock.go -package seed
type AccountService interface {
	Create(ctx context.Context, title string) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}

// TransactionService provides the transaction operations needed by the seeder.
type TransactionService interface {
	Create(ctx context.Context, accountID int32, arg domain.CreateTransactionParams) (domain.Transaction, error)
}

// Seeder creates demo transactions through the services so every saldo is computed as usual.
type Seeder struct {
	accounts     AccountService
	transactions TransactionService
}

// New returns a Seeder.
func New(accounts AccountService, transactions TransactionService) *Seeder {
	return &Seeder{accounts: accounts, transactions: transactions}
}

type entry struct {
	day         int
	description string
	amount      string
	category    string
}

// monthly is booked once per month, day is the day of the month.
var monthly = []entry{
	{day: 1, description: "Apple salary", amount: "1200", category: domain.CategorySalary},
	{day: 2, description: "Flat rent", amount: "-600", category: domain.CategoryRent},
	{day: 5, description: "Electricity", amount: "-85.40", category: domain.CategoryUtilities},
	{day: 9, description: "Supermarket", amount: "-124.35", category: domain.CategoryGroceries},
	{day: 14, description: "Streaming", amount: "-12.99", category: domain.CategoryOnlineServices},
	{day: 20, description: "Dinner with friends", amount: "-48.50", category: domain.CategoryNightOut},
	{day: 24, description: "Supermarket", amount: "-97.10", category: domain.CategoryGroceries},
}

// Demo returns the fixed monthly plan for the given number of months ending with the month of now.
func Demo(months int, now time.Time) []domain.CreateTransactionParams {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 9, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	params := make([]domain.CreateTransactionParams, 0, months*len(monthly))

	for m := 0; m < months; m++ {
		start := first.AddDate(0, m, 0)

		for _, e := range monthly {
			bookedAt := start.AddDate(0, 0, e.day-1)
			if bookedAt.After(now) {
				continue
			}

			params = append(params, domain.CreateTransactionParams{
				Description: e.description,
				Amount:      e.amount,
				Category:    e.category,
				BookedAt:    &bookedAt,
			})
		}
	}

	return params
}

// Random returns n random transactions booked within the given number of days before now.
func Random(n, days int, now time.Time) []domain.CreateTransactionParams {
	params := make([]domain.CreateTransactionParams, 0, n)

	window := time.Duration(days) * 24 * time.Hour

	for i := 0; i < n; i++ {
		bookedAt := now.UTC().Truncate(time.Second)
		if window > 0 {
			bookedAt = bookedAt.Add(-time.Duration(randompkg.Intn(int(window/time.Second))) * time.Second)
		}

		params = append(params, domain.CreateTransactionParams{
			Description: randompkg.Description(),
			Amount:      randompkg.Amount(1000).String(),
			Category:    randompkg.Category(),
			BookedAt:    &bookedAt,
		})
	}

	return params
}

// Run books params on the first account, creating the default account when the ledger is empty.
// It returns the account used and the number of booked transactions.
func (s *Seeder) Run(ctx context.Context, params []domain.CreateTransactionParams) (domain.Account, int, error) {
	l := zerolog.Ctx(ctx)

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return domain.Account{}, 0, err
	}

	var account domain.Account

	if len(accounts) == 0 {
		account, err = s.accounts.Create(ctx, DefaultTitle)
		if err != nil {
			return domain.Account{}, 0, err
		}

		l.Info().Int32("account_id", account.ID).Msg("default account created")
	} else {
		account = accounts[0]
	}

	for i, arg := range params {
		if _, err := s.transactions.Create(ctx, account.ID, arg); err != nil {
			return account, i, err
		}
	}

	l.Info().Int32("account_id", account.ID).Int("transactions", len(params)).Msg("ledger seeded")

	return account, len(params), nil
}
