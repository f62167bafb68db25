// Package report aggregates transactions into chart data and exports them as CSV.
package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{"id", "date_booked", "description", "category", "amount", "saldo"}

// Month holds the totals of one calendar month.
type Month struct {
	Year     int             `json:"year"`
	Month    time.Month      `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Total    decimal.Decimal `json:"total"`
}

// CategoryTotal holds the expenses booked under one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Expenses decimal.Decimal `json:"expenses"`
}

type monthKey struct {
	year  int
	month time.Month
}

func keyOf(t time.Time) monthKey {
	t = t.UTC()
	return monthKey{year: t.Year(), month: t.Month()}
}

func (k monthKey) next() monthKey {
	if k.month == time.December {
		return monthKey{year: k.year + 1, month: time.January}
	}

	return monthKey{year: k.year, month: k.month + 1}
}

func (k monthKey) after(o monthKey) bool {
	return k.year > o.year || (k.year == o.year && k.month > o.month)
}

// MonthlySummary returns one entry per month from the earliest to the latest booking,
// months without transactions included with zero totals.
func MonthlySummary(txns []domain.Transaction) []Month {
	if len(txns) == 0 {
		return []Month{}
	}

	totals := make(map[monthKey]*Month)

	first, last := keyOf(txns[0].BookedAt), keyOf(txns[0].BookedAt)

	for _, t := range txns {
		k := keyOf(t.BookedAt)
		if first.after(k) {
			first = k
		}

		if k.after(last) {
			last = k
		}

		m, ok := totals[k]
		if !ok {
			m = &Month{Year: k.year, Month: k.month}
			totals[k] = m
		}

		if t.Amount.IsPositive() {
			m.Income = m.Income.Add(t.Amount)
		} else {
			m.Expenses = m.Expenses.Add(t.Amount)
		}

		m.Total = m.Total.Add(t.Amount)
	}

	var months []Month

	for k := first; !k.after(last); k = k.next() {
		if m, ok := totals[k]; ok {
			months = append(months, *m)
			continue
		}

		months = append(months, Month{Year: k.year, Month: k.month})
	}

	return months
}

// ExpensesByCategory sums the negative amounts per user category.
//
// Every user category is present in domain.UserCategories order, transfers are not counted.
func ExpensesByCategory(txns []domain.Transaction) []CategoryTotal {
	sums := make(map[string]decimal.Decimal, len(domain.UserCategories))

	for _, t := range txns {
		if !t.Amount.IsNegative() {
			continue
		}

		sums[t.Category] = sums[t.Category].Add(t.Amount)
	}

	totals := make([]CategoryTotal, 0, len(domain.UserCategories))
	for _, c := range domain.UserCategories {
		totals = append(totals, CategoryTotal{Category: c, Expenses: sums[c]})
	}

	return totals
}

// WriteCSV writes txns to w, one row per transaction after CSVHeader.
func WriteCSV(w io.Writer, txns []domain.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for _, t := range txns {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.BookedAt.UTC().Format(time.RFC3339),
			t.Description,
			t.Category,
			t.Amount.StringFixed(domain.AmountPlaces),
			t.Saldo.StringFixed(domain.AmountPlaces),
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
