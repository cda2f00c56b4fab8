// Package aggregate sums a statement's rows into funding, cashout and interest.
package aggregate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/revoult/savings/internal/model"
	"github.com/revoult/savings/internal/money"
)

// Category is a bucket of a Summary.
type Category string

const (
	CategoryFunding  Category = "funding"
	CategoryCashout  Category = "cashout"
	CategoryInterest Category = "interest"
)

// Rule routes matching rows into one category, reading the amount from one column.
type Rule struct {
	Category Category
	Match    func(description string) bool
	Amount   func(row model.Row) string
}

func moneyIn(r model.Row) string  { return r.MoneyIn }
func moneyOut(r model.Row) string { return r.MoneyOut }

// Rules is the classification table. Rules are not exclusive: a row adds to
// every category whose rule matches.
var Rules = []Rule{
	{
		Category: CategoryFunding,
		Match:    func(d string) bool { return d == "Deposit" },
		Amount:   moneyIn,
	},
	{
		Category: CategoryCashout,
		Match:    func(d string) bool { return d == "Withdrawal" },
		Amount:   moneyOut,
	},
	{
		Category: CategoryInterest,
		Match:    func(d string) bool { return strings.Contains(d, "Gross interest") },
		Amount:   moneyIn,
	},
}

// Summarize scans rows once and returns their Summary. The first amount that
// fails to parse aborts the whole aggregation.
func Summarize(rows []model.Row, currency string) (model.Summary, error) {
	funding, cashout, interest := decimal.Zero, decimal.Zero, decimal.Zero

	for i, row := range rows {
		for _, rule := range Rules {
			if !rule.Match(row.Description) {
				continue
			}
			amount, err := money.Parse(rule.Amount(row), currency)
			if err != nil {
				return model.Summary{}, fmt.Errorf("row %d (%s): %w", i+1, row.Description, err)
			}
			switch rule.Category {
			case CategoryFunding:
				funding = funding.Add(amount)
			case CategoryCashout:
				// Exports may sign money out; cashout is kept as a magnitude.
				cashout = cashout.Add(amount.Abs())
			case CategoryInterest:
				interest = interest.Add(amount)
			}
		}
	}

	return model.Summary{Funding: funding, Cashout: cashout, Interest: interest}, nil
}
