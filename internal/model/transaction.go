package model

import "github.com/shopspring/decimal"

// Row is one transaction line of a statement export.
// Amounts are kept as exported ("1 234,56 PLN") and parsed only when a row is classified.
type Row struct {
	Description string
	MoneyIn     string
	MoneyOut    string
}

// Summary holds the running sums of one statement period.
type Summary struct {
	Funding  decimal.Decimal // deposits
	Cashout  decimal.Decimal // withdrawals, as a positive magnitude
	Interest decimal.Decimal // gross interest payments
}

// Total returns the net change over the period: funding and interest in, cashout out.
func (s Summary) Total() decimal.Decimal {
	return s.Funding.Sub(s.Cashout).Add(s.Interest)
}

