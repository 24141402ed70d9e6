package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money pairs a decimal amount with its currency unit. Cart totals are
// accumulated in decimal so repeated float prices do not drift.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// DefaultCurrency is the unit the catalog API prices are quoted in.
var DefaultCurrency = currency.USD

func MoneyFromFloat(amount float64, unit currency.Unit) Money {
	return Money{Amount: decimal.NewFromFloat(amount), Currency: unit}
}

func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

func (m Money) MulInt(n int64) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(n)), Currency: m.Currency}
}

func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
