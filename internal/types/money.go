// README: Common money value object used across modules.
package types

import "github.com/shopspring/decimal"

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// ClampZero returns m with a negative amount replaced by zero.
func (m Money) ClampZero() Money {
	if m.Amount.IsNegative() {
		m.Amount = decimal.Zero
	}
	return m
}
