// README: Discount codes: static promo table, referral validation and re-pricing.
package pricing

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"grocery/internal/modules/referral"
)

var (
	ErrDiscountsDisabled   = errors.New("discounts are currently disabled")
	ErrInvalidCode         = errors.New("invalid discount code")
	ErrReferralUnavailable = errors.New("referral validation unavailable")
)

// ReferralRate is taken off each of the service fee and the delivery fee.
var ReferralRate = decimal.RequireFromString("0.085")

var promoCodes = map[string]decimal.Decimal{
	"SAVE10": decimal.RequireFromString("0.10"),
	"SAVE20": decimal.RequireFromString("0.20"),
}

type DiscountKind string

const (
	KindNone     DiscountKind = "none"
	KindPromo    DiscountKind = "promo"
	KindReferral DiscountKind = "referral"
)

// Discount is one of NoDiscount, Promo or Referral.
type Discount interface {
	Kind() DiscountKind
	isDiscount()
}

type NoDiscount struct{}

// Promo takes FractionOff of the subtotal.
type Promo struct {
	Code        string
	FractionOff decimal.Decimal
}

// Referral takes ReferralRate off each fee. The amounts follow the current
// fees; use Reprice whenever a fee changes.
type Referral struct {
	Code                string
	ServiceFeeDiscount  decimal.Decimal
	DeliveryFeeDiscount decimal.Decimal
}

func (NoDiscount) Kind() DiscountKind { return KindNone }
func (Promo) Kind() DiscountKind      { return KindPromo }
func (Referral) Kind() DiscountKind   { return KindReferral }

func (NoDiscount) isDiscount() {}
func (Promo) isDiscount()      {}
func (Referral) isDiscount()   {}

// CodeOf returns the code carried by d, or "" for NoDiscount.
func CodeOf(d Discount) string {
	switch v := d.(type) {
	case Promo:
		return v.Code
	case Referral:
		return v.Code
	}
	return ""
}

// NewReferral prices a referral code against the given fees.
func NewReferral(code string, serviceFee, deliveryFee decimal.Decimal) Referral {
	return Referral{
		Code:                code,
		ServiceFeeDiscount:  ReferralRate.Mul(serviceFee),
		DeliveryFeeDiscount: ReferralRate.Mul(deliveryFee),
	}
}

// Reprice recomputes a Referral from the current fees without validating
// the code again. Other kinds are returned unchanged.
func Reprice(d Discount, serviceFee, deliveryFee decimal.Decimal) Discount {
	if r, ok := d.(Referral); ok {
		return NewReferral(r.Code, serviceFee, deliveryFee)
	}
	if d == nil {
		return NoDiscount{}
	}
	return d
}

// InvalidCodeError carries the message to show for a rejected code.
type InvalidCodeError struct {
	Code    string
	Message string
}

func (e *InvalidCodeError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrInvalidCode.Error()
}

func (e *InvalidCodeError) Is(target error) bool { return target == ErrInvalidCode }

// ReferralValidator checks referral codes with the referral service.
type ReferralValidator interface {
	Validate(ctx context.Context, code string) (referral.Result, error)
}

// NormalizeCode trims and upper-cases raw user input.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// LookupPromo reports the fraction off for a normalized promo code.
func LookupPromo(code string) (decimal.Decimal, bool) {
	f, ok := promoCodes[code]
	return f, ok
}

// ResolveDiscountCode turns raw input into a Discount. Any error comes with
// NoDiscount and is advisory: checkout continues without a discount.
func ResolveDiscountCode(ctx context.Context, raw string, flags LiveFlags, serviceFee, deliveryFee decimal.Decimal, v ReferralValidator) (Discount, error) {
	if !flags.DiscountsEnabled {
		return NoDiscount{}, ErrDiscountsDisabled
	}

	code := NormalizeCode(raw)
	if code == "" {
		return NoDiscount{}, &InvalidCodeError{Message: "please enter a discount code"}
	}

	if fraction, ok := LookupPromo(code); ok {
		return Promo{Code: code, FractionOff: fraction}, nil
	}

	if v == nil {
		return NoDiscount{}, &InvalidCodeError{Code: code}
	}
	res, err := v.Validate(ctx, code)
	if err != nil {
		return NoDiscount{}, errors.Wrapf(ErrReferralUnavailable, "validate %s: %v", code, err)
	}
	if !res.Valid {
		return NoDiscount{}, &InvalidCodeError{Code: code, Message: res.Message}
	}
	return NewReferral(code, serviceFee, deliveryFee), nil
}
