// README: Submitted order, its lifecycle and the order-creation payload.
package order

import (
	"time"

	"github.com/shopspring/decimal"

	"grocery/internal/modules/pricing"
	"grocery/internal/types"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// AllowedTransitions is the order lifecycle.
var AllowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusDelivered, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

type Item struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Payload is the body sent to the order-creation API. Fees are the final
// fees after any referral discount.
type Payload struct {
	ShopID            string          `json:"shop_id"`
	DeliveryAddressID types.ID        `json:"delivery_address_id"`
	ServiceFee        decimal.Decimal `json:"service_fee"`
	DeliveryFee       decimal.Decimal `json:"delivery_fee"`
	Discount          decimal.Decimal `json:"discount"`
	ReferralDiscount  decimal.Decimal `json:"referral_discount"`
	VoucherCode       *string         `json:"voucher_code"`
	DeliveryTime      string          `json:"delivery_time"`
	Total             decimal.Decimal `json:"total"`
	Items             []Item          `json:"items"`
}

type Order struct {
	ID            types.ID
	UserID        types.ID
	SessionID     string
	Kind          pricing.OrderKind
	Status        Status
	StatusVersion int
	Subtotal      decimal.Decimal
	Currency      string
	DeliveryAt    time.Time
	Payload       Payload
	CreatedAt     time.Time
}

// NewPayload maps a server-side quote and the cart it was computed for to the
// order-creation payload.
func NewPayload(q pricing.Quote, req pricing.QuoteRequest) Payload {
	p := Payload{
		ShopID:            req.ShopID,
		DeliveryAddressID: q.AddressID,
		ServiceFee:        q.Result.ServiceFee,
		DeliveryFee:       q.Result.DeliveryFee,
		Discount:          q.Totals.PromoDiscount,
		ReferralDiscount:  q.Totals.ReferralDiscount,
		DeliveryTime:      q.Result.EstimatedDeliveryAt.Format(time.RFC3339),
		Total:             q.Result.GrandTotal,
		Items:             make([]Item, 0, len(req.Items)),
	}
	if code := pricing.CodeOf(q.Discount); code != "" {
		p.VoucherCode = &code
	}
	for _, it := range req.Items {
		p.Items = append(p.Items, Item{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	return p
}
