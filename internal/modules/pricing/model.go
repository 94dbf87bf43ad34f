// README: Fee configuration, order context and pricing result definitions.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"grocery/internal/types"
)

// FeeSchedule is the static part of the system configuration. It may be
// served from a cache.
type FeeSchedule struct {
	BaseDeliveryFee            decimal.Decimal `json:"base_delivery_fee"`
	ServiceFee                 decimal.Decimal `json:"service_fee"`
	ShoppingTimeMinutes        int             `json:"shopping_time_minutes"`
	UnitsSurchargePerExtraUnit decimal.Decimal `json:"units_surcharge"`
	ExtraUnitsThreshold        int             `json:"extra_units"`
	CappedDistanceFee          decimal.Decimal `json:"capped_distance_fee"`
	DistanceSurchargePerKm     decimal.Decimal `json:"distance_surcharge"`
	CurrencyCode               string          `json:"currency"`
}

// LiveFlags are read fresh on every pricing run and are never cached.
type LiveFlags struct {
	DiscountsEnabled bool
}

type OrderKind string

const (
	OrderGrocery OrderKind = "grocery"
	OrderFood    OrderKind = "food"
)

// RestaurantItem is one dish of a food order.
type RestaurantItem struct {
	PreparationTime string
	Quantity        int
}

type OrderContext struct {
	Subtotal    decimal.Decimal
	TotalUnits  int
	Shop        types.Point
	IsFoodOrder bool
	Dishes      []RestaurantItem
}

// DeliveryFee is the outcome of ComputeDeliveryFee.
type DeliveryFee struct {
	Fee            decimal.Decimal
	DistanceKm     float64
	DistanceFee    decimal.Decimal // after the cap
	UnitsSurcharge decimal.Decimal
	Capped         bool
}

// Totals is the outcome of ComputeGrandTotal.
type Totals struct {
	ServiceFee       decimal.Decimal
	DeliveryFee      decimal.Decimal
	PromoDiscount    decimal.Decimal
	ReferralDiscount decimal.Decimal
	DiscountAmount   decimal.Decimal
	GrandTotal       decimal.Decimal
}

// Estimate is the outcome of EstimateDelivery.
type Estimate struct {
	At                time.Time
	TravelMinutes     int
	ProcessingMinutes int
	TotalMinutes      int
}

// PricingResult is an immutable snapshot for one set of inputs.
type PricingResult struct {
	ServiceFee             decimal.Decimal
	DeliveryFee            decimal.Decimal
	DiscountAmount         decimal.Decimal
	GrandTotal             decimal.Decimal
	EstimatedDeliveryAt    time.Time
	EstimatedDeliveryLabel string
}
