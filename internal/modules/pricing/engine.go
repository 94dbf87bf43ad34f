// README: Pure quote pipeline combining fees, discounts and the ETA.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"grocery/internal/modules/location"
	"grocery/internal/types"
)

// Inputs is everything Compute needs; none of it is fetched by Compute.
type Inputs struct {
	Order       OrderContext
	Destination types.Point
	Schedule    FeeSchedule
	Flags       LiveFlags
	Discount    Discount
	Now         time.Time
}

// Quote is a PricingResult plus the numbers it was derived from.
type Quote struct {
	Result              PricingResult
	Currency            string
	Subtotal            decimal.Decimal
	TotalUnits          int
	DistanceKm          float64
	Delivery            DeliveryFee
	BaseServiceFee      decimal.Decimal
	Totals              Totals
	Discount            Discount
	Estimate            Estimate
	UnreadablePrepTimes int
	DiscountsEnabled    bool

	AddressID types.ID
	SessionID string
}

// Compute runs the full pricing pipeline from scratch. A referral discount is
// re-priced from the fees computed here.
func Compute(in Inputs) Quote {
	order := in.Order
	fs := in.Schedule

	distanceKm := location.DistanceKm(order.Shop, in.Destination)
	delivery := ComputeDeliveryFee(distanceKm, order.TotalUnits, fs)
	serviceFee := fs.ServiceFee

	var d Discount = NoDiscount{}
	if in.Flags.DiscountsEnabled && in.Discount != nil {
		d = Reprice(in.Discount, serviceFee, delivery.Fee)
	}
	totals := ComputeGrandTotal(order.Subtotal, serviceFee, delivery.Fee, d)

	processing := fs.ShoppingTimeMinutes
	unknown := 0
	if order.IsFoodOrder {
		processing, unknown = aggregatePrep(order.Dishes)
	}
	altitudeDelta := in.Destination.Alt - order.Shop.Alt
	est := EstimateDelivery(in.Now, distanceKm, altitudeDelta, processing)

	return Quote{
		Result: PricingResult{
			ServiceFee:             totals.ServiceFee,
			DeliveryFee:            totals.DeliveryFee,
			DiscountAmount:         totals.DiscountAmount,
			GrandTotal:             totals.GrandTotal,
			EstimatedDeliveryAt:    est.At,
			EstimatedDeliveryLabel: FormatDeliveryLabel(est.TotalMinutes, order.IsFoodOrder, processing, est.TravelMinutes, distanceKm),
		},
		Currency:            fs.CurrencyCode,
		Subtotal:            order.Subtotal,
		TotalUnits:          order.TotalUnits,
		DistanceKm:          distanceKm,
		Delivery:            delivery,
		BaseServiceFee:      serviceFee,
		Totals:              totals,
		Discount:            d,
		Estimate:            est,
		UnreadablePrepTimes: unknown,
		DiscountsEnabled:    in.Flags.DiscountsEnabled,
	}
}
