// README: Delivery fee and grand total computation.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// freeDistanceKm is the distance covered by the base delivery fee alone.
const freeDistanceKm = 3.0

// ComputeDeliveryFee prices delivery over distanceKm for an order of
// totalUnits. Only the distance portion is capped; the units surcharge is
// added after the cap.
func ComputeDeliveryFee(distanceKm float64, totalUnits int, fs FeeSchedule) DeliveryFee {
	extraDistance := math.Max(0, distanceKm-freeDistanceKm)
	distanceSurcharge := fs.DistanceSurchargePerKm.Mul(decimal.NewFromFloat(math.Ceil(extraDistance)))
	rawDistanceFee := fs.BaseDeliveryFee.Add(distanceSurcharge)

	distanceFee := decimal.Min(rawDistanceFee, fs.CappedDistanceFee)

	extraUnits := totalUnits - fs.ExtraUnitsThreshold
	if extraUnits < 0 {
		extraUnits = 0
	}
	unitsSurcharge := fs.UnitsSurchargePerExtraUnit.Mul(decimal.NewFromInt(int64(extraUnits)))

	return DeliveryFee{
		Fee:            distanceFee.Add(unitsSurcharge),
		DistanceKm:     distanceKm,
		DistanceFee:    distanceFee,
		UnitsSurcharge: unitsSurcharge,
		Capped:         rawDistanceFee.GreaterThan(fs.CappedDistanceFee),
	}
}

// ComputeGrandTotal applies d to the fees and subtotal. Fees never go below
// zero; ReferralDiscount reports what was actually taken off after clamping.
func ComputeGrandTotal(subtotal, serviceFee, deliveryFee decimal.Decimal, d Discount) Totals {
	promo := decimal.Zero
	finalService := serviceFee
	finalDelivery := deliveryFee

	switch v := d.(type) {
	case Promo:
		promo = v.FractionOff.Mul(subtotal)
	case Referral:
		finalService = clampZero(serviceFee.Sub(v.ServiceFeeDiscount))
		finalDelivery = clampZero(deliveryFee.Sub(v.DeliveryFeeDiscount))
	}

	referral := serviceFee.Sub(finalService).Add(deliveryFee.Sub(finalDelivery))

	return Totals{
		ServiceFee:       finalService,
		DeliveryFee:      finalDelivery,
		PromoDiscount:    promo,
		ReferralDiscount: referral,
		DiscountAmount:   promo.Add(referral),
		GrandTotal:       subtotal.Sub(promo).Add(finalService).Add(finalDelivery),
	}
}

func clampZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
