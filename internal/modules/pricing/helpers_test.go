package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

// scenarioSchedule is the reference configuration used across fee tests.
func scenarioSchedule() FeeSchedule {
	return FeeSchedule{
		BaseDeliveryFee:            dec("1000"),
		ServiceFee:                 dec("500"),
		ShoppingTimeMinutes:        20,
		UnitsSurchargePerExtraUnit: dec("100"),
		ExtraUnitsThreshold:        10,
		CappedDistanceFee:          dec("3000"),
		DistanceSurchargePerKm:     dec("200"),
		CurrencyCode:               "RWF",
	}
}
