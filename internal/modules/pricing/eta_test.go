package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{-3, "0 minutes"},
		{0, "0 minutes"},
		{1, "1 minute"},
		{45, "45 minutes"},
		{60, "1 hour"},
		{61, "1 hour 1 minute"},
		{125, "2 hours 5 minutes"},
		{1439, "23 hours 59 minutes"},
		{1440, "1 day"},
		{1500, "1 day 1 hour"},
		{3 * 1440, "3 days"},
		{43199, "29 days 23 hours"},
		{43200, "1 month"},
		{43200 + 2*1440, "1 month 2 days"},
		{2*43200 + 1440, "2 months 1 day"},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, FormatDuration(c.in), "minutes=%d", c.in)
	}
}

func TestEstimateDelivery(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CAT", 2*3600))

	got := EstimateDelivery(now, 10, 0, 20)
	assert.Equal(t, 10, got.TravelMinutes)
	assert.Equal(t, 30, got.TotalMinutes)
	assert.Equal(t, time.UTC, got.At.Location())
	assert.True(t, got.At.Equal(now.Add(30*time.Minute)))
}

func TestEstimateDelivery_RoundsUpAndCaps(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, EstimateDelivery(now, 2.1, 0, 0).TravelMinutes)
	assert.Equal(t, 240, EstimateDelivery(now, 500, 0, 0).TravelMinutes)
	assert.Greater(t, EstimateDelivery(now, 2, 1500, 0).TravelMinutes, EstimateDelivery(now, 2, 0, 0).TravelMinutes)
}

func TestFormatDeliveryLabel(t *testing.T) {
	assert.Equal(t, "Will be delivered in 30 minutes", FormatDeliveryLabel(30, false, 20, 10, 9.6))
	assert.Equal(t,
		"Arrives in 57 minutes (47 minutes preparation + 10 minutes delivery, 9.6 km)",
		FormatDeliveryLabel(57, true, 47, 10, 9.6),
	)
	assert.Equal(t,
		"Arrives in 1 hour 5 minutes (50 minutes preparation + 15 minutes delivery, 14.2 km)",
		FormatDeliveryLabel(65, true, 50, 15, 14.24),
	)
}
