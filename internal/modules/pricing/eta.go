// README: Delivery-time estimation and the human-readable ETA label.
package pricing

import (
	"fmt"
	"math"
	"time"

	"grocery/internal/modules/location"
)

const (
	maxTravelMinutes = 240

	minutesPerHour  = 60
	minutesPerDay   = 24 * minutesPerHour
	minutesPerMonth = 30 * minutesPerDay
)

// EstimateDelivery adds travel time (1 km ≈ 1 minute over the 3D distance,
// capped at four hours) and processing time to now.
func EstimateDelivery(now time.Time, distanceKm, altitudeDeltaMeters float64, processingMinutes int) Estimate {
	d3 := location.Distance3DKm(distanceKm, altitudeDeltaMeters)
	travel := int(math.Ceil(d3))
	if travel > maxTravelMinutes {
		travel = maxTravelMinutes
	}
	total := travel + processingMinutes
	return Estimate{
		At:                now.Add(time.Duration(total) * time.Minute).UTC(),
		TravelMinutes:     travel,
		ProcessingMinutes: processingMinutes,
		TotalMinutes:      total,
	}
}

// FormatDuration renders minutes as "45 minutes", "2 hours 5 minutes",
// "3 days 4 hours" or "1 month 2 days".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	switch {
	case minutes < minutesPerHour:
		return plural(minutes, "minute")
	case minutes < minutesPerDay:
		return pair(minutes/minutesPerHour, "hour", minutes%minutesPerHour, "minute")
	case minutes < minutesPerMonth:
		return pair(minutes/minutesPerDay, "day", (minutes%minutesPerDay)/minutesPerHour, "hour")
	default:
		return pair(minutes/minutesPerMonth, "month", (minutes%minutesPerMonth)/minutesPerDay, "day")
	}
}

// FormatDeliveryLabel builds the text shown next to the ETA. Food orders get
// the preparation/delivery split and the distance.
func FormatDeliveryLabel(totalMinutes int, isFoodOrder bool, prepMinutes, travelMinutes int, distanceKm float64) string {
	if !isFoodOrder {
		return "Will be delivered in " + FormatDuration(totalMinutes)
	}
	return fmt.Sprintf("Arrives in %s (%s preparation + %s delivery, %.1f km)",
		FormatDuration(totalMinutes), FormatDuration(prepMinutes), FormatDuration(travelMinutes), distanceKm)
}

func pair(major int, majorUnit string, minor int, minorUnit string) string {
	if minor == 0 {
		return plural(major, majorUnit)
	}
	return plural(major, majorUnit) + " " + plural(minor, minorUnit)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
