// README: Dish preparation-time parsing and aggregation for food orders.
package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// defaultDishMinutes replaces a dish time that parsed to zero.
	defaultDishMinutes = 5
	maxPrepMinutes     = 90
	// maxParsedMinutes bounds a single parsed time; anything longer reads as a week.
	maxParsedMinutes = 7 * 24 * 60
	// longDishMinutes is the point after which slower dishes absorb more of
	// the shorter ones' work.
	longDishMinutes = 30
	longDishOverlap = 0.7
)

var (
	reMinutes      = regexp.MustCompile(`^(\d+)min$`)
	reHoursMinutes = regexp.MustCompile(`^(\d+)hr(\d+)min$`)
	reHours        = regexp.MustCompile(`^(\d+)hr$`)
	reBare         = regexp.MustCompile(`^(\d+)$`)
)

type prepState int

const (
	prepInstant prepState = iota // empty text
	prepParsed
	prepUnknown // text present but not understood
)

// prepTime keeps "ready now" and "no idea" apart even though both are 0
// minutes on the outside.
type prepTime struct {
	minutes int
	state   prepState
}

func parsePrepTime(text string) prepTime {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return prepTime{state: prepInstant}
	}
	if m := reHoursMinutes.FindStringSubmatch(s); m != nil {
		return parsed(atoi(m[1])*60 + atoi(m[2]))
	}
	if m := reMinutes.FindStringSubmatch(s); m != nil {
		return parsed(atoi(m[1]))
	}
	if m := reHours.FindStringSubmatch(s); m != nil {
		return parsed(atoi(m[1]) * 60)
	}
	if m := reBare.FindStringSubmatch(s); m != nil {
		return parsed(atoi(m[1]))
	}
	return prepTime{state: prepUnknown}
}

// ParsePreparationTime reads "45min", "1hr30min", "2hr" or "45". Empty or
// unrecognised text yields 0.
func ParsePreparationTime(text string) int {
	return parsePrepTime(text).minutes
}

// AggregatePreparationTime estimates how long a set of dishes takes when
// cooked side by side. Quantity does not multiply the time; dishes with a
// non-positive quantity are ignored.
func AggregatePreparationTime(items []RestaurantItem) int {
	m, _ := aggregatePrep(items)
	return m
}

// aggregatePrep also reports how many dishes had unreadable preparation text.
func aggregatePrep(items []RestaurantItem) (minutes, unknown int) {
	times := make([]int, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		p := parsePrepTime(it.PreparationTime)
		if p.state == prepUnknown {
			unknown++
		}
		m := p.minutes
		if m == 0 {
			m = defaultDishMinutes
		}
		times = append(times, m)
	}
	return capPrep(combinePrepTimes(times)), unknown
}

func combinePrepTimes(times []int) int {
	switch len(times) {
	case 0:
		return 0
	case 1:
		return times[0]
	}

	maxTime := times[0]
	for _, t := range times[1:] {
		if t > maxTime {
			maxTime = t
		}
	}

	sum, n := 0, 0
	for _, t := range times {
		if t < maxTime {
			sum += t
			n++
		}
	}
	if n == 0 {
		return maxTime
	}

	avgLower := float64(sum) / float64(n)
	if maxTime > longDishMinutes {
		return int(math.Round(float64(maxTime) + longDishOverlap*avgLower))
	}
	return int(math.Round(float64(maxTime) + avgLower))
}

func parsed(minutes int) prepTime {
	return prepTime{minutes: min(minutes, maxParsedMinutes), state: prepParsed}
}

func capPrep(m int) int {
	return max(0, min(m, maxPrepMinutes))
}

// atoi reads a run of digits, saturating at maxParsedMinutes so that hour
// counts can be multiplied without overflow.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n > maxParsedMinutes {
		return maxParsedMinutes
	}
	return n
}
