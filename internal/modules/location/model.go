// README: Saved delivery address for the address book.
package location

import (
	"time"

	"grocery/internal/types"
)

type Address struct {
	ID        types.ID
	UserID    types.ID
	Label     string
	Street    string
	City      string
	Position  types.Point
	IsDefault bool
	CreatedAt time.Time

	// DistanceKm is filled only when listing relative to an origin.
	DistanceKm float64
}
