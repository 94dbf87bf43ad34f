// README: Shared identifiers and geographic point.
package types

type ID string

// Point is a WGS84 coordinate. Alt is metres above sea level and defaults to 0.
type Point struct {
	Lat float64
	Lng float64
	Alt float64
}

// IsZero reports whether the point carries no coordinates.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}
