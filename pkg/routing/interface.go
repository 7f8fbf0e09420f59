package routing

import "context"

// LatLng is a WGS84 coordinate pair in internal (lat, lng) order. Providers
// speaking lon/lat protocols swap on ingestion.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteProvider fetches a road-network polyline between two points. A
// provider never fails: on any upstream problem it degrades to the
// straight-line two-point route so tracking flows keep working.
type RouteProvider interface {
	FetchRoute(ctx context.Context, start, end LatLng) []LatLng
}

// StraightLine is the universal fallback route.
func StraightLine(start, end LatLng) []LatLng {
	return []LatLng{start, end}
}

// ConcatLegs joins two route legs that share an endpoint, dropping the
// second leg's first point so the midpoint is not duplicated.
func ConcatLegs(a, b []LatLng) []LatLng {
	if len(b) <= 1 {
		return a
	}
	if len(a) == 0 {
		return b
	}

	joined := make([]LatLng, 0, len(a)+len(b)-1)
	joined = append(joined, a...)
	joined = append(joined, b[1:]...)
	return joined
}
