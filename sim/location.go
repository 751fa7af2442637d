package sim

import (
	"fmt"
	"math"
)

// Location is a point in the plane where an agent appears.
type Location struct {
	X float64
	Y float64
}

func (l Location) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", l.X, l.Y)
}

// DistanceFunc measures the travel cost between two locations.
type DistanceFunc func(a, b Location) float64

// Distance names accepted by DistanceByName.
const (
	DistanceEuclidean = "euclidean"
	DistanceManhattan = "manhattan"
	DistanceHaversine = "haversine"
)

const earthRadiusKm = 6371.0

// Euclidean returns the straight-line distance between a and b.
func Euclidean(a, b Location) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Manhattan returns the L1 distance between a and b.
func Manhattan(a, b Location) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

// Haversine treats X as longitude and Y as latitude in decimal degrees and
// returns the great-circle distance in kilometres.
func Haversine(a, b Location) float64 {
	dLat := degreesToRadians(b.Y - a.Y)
	dLng := degreesToRadians(b.X - a.X)
	lat1 := degreesToRadians(a.Y)
	lat2 := degreesToRadians(b.Y)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

var distanceFuncs = map[string]DistanceFunc{
	"":                DistanceFunc(Euclidean), // empty defaults to euclidean
	DistanceEuclidean: Euclidean,
	DistanceManhattan: Manhattan,
	DistanceHaversine: Haversine,
}

// IsValidDistance reports whether name is a recognized distance measure.
func IsValidDistance(name string) bool {
	_, ok := distanceFuncs[name]
	return ok
}

// DistanceByName returns the distance function registered under name.
func DistanceByName(name string) (DistanceFunc, error) {
	f, ok := distanceFuncs[name]
	if !ok {
		return nil, fmt.Errorf("unknown distance %q; valid: euclidean, manhattan, haversine", name)
	}
	return f, nil
}
