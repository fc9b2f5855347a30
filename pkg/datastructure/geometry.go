package datastructure

import (
	"math"

	"github.com/lintang-b-s/navigatorx-querygraph/pkg/geo"
)

const (
	EPS = 1e-6
)

// equal operator
func Eq(a, b float64) bool {
	return math.Abs(a-b) <= EPS
}

// EqualsEps reports whether a and b differ by strictly less than eps.
func EqualsEps(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// PointsEqual compares latitude and longitude independently, elevation is ignored.
func PointsEqual(a, b Coordinate, eps float64) bool {
	return EqualsEps(a.Lat, b.Lat, eps) && EqualsEps(a.Lon, b.Lon, eps)
}

// Distance between two points in meter.
func Distance(a, b Coordinate) float64 {
	return geo.CalculateHaversineDistanceMeter(a.Lat, a.Lon, b.Lat, b.Lon)
}

// LineDistance is the length of the polyline in meter.
func LineDistance(points []Coordinate) float64 {
	dist := 0.0
	for i := 1; i < len(points); i++ {
		dist += Distance(points[i-1], points[i])
	}
	return dist
}

// CumulativeDistances returns the distance from points[0] to every point of the polyline.
func CumulativeDistances(points []Coordinate) []float64 {
	cum := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cum[i] = cum[i-1] + Distance(points[i-1], points[i])
	}
	return cum
}
