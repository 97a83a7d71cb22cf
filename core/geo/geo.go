// Package geo contains pure geographic helpers working on (lng, lat) pairs.
package geo

import (
	"math"
	"sort"

	"github.com/kilianp07/washroute/core/model"
)

// EarthRadiusKm is the sphere radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// onRouteCosine is the cosine half-angle of the on-route cone (~41.4°).
const onRouteCosine = 0.75

// DistanceKm returns the great-circle distance between two points.
func DistanceKm(a, b model.Coordinates) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)

	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return EarthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// IsOnRouteHome reports whether candidate lies within the cone around the
// origin→home direction. Degenerate vectors are never on route.
func IsOnRouteHome(origin, home, candidate model.Coordinates) bool {
	hx, hy := home.Lng-origin.Lng, home.Lat-origin.Lat
	cx, cy := candidate.Lng-origin.Lng, candidate.Lat-origin.Lat
	magHome := math.Hypot(hx, hy)
	magCand := math.Hypot(cx, cy)
	if magHome == 0 || magCand == 0 {
		return false
	}
	cos := (hx*cx + hy*cy) / (magHome * magCand)
	return cos > onRouteCosine
}

// RouteLengthKm sums the legs of an ordered polyline.
func RouteLengthKm(coords []model.Coordinates) float64 {
	var total float64
	for i := 1; i < len(coords); i++ {
		total += DistanceKm(coords[i-1], coords[i])
	}
	return total
}

// NearestIndex returns the index of the point closest to target. Ties keep
// the earliest point. It returns -1 when points is empty.
func NearestIndex(points []model.Coordinates, target model.Coordinates) int {
	best := -1
	bestDist := 0.0
	for i, p := range points {
		d := DistanceKm(p, target)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// PlanarNearestIndex is NearestIndex on raw degree offsets, used where the
// home target of a helper is derived.
func PlanarNearestIndex(points []model.Coordinates, target model.Coordinates) int {
	best := -1
	bestDist := 0.0
	for i, p := range points {
		d := math.Hypot(p.Lng-target.Lng, p.Lat-target.Lat)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// SortByDistance stably orders items by their distance to target.
func SortByDistance[T any](items []T, target model.Coordinates, coords func(T) model.Coordinates) []T {
	out := append([]T(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return DistanceKm(coords(out[i]), target) < DistanceKm(coords(out[j]), target)
	})
	return out
}
