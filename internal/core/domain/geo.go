package domain

import (
	"math"
	"sort"
)

const earthRadiusKm = 6371

// Haversine returns the great-circle distance in kilometers between two
// WGS84 coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// NearbyFarm is a locality annotated with its distance from a query point.
type NearbyFarm struct {
	Locality
	DistanceKm float64 `json:"distanceKm"`
}

// NearbyFarms returns the localities within radiusKm of the given point,
// sorted by ascending distance.
func NearbyFarms(lat, lng, radiusKm float64, all []Locality) []NearbyFarm {
	var out []NearbyFarm
	for _, loc := range all {
		d := Haversine(lat, lng, loc.Latitude, loc.Longitude)
		if d <= radiusKm {
			out = append(out, NearbyFarm{Locality: loc, DistanceKm: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}
