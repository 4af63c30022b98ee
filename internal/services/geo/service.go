package geo

import "math"

// Point is a WGS84 coordinate attached to a region.
type Point struct {
	Lat float64
	Lon float64
}

// DistanceKM reprojects both points onto the planar grid and returns the
// straight-line distance between them in kilometers.
func DistanceKM(a, b Point) float64 {
	ax, ay := planarXY(a)
	bx, by := planarXY(b)
	return math.Hypot(bx-ax, by-ay) / 1000
}

// RegionDistance resolves the region component inputs for one seed/candidate
// pair. A shared region id short-circuits to (true, 0) without touching the
// projection. Otherwise it returns the minimum projected distance over every
// geolocated seed-region x candidate-region pair, or nil when no pair has
// coordinates on both sides.
func RegionDistance(seedRegions, candidateRegions []int64, points map[int64]Point) (bool, *float64) {
	if len(seedRegions) == 0 || len(candidateRegions) == 0 {
		return false, nil
	}

	seedSet := make(map[int64]struct{}, len(seedRegions))
	for _, id := range seedRegions {
		seedSet[id] = struct{}{}
	}
	for _, id := range candidateRegions {
		if _, ok := seedSet[id]; ok {
			zero := 0.0
			return true, &zero
		}
	}

	var best *float64
	for _, seedID := range seedRegions {
		seedPoint, ok := points[seedID]
		if !ok {
			continue
		}
		for _, candidateID := range candidateRegions {
			candidatePoint, ok := points[candidateID]
			if !ok {
				continue
			}
			km := DistanceKM(seedPoint, candidatePoint)
			if best == nil || km < *best {
				best = &km
			}
		}
	}

	return false, best
}
