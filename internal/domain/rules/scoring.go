package rules

// Match score weights. The four components are independent and additive;
// a candidate either takes the full component weight or, for the region
// component, a banded share of it.
const (
	SubjectWeight    = 40
	RegionWeight     = 30
	PriceWeight      = 20
	LessonTypeWeight = 10

	MaxScore        = SubjectWeight + RegionWeight + PriceWeight + LessonTypeWeight
	DefaultMinScore = 50
)

// regionBands maps a distance ceiling in kilometers to the region component
// score. Bands are checked in order; beyond the last ceiling the component
// scores 0.
var regionBands = []struct {
	maxKM float64
	score int
}{
	{10, 30},
	{20, 25},
	{30, 20},
	{50, 15},
	{100, 10},
	{200, 5},
}

// PriceRange is a half-open budget interval. A nil bound means that side is
// unbounded; a range with both bounds nil counts as absent.
type PriceRange struct {
	Min *int64
	Max *int64
}

func (p PriceRange) Defined() bool {
	return p.Min != nil || p.Max != nil
}

type Components struct {
	Subject    int
	Region     int
	Price      int
	LessonType int
}

func (c Components) Total() int {
	return c.Subject + c.Region + c.Price + c.LessonType
}

// OverlapScore awards the full weight when the two id sets intersect.
// An empty set on either side never matches: absent data scores 0, it is
// not a wildcard.
func OverlapScore(seed, candidate []int64, weight int) int {
	if len(seed) == 0 || len(candidate) == 0 {
		return 0
	}

	set := make(map[int64]struct{}, len(seed))
	for _, id := range seed {
		set[id] = struct{}{}
	}
	for _, id := range candidate {
		if _, ok := set[id]; ok {
			return weight
		}
	}
	return 0
}

// PriceScore awards the full weight when the two budget intervals intersect.
// A nil bound satisfies its side of the comparison unconditionally; a profile
// with no range at all scores 0.
func PriceScore(seed, candidate PriceRange) int {
	if !seed.Defined() || !candidate.Defined() {
		return 0
	}

	if seed.Min != nil && candidate.Max != nil && *seed.Min > *candidate.Max {
		return 0
	}
	if candidate.Min != nil && seed.Max != nil && *candidate.Min > *seed.Max {
		return 0
	}
	return PriceWeight
}

// RegionScore scores the region component. A shared region id always takes
// the full weight regardless of coordinates; otherwise the score falls off
// by distance band. An unknown distance scores 0.
func RegionScore(shared bool, distanceKM *float64) int {
	if shared {
		return RegionWeight
	}
	if distanceKM == nil {
		return 0
	}
	for _, band := range regionBands {
		if *distanceKM <= band.maxKM {
			return band.score
		}
	}
	return 0
}
