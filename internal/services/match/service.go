package match

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/TumaeProject/tumae-be/internal/domain/enums"
	"github.com/TumaeProject/tumae-be/internal/domain/rules"
	pgrepo "github.com/TumaeProject/tumae-be/internal/repo/postgres"
	"github.com/TumaeProject/tumae-be/internal/services/geo"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrSeedNotFound = errors.New("seed profile not found")
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

type SeedStore interface {
	GetSeedContext(ctx context.Context, userID int64, role enums.Role) (pgrepo.SeedContext, error)
	ListActiveCandidates(ctx context.Context, role enums.Role) ([]pgrepo.CandidateRecord, error)
}

type RegionStore interface {
	ListPoints(ctx context.Context, regionIDs []int64) (map[int64]pgrepo.RegionPoint, error)
}

type Params struct {
	MinScore      *int
	MaxDistanceKM *float64
	Limit         int
	Offset        int
}

type Result struct {
	UserID          int64
	Score           int
	Components      rules.Components
	SharedRegion    bool
	DistanceKM      *float64
	RatingAvg       float64
	ExperienceYears int
}

type Page struct {
	Items  []Result
	Total  int
	Limit  int
	Offset int
}

type Dependencies struct {
	SeedStore   SeedStore
	RegionStore RegionStore
	// Zero values fall back to the package defaults.
	MinScore     int
	DefaultLimit int
	MaxLimit     int
}

type Service struct {
	seedStore    SeedStore
	regionStore  RegionStore
	minScore     int
	defaultLimit int
	maxLimit     int
}

func NewService(deps Dependencies) *Service {
	minScore := deps.MinScore
	if minScore <= 0 || minScore > rules.MaxScore {
		minScore = rules.DefaultMinScore
	}
	maxLimit := deps.MaxLimit
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	defaultLimit := deps.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}

	return &Service{
		seedStore:    deps.SeedStore,
		regionStore:  deps.RegionStore,
		minScore:     minScore,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Candidates ranks the active opposite-role population against the seed
// user. It issues three queries regardless of population size: the seed
// snapshot, the candidate population, and the referenced region points.
func (s *Service) Candidates(ctx context.Context, seedID int64, role enums.Role, params Params) (Page, error) {
	if seedID <= 0 || !role.IsValid() {
		return Page{}, ErrValidation
	}

	minScore := s.minScore
	if params.MinScore != nil {
		minScore = *params.MinScore
	}
	if minScore < 0 || minScore > rules.MaxScore {
		return Page{}, ErrValidation
	}
	if params.MaxDistanceKM != nil && *params.MaxDistanceKM < 0 {
		return Page{}, ErrValidation
	}
	if params.Limit < 0 || params.Offset < 0 {
		return Page{}, ErrValidation
	}

	limit := params.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	if s.seedStore == nil || s.regionStore == nil {
		return Page{}, fmt.Errorf("match dependencies are not configured")
	}

	seed, err := s.seedStore.GetSeedContext(ctx, seedID, role)
	if err != nil {
		if errors.Is(err, pgrepo.ErrSeedNotFound) {
			return Page{}, ErrSeedNotFound
		}
		return Page{}, fmt.Errorf("load seed context: %w", err)
	}

	candidates, err := s.seedStore.ListActiveCandidates(ctx, role.Opposite())
	if err != nil {
		return Page{}, fmt.Errorf("load candidate population: %w", err)
	}

	points, err := s.loadRegionPoints(ctx, seed, candidates)
	if err != nil {
		return Page{}, err
	}

	results := make([]Result, 0, len(candidates))
	for _, cand := range candidates {
		if cand.UserID == seed.UserID {
			continue
		}

		shared, distanceKM := geo.RegionDistance(seed.RegionIDs, cand.RegionIDs, points)
		components := rules.Components{
			Subject:    rules.OverlapScore(seed.SubjectIDs, cand.SubjectIDs, rules.SubjectWeight),
			Region:     rules.RegionScore(shared, distanceKM),
			Price:      rules.PriceScore(priceRange(seed.PriceMin, seed.PriceMax), priceRange(cand.PriceMin, cand.PriceMax)),
			LessonType: rules.OverlapScore(seed.LessonTypeIDs, cand.LessonTypeIDs, rules.LessonTypeWeight),
		}

		score := components.Total()
		if score < minScore {
			continue
		}
		if params.MaxDistanceKM != nil {
			if distanceKM == nil || *distanceKM > *params.MaxDistanceKM {
				continue
			}
		}

		results = append(results, Result{
			UserID:          cand.UserID,
			Score:           score,
			Components:      components,
			SharedRegion:    shared,
			DistanceKM:      distanceKM,
			RatingAvg:       cand.RatingAvg,
			ExperienceYears: cand.ExperienceYears,
		})
	}

	sortResults(results)

	total := len(results)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Page{
		Items:  results[start:end],
		Total:  total,
		Limit:  limit,
		Offset: params.Offset,
	}, nil
}

func (s *Service) loadRegionPoints(ctx context.Context, seed pgrepo.SeedContext, candidates []pgrepo.CandidateRecord) (map[int64]geo.Point, error) {
	seen := make(map[int64]struct{}, len(seed.RegionIDs))
	ids := make([]int64, 0, len(seed.RegionIDs))
	for _, id := range seed.RegionIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, cand := range candidates {
		for _, id := range cand.RegionIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	records, err := s.regionStore.ListPoints(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load region points: %w", err)
	}

	points := make(map[int64]geo.Point, len(records))
	for id, rec := range records {
		points[id] = geo.Point{Lat: rec.Lat, Lon: rec.Lon}
	}

	return points, nil
}

// sortResults orders by score, then proximity with unknown distances last,
// then rating and experience. The input arrives ordered by user id, so the
// stable sort makes reruns over the same data byte-identical.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if da, db := a.DistanceKM, b.DistanceKM; da != nil || db != nil {
			if da == nil {
				return false
			}
			if db == nil {
				return true
			}
			if *da != *db {
				return *da < *db
			}
		}
		if a.RatingAvg != b.RatingAvg {
			return a.RatingAvg > b.RatingAvg
		}
		return a.ExperienceYears > b.ExperienceYears
	})
}

func priceRange(min, max *int64) rules.PriceRange {
	return rules.PriceRange{Min: min, Max: max}
}
