package match

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/TumaeProject/tumae-be/internal/domain/enums"
	pgrepo "github.com/TumaeProject/tumae-be/internal/repo/postgres"
)

type stubStore struct {
	seed       pgrepo.SeedContext
	seedErr    error
	candidates []pgrepo.CandidateRecord
	points     map[int64]pgrepo.RegionPoint
}

func (s *stubStore) GetSeedContext(ctx context.Context, userID int64, role enums.Role) (pgrepo.SeedContext, error) {
	if s.seedErr != nil {
		return pgrepo.SeedContext{}, s.seedErr
	}
	return s.seed, nil
}

func (s *stubStore) ListActiveCandidates(ctx context.Context, role enums.Role) ([]pgrepo.CandidateRecord, error) {
	return s.candidates, nil
}

func (s *stubStore) ListPoints(ctx context.Context, regionIDs []int64) (map[int64]pgrepo.RegionPoint, error) {
	out := make(map[int64]pgrepo.RegionPoint, len(regionIDs))
	for _, id := range regionIDs {
		if point, ok := s.points[id]; ok {
			out[id] = point
		}
	}
	return out, nil
}

func int64ptr(v int64) *int64       { return &v }
func intptr(v int) *int             { return &v }
func float64ptr(v float64) *float64 { return &v }

// Region 100 is central Seoul, region 200 is Daejeon, roughly 140 km away.
// Region 300 has no stored coordinates.
func newStubStore() *stubStore {
	return &stubStore{
		seed: pgrepo.SeedContext{
			UserID:        1,
			PriceMin:      int64ptr(20000),
			PriceMax:      int64ptr(40000),
			SubjectIDs:    []int64{1, 2},
			LessonTypeIDs: []int64{1},
			RegionIDs:     []int64{100},
		},
		candidates: []pgrepo.CandidateRecord{
			{
				// perfect match
				UserID:          10,
				PriceMin:        int64ptr(25000),
				PriceMax:        int64ptr(35000),
				RatingAvg:       4.8,
				ExperienceYears: 5,
				SubjectIDs:      []int64{2, 3},
				LessonTypeIDs:   []int64{1},
				RegionIDs:       []int64{100},
			},
			{
				// distant stranger: nothing shared, far region
				UserID:          11,
				PriceMin:        int64ptr(90000),
				PriceMax:        int64ptr(120000),
				RatingAvg:       5.0,
				ExperienceYears: 10,
				SubjectIDs:      []int64{9},
				LessonTypeIDs:   []int64{9},
				RegionIDs:       []int64{200},
			},
			{
				// subject and price overlap, region unknown
				UserID:          12,
				PriceMin:        int64ptr(30000),
				PriceMax:        int64ptr(50000),
				RatingAvg:       4.1,
				ExperienceYears: 2,
				SubjectIDs:      []int64{1},
				LessonTypeIDs:   []int64{9},
				RegionIDs:       []int64{300},
			},
		},
		points: map[int64]pgrepo.RegionPoint{
			100: {RegionID: 100, Lat: 37.5665, Lon: 126.9780},
			200: {RegionID: 200, Lat: 36.3504, Lon: 127.3845},
		},
	}
}

func newTestService(store *stubStore) *Service {
	return NewService(Dependencies{SeedStore: store, RegionStore: store})
}

func TestCandidatesValidation(t *testing.T) {
	svc := newTestService(newStubStore())

	cases := []struct {
		name   string
		seedID int64
		role   enums.Role
		params Params
	}{
		{"zero seed id", 0, enums.RoleStudent, Params{}},
		{"bad role", 1, enums.Role("admin"), Params{}},
		{"negative limit", 1, enums.RoleStudent, Params{Limit: -1}},
		{"negative offset", 1, enums.RoleStudent, Params{Offset: -5}},
		{"min score above bound", 1, enums.RoleStudent, Params{MinScore: intptr(101)}},
		{"min score below bound", 1, enums.RoleStudent, Params{MinScore: intptr(-1)}},
		{"negative distance ceiling", 1, enums.RoleStudent, Params{MaxDistanceKM: float64ptr(-10)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Candidates(context.Background(), tc.seedID, tc.role, tc.params)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("unexpected error: got %v want %v", err, ErrValidation)
			}
		})
	}
}

func TestCandidatesSeedNotFound(t *testing.T) {
	store := newStubStore()
	store.seedErr = pgrepo.ErrSeedNotFound
	svc := newTestService(store)

	_, err := svc.Candidates(context.Background(), 404, enums.RoleStudent, Params{})
	if !errors.Is(err, ErrSeedNotFound) {
		t.Fatalf("unexpected error: got %v want %v", err, ErrSeedNotFound)
	}
}

func TestCandidatesRanksAndFiltersByDefaultThreshold(t *testing.T) {
	svc := newTestService(newStubStore())

	page, err := svc.Candidates(context.Background(), 1, enums.RoleStudent, Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("unexpected total: got %d want 2", page.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("unexpected page size: got %d want 2", len(page.Items))
	}
	if page.Items[0].UserID != 10 || page.Items[0].Score != 100 {
		t.Fatalf("unexpected top result: got user %d score %d", page.Items[0].UserID, page.Items[0].Score)
	}
	if page.Items[1].UserID != 12 {
		t.Fatalf("unexpected second result: got user %d", page.Items[1].UserID)
	}
	for _, item := range page.Items {
		if item.UserID == 11 {
			t.Fatal("distant stranger should be below the default threshold")
		}
	}
}

func TestCandidatesMinScoreZeroKeepsFullPopulation(t *testing.T) {
	svc := newTestService(newStubStore())

	page, err := svc.Candidates(context.Background(), 1, enums.RoleStudent, Params{MinScore: intptr(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("unexpected total at zero threshold: got %d want 3", page.Total)
	}

	var stranger *Result
	for i := range page.Items {
		if page.Items[i].UserID == 11 {
			stranger = &page.Items[i]
		}
	}
	if stranger == nil {
		t.Fatal("expected distant stranger in results at zero threshold")
	}
	if stranger.Score != 5 {
		t.Fatalf("unexpected stranger score: got %d want 5", stranger.Score)
	}
}

func TestCandidatesDistanceCeilingDropsUnknownDistance(t *testing.T) {
	svc := newTestService(newStubStore())

	page, err := svc.Candidates(context.Background(), 1, enums.RoleStudent, Params{
		MinScore:      intptr(0),
		MaxDistanceKM: float64ptr(500),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, item := range page.Items {
		if item.UserID == 12 {
			t.Fatal("candidate without coordinates should be dropped when a ceiling is set")
		}
	}
	if page.Total != 2 {
		t.Fatalf("unexpected total under ceiling: got %d want 2", page.Total)
	}
}

func TestCandidatesPaginationConcatenates(t *testing.T) {
	svc := newTestService(newStubStore())
	params := Params{MinScore: intptr(0)}

	full, err := svc.Candidates(context.Background(), 1, enums.RoleStudent, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var paged []Result
	for offset := 0; ; offset++ {
		page, err := svc.Candidates(context.Background(), 1, enums.RoleStudent, Params{
			MinScore: intptr(0),
			Limit:    1,
			Offset:   offset,
		})
		if err != nil {
			t.Fatalf("unexpected error at offset %d: %v", offset, err)
		}
		if len(page.Items) == 0 {
			break
		}
		paged = append(paged, page.Items...)
	}

	if !reflect.DeepEqual(full.Items, paged) {
		t.Fatalf("concatenated pages differ from the full listing:\nfull:  %+v\npaged: %+v", full.Items, paged)
	}
}

func TestCandidatesRerunsAreStable(t *testing.T) {
	svc := newTestService(newStubStore())
	params := Params{MinScore: intptr(0)}

	first, err := svc.Candidates(context.Background(), 1, enums.RoleStudent, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Candidates(context.Background(), 1, enums.RoleStudent, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical reruns produced different results")
	}
}

func TestCandidatesLimitCap(t *testing.T) {
	svc := newTestService(newStubStore())

	page, err := svc.Candidates(context.Background(), 1, enums.RoleStudent, Params{Limit: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Limit != MaxLimit {
		t.Fatalf("unexpected effective limit: got %d want %d", page.Limit, MaxLimit)
	}
}

func TestCandidatesConfiguredThresholdAndLimits(t *testing.T) {
	store := newStubStore()
	svc := NewService(Dependencies{
		SeedStore:    store,
		RegionStore:  store,
		MinScore:     10,
		DefaultLimit: 1,
		MaxLimit:     2,
	})

	page, err := svc.Candidates(context.Background(), 1, enums.RoleStudent, Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("unexpected total under configured threshold: got %d want 2", page.Total)
	}
	if page.Limit != 1 || len(page.Items) != 1 {
		t.Fatalf("unexpected configured default limit: limit %d, items %d", page.Limit, len(page.Items))
	}

	page, err = svc.Candidates(context.Background(), 1, enums.RoleStudent, Params{Limit: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Limit != 2 {
		t.Fatalf("unexpected configured limit cap: got %d want 2", page.Limit)
	}
}
