package profiles

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TumaeProject/tumae-be/internal/domain/enums"
	pgrepo "github.com/TumaeProject/tumae-be/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrProfileNotFound = errors.New("profile not found")
)

type ProfileStore interface {
	ReplaceAttributeSets(ctx context.Context, tx pgx.Tx, userID int64, role enums.Role, subjectIDs, lessonTypeIDs, regionIDs []int64) error
	SavePriceRange(ctx context.Context, userID int64, role enums.Role, min, max *int64) error
	ActivateSignup(ctx context.Context, tx pgx.Tx, userID int64) error
	GetDetail(ctx context.Context, userID int64, role enums.Role) (pgrepo.ProfileDetail, error)
}

type AttributeSubmission struct {
	SubjectIDs    []int64
	LessonTypeIDs []int64
	RegionIDs     []int64
}

type Dependencies struct {
	Pool         *pgxpool.Pool
	ProfileStore ProfileStore
}

type Service struct {
	pool  *pgxpool.Pool
	store ProfileStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		pool:  deps.Pool,
		store: deps.ProfileStore,
	}
}

// ReplaceAttributes swaps the user's stored attribute sets for the submitted
// ones. Omitting an id the user sent last time removes it; there is no
// partial merge. A pending profile is activated in the same transaction.
func (s *Service) ReplaceAttributes(ctx context.Context, userID int64, role enums.Role, submission AttributeSubmission) error {
	if userID <= 0 || !role.IsValid() {
		return ErrValidation
	}
	if s.store == nil {
		return fmt.Errorf("profile dependencies are not configured")
	}

	subjects := normalizeIDs(submission.SubjectIDs)
	lessonTypes := normalizeIDs(submission.LessonTypeIDs)
	regions := normalizeIDs(submission.RegionIDs)

	return pgrepo.WithTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.store.ReplaceAttributeSets(txCtx, tx, userID, role, subjects, lessonTypes, regions); err != nil {
			return fmt.Errorf("replace attribute sets: %w", err)
		}
		if err := s.store.ActivateSignup(txCtx, tx, userID); err != nil {
			return fmt.Errorf("activate signup: %w", err)
		}
		return nil
	})
}

func (s *Service) SavePriceRange(ctx context.Context, userID int64, role enums.Role, min, max *int64) error {
	if userID <= 0 || !role.IsValid() {
		return ErrValidation
	}
	if min != nil && *min < 0 {
		return ErrValidation
	}
	if max != nil && *max < 0 {
		return ErrValidation
	}
	if min != nil && max != nil && *min > *max {
		return ErrValidation
	}
	if s.store == nil {
		return fmt.Errorf("profile dependencies are not configured")
	}

	if err := s.store.SavePriceRange(ctx, userID, role, min, max); err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("save price range: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, userID int64, role enums.Role) (pgrepo.ProfileDetail, error) {
	if userID <= 0 || !role.IsValid() {
		return pgrepo.ProfileDetail{}, ErrValidation
	}
	if s.store == nil {
		return pgrepo.ProfileDetail{}, fmt.Errorf("profile dependencies are not configured")
	}

	detail, err := s.store.GetDetail(ctx, userID, role)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return pgrepo.ProfileDetail{}, ErrProfileNotFound
		}
		return pgrepo.ProfileDetail{}, fmt.Errorf("get profile: %w", err)
	}

	return detail, nil
}

// normalizeIDs drops non-positive ids, deduplicates, and sorts so the stored
// rows do not depend on submission order.
func normalizeIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	if len(out) == 0 {
		return nil
	}
	return out
}
