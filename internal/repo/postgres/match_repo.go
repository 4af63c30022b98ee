package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TumaeProject/tumae-be/internal/domain/enums"
)

var ErrSeedNotFound = errors.New("seed profile not found")

type MatchRepo struct {
	pool *pgxpool.Pool
}

// SeedContext is the requesting user's attribute snapshot, aggregated in a
// single round trip.
type SeedContext struct {
	UserID        int64
	PriceMin      *int64
	PriceMax      *int64
	SubjectIDs    []int64
	LessonTypeIDs []int64
	RegionIDs     []int64
}

// CandidateRecord is one active opposite-role profile with its attribute
// arrays pre-aggregated. RatingAvg and ExperienceYears are zero for student
// candidates, which only carry preference data.
type CandidateRecord struct {
	UserID          int64
	PriceMin        *int64
	PriceMax        *int64
	RatingAvg       float64
	ExperienceYears int
	SubjectIDs      []int64
	LessonTypeIDs   []int64
	RegionIDs       []int64
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

const studentSeedQuery = `
SELECT u.id,
	sp.preferred_price_min,
	sp.preferred_price_max,
	COALESCE(ARRAY_AGG(DISTINCT ss.subject_id) FILTER (WHERE ss.subject_id IS NOT NULL), '{}')::bigint[],
	COALESCE(ARRAY_AGG(DISTINCT slt.lesson_type_id) FILTER (WHERE slt.lesson_type_id IS NOT NULL), '{}')::bigint[],
	COALESCE(ARRAY_AGG(DISTINCT sr.region_id) FILTER (WHERE sr.region_id IS NOT NULL), '{}')::bigint[]
FROM users u
JOIN student_profiles sp ON sp.user_id = u.id
LEFT JOIN student_subjects ss ON ss.user_id = u.id
LEFT JOIN student_lesson_types slt ON slt.user_id = u.id
LEFT JOIN student_regions sr ON sr.user_id = u.id
WHERE u.id = $1 AND u.role = 'student'
GROUP BY u.id, sp.preferred_price_min, sp.preferred_price_max
`

const tutorSeedQuery = `
SELECT u.id,
	tp.hourly_rate_min,
	tp.hourly_rate_max,
	COALESCE(ARRAY_AGG(DISTINCT ts.subject_id) FILTER (WHERE ts.subject_id IS NOT NULL), '{}')::bigint[],
	COALESCE(ARRAY_AGG(DISTINCT tlt.lesson_type_id) FILTER (WHERE tlt.lesson_type_id IS NOT NULL), '{}')::bigint[],
	COALESCE(ARRAY_AGG(DISTINCT tr.region_id) FILTER (WHERE tr.region_id IS NOT NULL), '{}')::bigint[]
FROM users u
JOIN tutor_profiles tp ON tp.user_id = u.id
LEFT JOIN tutor_subjects ts ON ts.tutor_id = u.id
LEFT JOIN tutor_lesson_types tlt ON tlt.tutor_id = u.id
LEFT JOIN tutor_regions tr ON tr.tutor_id = u.id
WHERE u.id = $1 AND u.role = 'tutor'
GROUP BY u.id, tp.hourly_rate_min, tp.hourly_rate_max
`

func (r *MatchRepo) GetSeedContext(ctx context.Context, userID int64, role enums.Role) (SeedContext, error) {
	if r.pool == nil {
		return SeedContext{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return SeedContext{}, fmt.Errorf("invalid user id")
	}

	query := studentSeedQuery
	if role == enums.RoleTutor {
		query = tutorSeedQuery
	}

	var seed SeedContext
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&seed.UserID,
		&seed.PriceMin,
		&seed.PriceMax,
		&seed.SubjectIDs,
		&seed.LessonTypeIDs,
		&seed.RegionIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SeedContext{}, ErrSeedNotFound
		}
		return SeedContext{}, fmt.Errorf("get seed context: %w", err)
	}

	return seed, nil
}

const tutorCandidatesQuery = `
SELECT u.id,
	tp.hourly_rate_min,
	tp.hourly_rate_max,
	COALESCE(tp.rating_avg, 0)::float8,
	COALESCE(tp.experience_years, 0),
	COALESCE(ARRAY_AGG(DISTINCT ts.subject_id) FILTER (WHERE ts.subject_id IS NOT NULL), '{}')::bigint[],
	COALESCE(ARRAY_AGG(DISTINCT tlt.lesson_type_id) FILTER (WHERE tlt.lesson_type_id IS NOT NULL), '{}')::bigint[],
	COALESCE(ARRAY_AGG(DISTINCT tr.region_id) FILTER (WHERE tr.region_id IS NOT NULL), '{}')::bigint[]
FROM users u
JOIN tutor_profiles tp ON tp.user_id = u.id
LEFT JOIN tutor_subjects ts ON ts.tutor_id = u.id
LEFT JOIN tutor_lesson_types tlt ON tlt.tutor_id = u.id
LEFT JOIN tutor_regions tr ON tr.tutor_id = u.id
WHERE u.role = 'tutor' AND u.signup_status = 'active'
GROUP BY u.id, tp.hourly_rate_min, tp.hourly_rate_max, tp.rating_avg, tp.experience_years
ORDER BY u.id
`

const studentCandidatesQuery = `
SELECT u.id,
	sp.preferred_price_min,
	sp.preferred_price_max,
	0::float8,
	0,
	COALESCE(ARRAY_AGG(DISTINCT ss.subject_id) FILTER (WHERE ss.subject_id IS NOT NULL), '{}')::bigint[],
	COALESCE(ARRAY_AGG(DISTINCT slt.lesson_type_id) FILTER (WHERE slt.lesson_type_id IS NOT NULL), '{}')::bigint[],
	COALESCE(ARRAY_AGG(DISTINCT sr.region_id) FILTER (WHERE sr.region_id IS NOT NULL), '{}')::bigint[]
FROM users u
JOIN student_profiles sp ON sp.user_id = u.id
LEFT JOIN student_subjects ss ON ss.user_id = u.id
LEFT JOIN student_lesson_types slt ON slt.user_id = u.id
LEFT JOIN student_regions sr ON sr.user_id = u.id
WHERE u.role = 'student' AND u.signup_status = 'active'
GROUP BY u.id, sp.preferred_price_min, sp.preferred_price_max
ORDER BY u.id
`

// ListActiveCandidates loads the whole active population for the given role
// in a single query. The id ordering keeps reruns byte-stable before the
// in-memory ranking pass.
func (r *MatchRepo) ListActiveCandidates(ctx context.Context, role enums.Role) ([]CandidateRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	query := studentCandidatesQuery
	if role == enums.RoleTutor {
		query = tutorCandidatesQuery
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active candidates: %w", err)
	}
	defer rows.Close()

	var records []CandidateRecord
	for rows.Next() {
		var rec CandidateRecord
		if err := rows.Scan(
			&rec.UserID,
			&rec.PriceMin,
			&rec.PriceMax,
			&rec.RatingAvg,
			&rec.ExperienceYears,
			&rec.SubjectIDs,
			&rec.LessonTypeIDs,
			&rec.RegionIDs,
		); err != nil {
			return nil, fmt.Errorf("scan candidate record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidate records: %w", err)
	}

	return records, nil
}
