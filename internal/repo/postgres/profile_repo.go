package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TumaeProject/tumae-be/internal/domain/enums"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

type ProfileDetail struct {
	UserID              int64
	Role                string
	SignupStatus        string
	PriceMin            *int64
	PriceMax            *int64
	RatingAvg           float64
	ExperienceYears     int
	AcceptedAnswerCount int
	SubjectIDs          []int64
	LessonTypeIDs       []int64
	RegionIDs           []int64
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

type attributeTables struct {
	subjects    string
	lessonTypes string
	regions     string
	ownerColumn string
}

func tablesForRole(role enums.Role) attributeTables {
	if role == enums.RoleTutor {
		return attributeTables{
			subjects:    "tutor_subjects",
			lessonTypes: "tutor_lesson_types",
			regions:     "tutor_regions",
			ownerColumn: "tutor_id",
		}
	}
	return attributeTables{
		subjects:    "student_subjects",
		lessonTypes: "student_lesson_types",
		regions:     "student_regions",
		ownerColumn: "user_id",
	}
}

// ReplaceAttributeSets drops every stored attribute row for the user and
// reinserts the submitted sets. Runs inside the caller's transaction so a
// failed insert never leaves the profile half cleared.
func (r *ProfileRepo) ReplaceAttributeSets(
	ctx context.Context,
	tx pgx.Tx,
	userID int64,
	role enums.Role,
	subjectIDs []int64,
	lessonTypeIDs []int64,
	regionIDs []int64,
) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	tables := tablesForRole(role)
	sets := []struct {
		table  string
		column string
		ids    []int64
	}{
		{tables.subjects, "subject_id", subjectIDs},
		{tables.lessonTypes, "lesson_type_id", lessonTypeIDs},
		{tables.regions, "region_id", regionIDs},
	}

	for _, set := range sets {
		deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", set.table, tables.ownerColumn)
		if _, err := tx.Exec(ctx, deleteQuery, userID); err != nil {
			return fmt.Errorf("clear %s: %w", set.table, err)
		}

		if len(set.ids) == 0 {
			continue
		}

		insertQuery := fmt.Sprintf(`
INSERT INTO %s (%s, %s)
SELECT $1, UNNEST($2::bigint[])
ON CONFLICT DO NOTHING
`, set.table, tables.ownerColumn, set.column)
		if _, err := tx.Exec(ctx, insertQuery, userID, set.ids); err != nil {
			return fmt.Errorf("insert %s: %w", set.table, err)
		}
	}

	return nil
}

func (r *ProfileRepo) SavePriceRange(ctx context.Context, userID int64, role enums.Role, min, max *int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	query := `
UPDATE student_profiles
SET preferred_price_min = $2,
	preferred_price_max = $3,
	updated_at = NOW()
WHERE user_id = $1
`
	if role == enums.RoleTutor {
		query = `
UPDATE tutor_profiles
SET hourly_rate_min = $2,
	hourly_rate_max = $3,
	updated_at = NOW()
WHERE user_id = $1
`
	}

	tag, err := r.pool.Exec(ctx, query, userID, min, max)
	if err != nil {
		return fmt.Errorf("save price range: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// ActivateSignup flips a pending user to active. A user already active stays
// active; no rows affected just means there was nothing to flip.
func (r *ProfileRepo) ActivateSignup(ctx context.Context, tx pgx.Tx, userID int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
UPDATE users
SET signup_status = 'active',
	updated_at = NOW()
WHERE id = $1 AND signup_status = 'pending_profile'
`, userID); err != nil {
		return fmt.Errorf("activate signup: %w", err)
	}

	return nil
}

const studentDetailQuery = `
SELECT u.id,
	u.role,
	u.signup_status,
	sp.preferred_price_min,
	sp.preferred_price_max,
	0::float8,
	0,
	0,
	COALESCE(ARRAY_AGG(DISTINCT ss.subject_id) FILTER (WHERE ss.subject_id IS NOT NULL), '{}')::bigint[],
	COALESCE(ARRAY_AGG(DISTINCT slt.lesson_type_id) FILTER (WHERE slt.lesson_type_id IS NOT NULL), '{}')::bigint[],
	COALESCE(ARRAY_AGG(DISTINCT sr.region_id) FILTER (WHERE sr.region_id IS NOT NULL), '{}')::bigint[]
FROM users u
JOIN student_profiles sp ON sp.user_id = u.id
LEFT JOIN student_subjects ss ON ss.user_id = u.id
LEFT JOIN student_lesson_types slt ON slt.user_id = u.id
LEFT JOIN student_regions sr ON sr.user_id = u.id
WHERE u.id = $1 AND u.role = 'student'
GROUP BY u.id, u.role, u.signup_status, sp.preferred_price_min, sp.preferred_price_max
`

const tutorDetailQuery = `
SELECT u.id,
	u.role,
	u.signup_status,
	tp.hourly_rate_min,
	tp.hourly_rate_max,
	COALESCE(tp.rating_avg, 0)::float8,
	COALESCE(tp.experience_years, 0),
	COALESCE(tp.accepted_answer_count, 0),
	COALESCE(ARRAY_AGG(DISTINCT ts.subject_id) FILTER (WHERE ts.subject_id IS NOT NULL), '{}')::bigint[],
	COALESCE(ARRAY_AGG(DISTINCT tlt.lesson_type_id) FILTER (WHERE tlt.lesson_type_id IS NOT NULL), '{}')::bigint[],
	COALESCE(ARRAY_AGG(DISTINCT tr.region_id) FILTER (WHERE tr.region_id IS NOT NULL), '{}')::bigint[]
FROM users u
JOIN tutor_profiles tp ON tp.user_id = u.id
LEFT JOIN tutor_subjects ts ON ts.tutor_id = u.id
LEFT JOIN tutor_lesson_types tlt ON tlt.tutor_id = u.id
LEFT JOIN tutor_regions tr ON tr.tutor_id = u.id
WHERE u.id = $1 AND u.role = 'tutor'
GROUP BY u.id, u.role, u.signup_status, tp.hourly_rate_min, tp.hourly_rate_max,
	tp.rating_avg, tp.experience_years, tp.accepted_answer_count
`

func (r *ProfileRepo) GetDetail(ctx context.Context, userID int64, role enums.Role) (ProfileDetail, error) {
	if r.pool == nil {
		return ProfileDetail{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return ProfileDetail{}, fmt.Errorf("invalid user id")
	}

	query := studentDetailQuery
	if role == enums.RoleTutor {
		query = tutorDetailQuery
	}

	var detail ProfileDetail
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&detail.UserID,
		&detail.Role,
		&detail.SignupStatus,
		&detail.PriceMin,
		&detail.PriceMax,
		&detail.RatingAvg,
		&detail.ExperienceYears,
		&detail.AcceptedAnswerCount,
		&detail.SubjectIDs,
		&detail.LessonTypeIDs,
		&detail.RegionIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileDetail{}, ErrProfileNotFound
		}
		return ProfileDetail{}, fmt.Errorf("get profile detail: %w", err)
	}

	return detail, nil
}
