package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAnswerNotFound = errors.New("answer not found")
	ErrPostNotFound   = errors.New("post not found")
)

type AnswerRepo struct {
	pool *pgxpool.Pool
}

type AnswerRecord struct {
	ID         int64
	PostID     int64
	AuthorID   int64
	IsAccepted bool
}

type AcceptedAnswerRecord struct {
	AnswerID int64
	AuthorID int64
}

func NewAnswerRepo(pool *pgxpool.Pool) *AnswerRepo {
	return &AnswerRepo{pool: pool}
}

func (r *AnswerRepo) GetAnswer(ctx context.Context, answerID int64) (AnswerRecord, error) {
	if r.pool == nil {
		return AnswerRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if answerID <= 0 {
		return AnswerRecord{}, fmt.Errorf("invalid answer id")
	}

	var rec AnswerRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, post_id, user_id, is_accepted
FROM answers
WHERE id = $1
`, answerID).Scan(&rec.ID, &rec.PostID, &rec.AuthorID, &rec.IsAccepted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AnswerRecord{}, ErrAnswerNotFound
		}
		return AnswerRecord{}, fmt.Errorf("get answer: %w", err)
	}

	return rec, nil
}

// LockPost takes a row lock on the post and returns its author, so
// competing accepts for the same post execute one at a time.
func (r *AnswerRepo) LockPost(ctx context.Context, tx pgx.Tx, postID int64) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}
	if postID <= 0 {
		return 0, fmt.Errorf("invalid post id")
	}

	var authorID int64
	err := tx.QueryRow(ctx, `
SELECT user_id
FROM posts
WHERE id = $1
FOR UPDATE
`, postID).Scan(&authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPostNotFound
		}
		return 0, fmt.Errorf("lock post: %w", err)
	}

	return authorID, nil
}

// GetAcceptedForPost returns the currently accepted answer for the post, or
// nil when the post has none. It reads through the transaction so the
// caller decides against the state it is about to modify.
func (r *AnswerRepo) GetAcceptedForPost(ctx context.Context, tx pgx.Tx, postID int64) (*AcceptedAnswerRecord, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is required")
	}
	if postID <= 0 {
		return nil, fmt.Errorf("invalid post id")
	}

	var rec AcceptedAnswerRecord
	err := tx.QueryRow(ctx, `
SELECT id, user_id
FROM answers
WHERE post_id = $1 AND is_accepted = TRUE
LIMIT 1
`, postID).Scan(&rec.AnswerID, &rec.AuthorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get accepted answer: %w", err)
	}

	return &rec, nil
}

func (r *AnswerRepo) SetAccepted(ctx context.Context, tx pgx.Tx, answerID int64, accepted bool) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if answerID <= 0 {
		return fmt.Errorf("invalid answer id")
	}

	tag, err := tx.Exec(ctx, `
UPDATE answers
SET is_accepted = $2,
	updated_at = NOW()
WHERE id = $1
`, answerID, accepted)
	if err != nil {
		return fmt.Errorf("set answer accepted flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAnswerNotFound
	}

	return nil
}

// AddAcceptedCount moves the tutor's denormalized counter by delta. The
// GREATEST clamp keeps the count from ever going negative.
func (r *AnswerRepo) AddAcceptedCount(ctx context.Context, tx pgx.Tx, tutorID int64, delta int) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if tutorID <= 0 {
		return fmt.Errorf("invalid tutor id")
	}

	if _, err := tx.Exec(ctx, `
UPDATE tutor_profiles
SET accepted_answer_count = GREATEST(0, accepted_answer_count + $2),
	updated_at = NOW()
WHERE user_id = $1
`, tutorID, delta); err != nil {
		return fmt.Errorf("adjust accepted answer count: %w", err)
	}

	return nil
}
