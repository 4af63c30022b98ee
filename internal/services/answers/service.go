package answers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TumaeProject/tumae-be/internal/domain/rules"
	pgrepo "github.com/TumaeProject/tumae-be/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrAnswerNotFound  = errors.New("answer not found")
	ErrForbidden       = errors.New("only the post author can accept an answer")
	ErrAlreadyAccepted = rules.ErrAlreadyAccepted
)

type AnswerStore interface {
	GetAnswer(ctx context.Context, answerID int64) (pgrepo.AnswerRecord, error)
	LockPost(ctx context.Context, tx pgx.Tx, postID int64) (int64, error)
	GetAcceptedForPost(ctx context.Context, tx pgx.Tx, postID int64) (*pgrepo.AcceptedAnswerRecord, error)
	SetAccepted(ctx context.Context, tx pgx.Tx, answerID int64, accepted bool) error
	AddAcceptedCount(ctx context.Context, tx pgx.Tx, tutorID int64, delta int) error
}

// TxRunner runs fn inside a single database transaction.
type TxRunner func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error

type AcceptResult struct {
	PreviousAcceptedID *int64
	NewAcceptedID      int64
}

type Dependencies struct {
	Pool        *pgxpool.Pool
	AnswerStore AnswerStore
	// TxRunner overrides the pool-backed transaction when set.
	TxRunner TxRunner
}

type Service struct {
	answers AnswerStore
	runTx   TxRunner
}

func NewService(deps Dependencies) *Service {
	runTx := deps.TxRunner
	if runTx == nil {
		pool := deps.Pool
		runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		}
	}

	return &Service{
		answers: deps.AnswerStore,
		runTx:   runTx,
	}
}

// Accept marks the answer as the accepted one for its post. When another
// answer was accepted before, its flag is cleared and its author's counter
// decremented in the same transaction that promotes the new one. The post
// lock and the accepted-answer snapshot are taken inside that transaction,
// so two competing accepts on the same post serialize instead of both
// deciding against the same stale snapshot.
func (s *Service) Accept(ctx context.Context, answerID, requesterID int64) (AcceptResult, error) {
	if answerID <= 0 || requesterID <= 0 {
		return AcceptResult{}, ErrValidation
	}
	if s.answers == nil {
		return AcceptResult{}, fmt.Errorf("answer dependencies are not configured")
	}

	answer, err := s.answers.GetAnswer(ctx, answerID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrAnswerNotFound) {
			return AcceptResult{}, ErrAnswerNotFound
		}
		return AcceptResult{}, fmt.Errorf("load answer: %w", err)
	}

	var plan rules.AcceptancePlan
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		postAuthorID, err := s.answers.LockPost(txCtx, tx, answer.PostID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrPostNotFound) {
				return ErrAnswerNotFound
			}
			return fmt.Errorf("lock post: %w", err)
		}
		if postAuthorID != requesterID {
			return ErrForbidden
		}

		accepted, err := s.answers.GetAcceptedForPost(txCtx, tx, answer.PostID)
		if err != nil {
			return fmt.Errorf("load accepted answer: %w", err)
		}

		var current *rules.CurrentAccepted
		if accepted != nil {
			current = &rules.CurrentAccepted{AnswerID: accepted.AnswerID, AuthorID: accepted.AuthorID}
		}

		plan, err = rules.PlanAcceptance(current, answer.ID, answer.AuthorID)
		if err != nil {
			return err
		}

		if plan.ClearAnswerID != nil {
			if err := s.answers.SetAccepted(txCtx, tx, *plan.ClearAnswerID, false); err != nil {
				return fmt.Errorf("clear previous accepted answer: %w", err)
			}
		}
		if plan.DemoteAuthorID != nil {
			if err := s.answers.AddAcceptedCount(txCtx, tx, *plan.DemoteAuthorID, -1); err != nil {
				return fmt.Errorf("demote previous author: %w", err)
			}
		}
		if err := s.answers.SetAccepted(txCtx, tx, plan.SetAnswerID, true); err != nil {
			return fmt.Errorf("set accepted answer: %w", err)
		}
		if err := s.answers.AddAcceptedCount(txCtx, tx, plan.PromoteAuthorID, 1); err != nil {
			return fmt.Errorf("promote author: %w", err)
		}
		return nil
	}); err != nil {
		return AcceptResult{}, err
	}

	return AcceptResult{
		PreviousAcceptedID: plan.ClearAnswerID,
		NewAcceptedID:      plan.SetAnswerID,
	}, nil
}
