package rules

import "errors"

// ErrAlreadyAccepted reports an accept call for the answer that is already
// the accepted one. The ledger state is left untouched.
var ErrAlreadyAccepted = errors.New("answer already accepted")

// CurrentAccepted identifies the answer currently flagged accepted on a post,
// together with its author.
type CurrentAccepted struct {
	AnswerID int64
	AuthorID int64
}

// AcceptancePlan is the set of writes that move a post from one acceptance
// state to the next. Clear/Demote are nil when the post had no accepted
// answer. The whole plan must be applied in a single transaction so that
// every tutor's accepted counter always equals the number of their answers
// flagged accepted.
type AcceptancePlan struct {
	ClearAnswerID   *int64
	DemoteAuthorID  *int64
	SetAnswerID     int64
	PromoteAuthorID int64
}

// PlanAcceptance computes the transition for accepting answerID (written by
// authorID) on a post whose current accepted answer is current (nil when
// unaccepted).
func PlanAcceptance(current *CurrentAccepted, answerID, authorID int64) (AcceptancePlan, error) {
	if current != nil && current.AnswerID == answerID {
		return AcceptancePlan{}, ErrAlreadyAccepted
	}

	plan := AcceptancePlan{
		SetAnswerID:     answerID,
		PromoteAuthorID: authorID,
	}
	if current != nil {
		clearID := current.AnswerID
		demoteID := current.AuthorID
		plan.ClearAnswerID = &clearID
		plan.DemoteAuthorID = &demoteID
	}
	return plan, nil
}
