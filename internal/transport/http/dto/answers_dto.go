package dto

type AcceptAnswerResponse struct {
	OK                 bool   `json:"ok"`
	AcceptedAnswerID   int64  `json:"accepted_answer_id"`
	PreviousAcceptedID *int64 `json:"previous_accepted_id"`
}
