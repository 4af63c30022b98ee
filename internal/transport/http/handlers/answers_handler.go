package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	analyticssvc "github.com/TumaeProject/tumae-be/internal/services/analytics"
	answerssvc "github.com/TumaeProject/tumae-be/internal/services/answers"
	"github.com/TumaeProject/tumae-be/internal/services/identity"
	"github.com/TumaeProject/tumae-be/internal/transport/http/dto"
	httperrors "github.com/TumaeProject/tumae-be/internal/transport/http/errors"
)

type AnswersHandler struct {
	service   *answerssvc.Service
	analytics *analyticssvc.Service
	log       *zap.Logger
}

func NewAnswersHandler(service *answerssvc.Service, analytics *analyticssvc.Service, log *zap.Logger) *AnswersHandler {
	return &AnswersHandler{
		service:   service,
		analytics: analytics,
		log:       log,
	}
}

func (h *AnswersHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "caller identity is required")
		return
	}
	if h.service == nil {
		writeInternal(w, "ANSWERS_SERVICE_UNAVAILABLE", "answers service is unavailable")
		return
	}

	answerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || answerID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "answer id must be a positive integer")
		return
	}

	result, err := h.service.Accept(r.Context(), answerID, id.UserID)
	if err != nil {
		switch {
		case errors.Is(err, answerssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid accept request")
		case errors.Is(err, answerssvc.ErrAnswerNotFound):
			writeNotFound(w, "ANSWER_NOT_FOUND", "answer not found")
		case errors.Is(err, answerssvc.ErrForbidden):
			writeForbidden(w, "FORBIDDEN", "only the post author can accept an answer")
		case errors.Is(err, answerssvc.ErrAlreadyAccepted):
			writeConflict(w, "ALREADY_ACCEPTED", "this answer is already accepted")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to accept answer")
		}
		return
	}

	h.recordEvent(r, id.UserID, result)

	httperrors.Write(w, http.StatusOK, dto.AcceptAnswerResponse{
		OK:                 true,
		AcceptedAnswerID:   result.NewAcceptedID,
		PreviousAcceptedID: result.PreviousAcceptedID,
	})
}

func (h *AnswersHandler) recordEvent(r *http.Request, userID int64, result answerssvc.AcceptResult) {
	if h.analytics == nil {
		return
	}
	props := map[string]any{
		"accepted_answer_id": result.NewAcceptedID,
	}
	if result.PreviousAcceptedID != nil {
		props["previous_accepted_id"] = *result.PreviousAcceptedID
	}
	if err := h.analytics.Record(r.Context(), &userID, "answer_accepted", props); err != nil && h.log != nil {
		h.log.Warn("record accept event failed", zap.Error(err))
	}
}
