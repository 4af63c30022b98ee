package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/TumaeProject/tumae-be/internal/domain/enums"
	analyticssvc "github.com/TumaeProject/tumae-be/internal/services/analytics"
	"github.com/TumaeProject/tumae-be/internal/services/identity"
	matchsvc "github.com/TumaeProject/tumae-be/internal/services/match"
	"github.com/TumaeProject/tumae-be/internal/transport/http/dto"
	httperrors "github.com/TumaeProject/tumae-be/internal/transport/http/errors"
)

type MatchRateLimiter interface {
	AllowMatch(ctx context.Context, userID int64) (int64, bool, error)
	RetryAfterMatch(ctx context.Context, userID int64) (int64, error)
}

type MatchHandler struct {
	service   *matchsvc.Service
	limiter   MatchRateLimiter
	analytics *analyticssvc.Service
	log       *zap.Logger
}

func NewMatchHandler(service *matchsvc.Service, limiter MatchRateLimiter, analytics *analyticssvc.Service, log *zap.Logger) *MatchHandler {
	return &MatchHandler{
		service:   service,
		limiter:   limiter,
		analytics: analytics,
		log:       log,
	}
}

func (h *MatchHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "caller identity is required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return
	}

	query := r.URL.Query()

	role, ok := enums.ParseRole(query.Get("role"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "role must be student or tutor")
		return
	}

	minScore, ok := parseOptionalInt(query.Get("min_score"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "min_score must be an integer")
		return
	}
	maxDistanceKM, ok := parseOptionalFloat(query.Get("max_distance_km"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "max_distance_km must be a number")
		return
	}
	limit, ok := parseOptionalInt(query.Get("limit"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "limit must be an integer")
		return
	}
	offset, ok := parseOptionalInt(query.Get("offset"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "offset must be an integer")
		return
	}

	if h.limiter != nil {
		retryAfter, allowed, err := h.limiter.AllowMatch(r.Context(), id.UserID)
		if err != nil {
			writeInternal(w, "INTERNAL_ERROR", "failed to apply rate limit")
			return
		}
		if !allowed {
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
				Code:          "RATE_LIMITED",
				Message:       "too many match requests",
				RetryAfterSec: retryAfter,
			})
			return
		}
	}

	page, err := h.service.Candidates(r.Context(), id.UserID, role, matchsvc.Params{
		MinScore:      minScore,
		MaxDistanceKM: maxDistanceKM,
		Limit:         intOrZero(limit),
		Offset:        intOrZero(offset),
	})
	if err != nil {
		switch {
		case errors.Is(err, matchsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid match request")
		case errors.Is(err, matchsvc.ErrSeedNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "no profile for the requested role")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load match candidates")
		}
		return
	}

	h.recordEvent(r, id.UserID, string(role), page.Total)

	items := make([]dto.MatchCandidateResponse, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, dto.MatchCandidateResponse{
			UserID: item.UserID,
			Score:  item.Score,
			Components: dto.MatchComponentsResponse{
				Subject:    item.Components.Subject,
				Region:     item.Components.Region,
				Price:      item.Components.Price,
				LessonType: item.Components.LessonType,
			},
			SharedRegion:    item.SharedRegion,
			DistanceKM:      item.DistanceKM,
			RatingAvg:       item.RatingAvg,
			ExperienceYears: item.ExperienceYears,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.MatchCandidatesResponse{
		Items:  items,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// LimitStatus reports whether the caller can issue another match request
// right now, without consuming rate budget.
func (h *MatchHandler) LimitStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "caller identity is required")
		return
	}
	if h.limiter == nil {
		httperrors.Write(w, http.StatusOK, dto.MatchLimitStatusResponse{Allowed: true})
		return
	}

	retryAfter, err := h.limiter.RetryAfterMatch(r.Context(), id.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load rate limit state")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MatchLimitStatusResponse{
		Allowed:       retryAfter == 0,
		RetryAfterSec: retryAfter,
	})
}

func (h *MatchHandler) recordEvent(r *http.Request, userID int64, role string, total int) {
	if h.analytics == nil {
		return
	}
	if err := h.analytics.Record(r.Context(), &userID, "match_requested", map[string]any{
		"role":  role,
		"total": total,
	}); err != nil && h.log != nil {
		h.log.Warn("record match event failed", zap.Error(err))
	}
}
