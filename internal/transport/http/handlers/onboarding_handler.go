package handlers

import (
	"errors"
	"net/http"

	"github.com/TumaeProject/tumae-be/internal/domain/enums"
	"github.com/TumaeProject/tumae-be/internal/services/identity"
	profilessvc "github.com/TumaeProject/tumae-be/internal/services/profiles"
	"github.com/TumaeProject/tumae-be/internal/transport/http/dto"
	httperrors "github.com/TumaeProject/tumae-be/internal/transport/http/errors"
)

type OnboardingHandler struct {
	service *profilessvc.Service
}

func NewOnboardingHandler(service *profilessvc.Service) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

func (h *OnboardingHandler) ReplaceAttributes(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "caller identity is required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILES_SERVICE_UNAVAILABLE", "profiles service is unavailable")
		return
	}

	var req dto.ReplaceAttributesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	role, ok := enums.ParseRole(req.Role)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "role must be student or tutor")
		return
	}

	err := h.service.ReplaceAttributes(r.Context(), id.UserID, role, profilessvc.AttributeSubmission{
		SubjectIDs:    req.SubjectIDs,
		LessonTypeIDs: req.LessonTypeIDs,
		RegionIDs:     req.RegionIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid attribute submission")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save attributes")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

func (h *OnboardingHandler) SavePriceRange(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "caller identity is required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILES_SERVICE_UNAVAILABLE", "profiles service is unavailable")
		return
	}

	var req dto.SavePriceRangeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	role, ok := enums.ParseRole(req.Role)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "role must be student or tutor")
		return
	}

	if err := h.service.SavePriceRange(r.Context(), id.UserID, role, req.PriceMin, req.PriceMax); err != nil {
		switch {
		case errors.Is(err, profilessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid price range")
		case errors.Is(err, profilessvc.ErrProfileNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "no profile for the requested role")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save price range")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

func (h *OnboardingHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "caller identity is required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILES_SERVICE_UNAVAILABLE", "profiles service is unavailable")
		return
	}

	role, ok := enums.ParseRole(r.URL.Query().Get("role"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "role must be student or tutor")
		return
	}

	detail, err := h.service.Get(r.Context(), id.UserID, role)
	if err != nil {
		switch {
		case errors.Is(err, profilessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid profile request")
		case errors.Is(err, profilessvc.ErrProfileNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "no profile for the requested role")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ProfileResponse{
		UserID:              detail.UserID,
		Role:                detail.Role,
		SignupStatus:        detail.SignupStatus,
		PriceMin:            detail.PriceMin,
		PriceMax:            detail.PriceMax,
		RatingAvg:           detail.RatingAvg,
		ExperienceYears:     detail.ExperienceYears,
		AcceptedAnswerCount: detail.AcceptedAnswerCount,
		SubjectIDs:          detail.SubjectIDs,
		LessonTypeIDs:       detail.LessonTypeIDs,
		RegionIDs:           detail.RegionIDs,
	})
}
