package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	httperrors "github.com/TumaeProject/tumae-be/internal/transport/http/errors"
)

func decodeJSON(r *http.Request, target any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeForbidden(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeConflict(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusConflict, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

// parseOptionalInt distinguishes an absent parameter from a present one, and
// reports malformed input instead of falling back.
func parseOptionalInt(raw string) (*int, bool) {
	if raw == "" {
		return nil, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &value, true
}

func parseOptionalFloat(raw string) (*float64, bool) {
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &value, true
}

func intOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
