package handlers

import (
	"net/http"

	httperrors "github.com/TumaeProject/tumae-be/internal/transport/http/errors"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	httperrors.Write(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{Status: "ok"})
}
