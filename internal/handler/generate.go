package handler

import (
	"log/slog"
	"net/http"

	"converse/internal/domain/services"
	"converse/internal/httputil"
)

// GenerationHandler handles content generation requests
type GenerationHandler struct {
	service services.GenerationService
	logger  *slog.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(service services.GenerationService, logger *slog.Logger) *GenerationHandler {
	return &GenerationHandler{service: service, logger: logger}
}

// GenerateContent generates content of a requested type
// POST /api/generate
func (h *GenerationHandler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	var req services.GenerationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.GenerateContent(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
