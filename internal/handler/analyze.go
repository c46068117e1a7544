package handler

import (
	"log/slog"
	"net/http"

	"converse/internal/domain/services"
	"converse/internal/httputil"
)

// AnalysisHandler handles document analysis requests
type AnalysisHandler struct {
	service services.AnalysisService
	logger  *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service services.AnalysisService, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{service: service, logger: logger}
}

// AnalyzeDocument runs an analysis over inline document text
// POST /api/analyze
func (h *AnalysisHandler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	var req services.AnalysisRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.AnalyzeDocument(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
