// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/openpmo/scorecard/internal/domain/quality"
)

// FindingsHandler handles data-quality report requests.
type FindingsHandler struct {
	deps Dependencies
}

// NewFindingsHandler creates a new findings handler.
func NewFindingsHandler(deps Dependencies) *FindingsHandler {
	return &FindingsHandler{deps: deps}
}

type findingsResponse struct {
	Clean    bool              `json:"clean"`
	Findings []quality.Finding `json:"findings"`
}

// HandleGetFindings handles GET /api/findings requests. The report is
// recomputed from live workbook state on every call.
func (h *FindingsHandler) HandleGetFindings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_findings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sid := sessionID(w, r)
	findings, err := h.deps.Findings(r.Context(), sid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if findings == nil {
		findings = []quality.Finding{}
	}
	writeJSON(w, http.StatusOK, findingsResponse{Clean: len(findings) == 0, Findings: findings})
}
