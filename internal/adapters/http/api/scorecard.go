// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"time"
)

// ScorecardHandler handles status scorecard requests.
type ScorecardHandler struct {
	deps Dependencies
}

// NewScorecardHandler creates a new scorecard handler.
func NewScorecardHandler(deps Dependencies) *ScorecardHandler {
	return &ScorecardHandler{deps: deps}
}

// HandleGetScorecard handles GET /api/scorecard?as_of=YYYY-MM-DD&horizon=N
// requests. Both parameters are optional; omitted values fall back to
// today and the configured window.
func (h *ScorecardHandler) HandleGetScorecard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scorecard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sid := sessionID(w, r)

	var asOf time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		asOf = parsed
	}
	horizon := 0
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		horizon = n
	}

	view, err := h.deps.Scorecard(r.Context(), sid, asOf, horizon)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
