// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// SyncHandler handles warehouse push requests.
type SyncHandler struct {
	deps Dependencies
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(deps Dependencies) *SyncHandler {
	return &SyncHandler{deps: deps}
}

// syncRequest mirrors the OpenAPI schema for POST /api/sync.
type syncRequest struct {
	Sheet string `json:"sheet"`
	Table string `json:"table,omitempty"`
}

func (s syncRequest) validate() error {
	if strings.TrimSpace(s.Sheet) == "" {
		return errors.New("missing sheet")
	}
	return nil
}

type syncResponse struct {
	Status string `json:"status"`
	Rows   int    `json:"rows"`
}

// HandlePostSync handles POST /api/sync requests. Returns 503 when no
// warehouse destination is configured; the workbook is never touched.
func (h *SyncHandler) HandlePostSync(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_sync"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sid := sessionID(w, r)
	rows, err := h.deps.SyncSheet(r.Context(), sid, req.Sheet, req.Table)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Status: "synced", Rows: rows})
}
