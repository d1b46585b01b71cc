// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strings"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler handles workbook and sheet download requests.
type ExportHandler struct {
	deps Dependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleExportWorkbook handles GET /api/export/workbook requests. The
// payload is fully serialized before any byte is written, so a failed
// export yields an error response instead of a truncated file.
func (h *ExportHandler) HandleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_workbook"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sid := sessionID(w, r)
	payload, err := h.deps.ExportWorkbook(r.Context(), sid)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeAttachment(w, "scorecard.xlsx", xlsxContentType, payload)
}

// HandleExportCSV handles GET /api/export/csv?sheet=NAME requests.
func (h *ExportHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_csv"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sheet := r.URL.Query().Get("sheet")
	if sheet == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	sid := sessionID(w, r)
	payload, err := h.deps.ExportCSV(r.Context(), sid, sheet)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeAttachment(w, safeFilename(sheet)+".csv", "text/csv; charset=utf-8", payload)
}

// HandleTemplate handles GET /api/template requests, serving the sample
// scorecard workbook with canonical sheets and columns.
func (h *ExportHandler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_template"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	payload, err := h.deps.Template(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeAttachment(w, "scorecard_template.xlsx", xlsxContentType, payload)
}

func writeAttachment(w http.ResponseWriter, filename, contentType string, payload []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(payload)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// safeFilename strips path separators and quotes from a sheet name so it
// can be used in a Content-Disposition header.
func safeFilename(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "\"", "", "\r", "", "\n", "")
	return replacer.Replace(name)
}
