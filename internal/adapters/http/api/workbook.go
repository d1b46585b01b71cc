// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/openpmo/scorecard/internal/domain/model"
)

// WorkbookHandler handles workbook upload and metadata requests.
type WorkbookHandler struct {
	deps           Dependencies
	maxUploadBytes int64
}

// NewWorkbookHandler creates a new workbook handler.
func NewWorkbookHandler(deps Dependencies, maxUploadBytes int64) *WorkbookHandler {
	return &WorkbookHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

// sheetMeta is the per-sheet shape in the workbook metadata response.
type sheetMeta struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    int      `json:"rows"`
}

type workbookResponse struct {
	Sheets []sheetMeta `json:"sheets"`
}

// HandleWorkbook dispatches /api/workbook by method: POST uploads a new
// spreadsheet, GET returns sheet metadata for the session's workbook.
func (h *WorkbookHandler) HandleWorkbook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleUpload(w, r)
	case http.MethodGet:
		h.handleMeta(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *WorkbookHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_workbook"
	sid := sessionID(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	defer file.Close()

	wb, err := h.deps.LoadWorkbook(r.Context(), sid, file)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, metaOf(wb))
}

func (h *WorkbookHandler) handleMeta(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_workbook"
	sid := sessionID(w, r)
	wb, err := h.deps.Workbook(r.Context(), sid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, metaOf(wb))
}

func metaOf(wb *model.Workbook) workbookResponse {
	resp := workbookResponse{Sheets: make([]sheetMeta, 0, len(wb.SheetOrder))}
	for _, sheet := range wb.Ordered() {
		resp.Sheets = append(resp.Sheets, sheetMeta{
			Name:    sheet.Name,
			Columns: sheet.Columns,
			Rows:    len(sheet.Rows),
		})
	}
	return resp
}
