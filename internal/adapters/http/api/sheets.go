// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/openpmo/scorecard/internal/domain/model"
)

// SheetsHandler handles per-sheet read and edit requests.
type SheetsHandler struct {
	deps Dependencies
}

// NewSheetsHandler creates a new sheets handler.
func NewSheetsHandler(deps Dependencies) *SheetsHandler {
	return &SheetsHandler{deps: deps}
}

// editCellRequest mirrors the OpenAPI schema for POST /api/sheets/{name}/cells.
type editCellRequest struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

func (e editCellRequest) validate() error {
	if e.Row < 0 {
		return errors.New("row must be non-negative")
	}
	if strings.TrimSpace(e.Column) == "" {
		return errors.New("missing column")
	}
	return nil
}

// appendRowRequest mirrors the OpenAPI schema for POST /api/sheets/{name}/rows.
type appendRowRequest struct {
	Cells map[string]string `json:"cells"`
}

type sheetResponse struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// HandleSheets dispatches /api/sheets/{name} and its /cells and /rows
// subresources. The sheet name is a path segment and may be URL-escaped.
func (h *SheetsHandler) HandleSheets(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sheets/")
	if rest == "" || rest == r.URL.Path {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(rest, "/")
	name, err := url.PathUnescape(parts[0])
	if err != nil || name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleGetSheet(w, r, name)
	case len(parts) == 2 && parts[1] == "cells" && r.Method == http.MethodPost:
		h.handleEditCell(w, r, name)
	case len(parts) == 2 && parts[1] == "rows" && r.Method == http.MethodPost:
		h.handleAppendRow(w, r, name)
	case len(parts) == 3 && parts[1] == "rows" && r.Method == http.MethodDelete:
		h.handleDeleteRow(w, r, name, parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (h *SheetsHandler) handleGetSheet(w http.ResponseWriter, r *http.Request, name string) {
	const op = "api.get_sheet"
	sid := sessionID(w, r)
	wb, err := h.deps.Workbook(r.Context(), sid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	sheet := wb.Sheet(name)
	if sheet == nil {
		writeError(w, http.StatusNotFound, "unknown_sheet", NewKind(op, ErrBadRequest))
		return
	}
	writeJSON(w, http.StatusOK, sheetOf(sheet))
}

func (h *SheetsHandler) handleEditCell(w http.ResponseWriter, r *http.Request, name string) {
	const op = "api.edit_cell"
	sid := sessionID(w, r)
	var req editCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.SetCell(r.Context(), sid, name, req.Row, req.Column, req.Value); err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
}

func (h *SheetsHandler) handleAppendRow(w http.ResponseWriter, r *http.Request, name string) {
	const op = "api.append_row"
	sid := sessionID(w, r)
	var req appendRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	idx, err := h.deps.AppendRow(r.Context(), sid, name, req.Cells)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, ackResponse{Status: "appended", Row: idx})
}

func (h *SheetsHandler) handleDeleteRow(w http.ResponseWriter, r *http.Request, name, rowStr string) {
	const op = "api.delete_row"
	sid := sessionID(w, r)
	row, err := strconv.Atoi(rowStr)
	if err != nil || row < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.DeleteRow(r.Context(), sid, name, row); err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "deleted"})
}

func sheetOf(sheet *model.Sheet) sheetResponse {
	resp := sheetResponse{
		Name:    sheet.Name,
		Columns: sheet.Columns,
		Rows:    make([][]string, 0, len(sheet.Rows)),
	}
	for _, row := range sheet.Rows {
		cells := make([]string, len(sheet.Columns))
		for i, col := range sheet.Columns {
			cells[i] = row[col].Raw()
		}
		resp.Rows = append(resp.Rows, cells)
	}
	return resp
}
