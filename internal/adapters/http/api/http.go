// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/openpmo/scorecard/internal/adapters/codec"
	"github.com/openpmo/scorecard/internal/adapters/warehouse"
	"github.com/openpmo/scorecard/internal/domain/model"
	"github.com/openpmo/scorecard/internal/domain/quality"
	"github.com/openpmo/scorecard/internal/domain/scorecard"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Workbook returns the session's live workbook, seeding new sessions.
	Workbook(ctx context.Context, sessionID string) (*model.Workbook, error)

	// LoadWorkbook replaces the session's workbook with an uploaded one.
	LoadWorkbook(ctx context.Context, sessionID string, r io.Reader) (*model.Workbook, error)

	// Edit operations mutate the session's workbook in place.
	SetCell(ctx context.Context, sessionID, sheet string, row int, column, raw string) error
	AppendRow(ctx context.Context, sessionID, sheet string, cells map[string]string) (int, error)
	DeleteRow(ctx context.Context, sessionID, sheet string, row int) error

	// Read operations expose quality and scorecard data.
	Findings(ctx context.Context, sessionID string) ([]quality.Finding, error)
	Scorecard(ctx context.Context, sessionID string, asOf time.Time, horizonDays int) (ScorecardView, error)

	// Export operations serialize workbook state.
	ExportWorkbook(ctx context.Context, sessionID string) ([]byte, error)
	ExportCSV(ctx context.Context, sessionID, sheet string) ([]byte, error)
	Template(ctx context.Context) ([]byte, error)

	// SyncSheet pushes a sheet to the configured warehouse.
	SyncSheet(ctx context.Context, sessionID, sheet, table string) (int, error)
}

// ScorecardView mirrors the read shape returned by scorecard queries.
type ScorecardView = scorecard.View

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	workbookHandler  *WorkbookHandler
	sheetsHandler    *SheetsHandler
	findingsHandler  *FindingsHandler
	scorecardHandler *ScorecardHandler
	exportHandler    *ExportHandler
	syncHandler      *SyncHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := newOptions(opts...)
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		workbookHandler:  NewWorkbookHandler(deps, cfg.maxUploadBytes),
		sheetsHandler:    NewSheetsHandler(deps),
		findingsHandler:  NewFindingsHandler(deps),
		scorecardHandler: NewScorecardHandler(deps),
		exportHandler:    NewExportHandler(deps),
		syncHandler:      NewSyncHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/workbook", MetricsMiddleware(s.workbookHandler.HandleWorkbook, "workbook"))
	mux.HandleFunc("/api/sheets/", MetricsMiddleware(s.sheetsHandler.HandleSheets, "sheets"))
	mux.HandleFunc("/api/findings", MetricsMiddleware(s.findingsHandler.HandleGetFindings, "findings"))
	mux.HandleFunc("/api/scorecard", MetricsMiddleware(s.scorecardHandler.HandleGetScorecard, "scorecard"))
	mux.HandleFunc("/api/export/workbook", MetricsMiddleware(s.exportHandler.HandleExportWorkbook, "export_workbook"))
	mux.HandleFunc("/api/export/csv", MetricsMiddleware(s.exportHandler.HandleExportCSV, "export_csv"))
	mux.HandleFunc("/api/template", MetricsMiddleware(s.exportHandler.HandleTemplate, "template"))
	mux.HandleFunc("/api/sync", MetricsMiddleware(s.syncHandler.HandlePostSync, "sync"))
}

type ackResponse struct {
	Status string `json:"status"`
	Row    int    `json:"row,omitempty"`
	Rows   int    `json:"rows,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// statusFor translates upstream errors to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, codec.ErrUnknownSheet):
		return http.StatusNotFound, "unknown_sheet"
	case errors.Is(err, model.ErrBadCell):
		return http.StatusBadRequest, "bad_cell"
	case errors.Is(err, codec.ErrOpenWorkbook), errors.Is(err, codec.ErrEmptyWorkbook):
		return http.StatusBadRequest, "bad_workbook"
	case errors.Is(err, warehouse.ErrDisabled):
		return http.StatusServiceUnavailable, "sync_disabled"
	case errors.Is(err, warehouse.ErrBadDest), errors.Is(err, warehouse.ErrEmptySheet):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
