// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	codec "github.com/openpmo/scorecard/internal/adapters/codec"
	repository "github.com/openpmo/scorecard/internal/adapters/repository"
	"github.com/openpmo/scorecard/internal/adapters/warehouse"
	"github.com/openpmo/scorecard/internal/domain/columns"
	"github.com/openpmo/scorecard/internal/domain/model"
	"github.com/openpmo/scorecard/internal/domain/quality"
	"github.com/openpmo/scorecard/internal/domain/sample"
	"github.com/openpmo/scorecard/internal/domain/scorecard"
	"github.com/openpmo/scorecard/pkg/logger"
	"github.com/openpmo/scorecard/pkg/metrics"
)

// ScorecardView is the aggregated scorecard of the primary sheet plus the
// canonical health breakdown, recomputed from live state on every call.
type ScorecardView = scorecard.View

// Service implements the API dependencies for the scorecard editor.
type Service struct {
	mu sync.Mutex

	// Core components
	store   repository.Store
	checker *quality.Checker
	roller  *scorecard.Roller
	sink    warehouse.Sink

	// Configuration
	primarySheet  string
	statusColumn  string
	dueDateColumn string
	horizonDays   int

	keyColumns       []string
	dateColumns      []string
	completeStatuses []string

	sessionTTL  time.Duration
	destination warehouse.Destination
	now         func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPrimarySheet sets the sheet the scorecard summarizes.
func WithPrimarySheet(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.primarySheet = name
		}
	}
}

// WithScorecardColumns sets the status and due-date columns on the
// primary sheet.
func WithScorecardColumns(statusColumn, dueDateColumn string) Option {
	return func(s *Service) {
		if statusColumn != "" {
			s.statusColumn = statusColumn
		}
		if dueDateColumn != "" {
			s.dueDateColumn = dueDateColumn
		}
	}
}

// WithHorizonDays sets the default upcoming-milestone window.
func WithHorizonDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.horizonDays = days
		}
	}
}

// WithQualityColumns sets the key and date columns the checker scans.
func WithQualityColumns(keyColumns, dateColumns []string) Option {
	return func(s *Service) {
		s.keyColumns = append([]string(nil), keyColumns...)
		s.dateColumns = append([]string(nil), dateColumns...)
	}
}

// WithCompleteStatuses sets the statuses treated as finished work.
func WithCompleteStatuses(statuses []string) Option {
	return func(s *Service) {
		if len(statuses) > 0 {
			s.completeStatuses = append([]string(nil), statuses...)
		}
	}
}

// WithSessionTTL sets how long an idle session keeps its workbook.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithWarehouseDestination configures the optional warehouse sink target.
func WithWarehouseDestination(dest warehouse.Destination) Option {
	return func(s *Service) {
		s.destination = dest
	}
}

// WithWarehouseSink overrides the sink implementation, used by tests.
func WithWarehouseSink(sink warehouse.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		primarySheet:     sample.MilestonesSheet,
		statusColumn:     "Status",
		dueDateColumn:    "Target Date",
		horizonDays:      scorecard.DefaultHorizonDays,
		keyColumns:       []string{"Initiative", "Status"},
		dateColumns:      []string{"Target Date", "Launch Date"},
		completeStatuses: nil, // roller default applies
		sessionTTL:       2 * time.Hour,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting scorecard service...")

	s.store = repository.NewSessionStore(ctx,
		repository.WithTTL(s.sessionTTL),
	)
	s.checker = quality.NewChecker(
		quality.WithKeyColumns(s.keyColumns),
		quality.WithDateColumns(s.dateColumns),
	)
	rollerOpts := []scorecard.Option{}
	if len(s.completeStatuses) > 0 {
		rollerOpts = append(rollerOpts, scorecard.WithCompleteStatuses(s.completeStatuses))
	}
	s.roller = scorecard.NewRoller(rollerOpts...)
	if s.sink == nil {
		s.sink = warehouse.NewSnowflakeSink()
	}

	s.started = true
	s.logger.Info(ctx, "scorecard service started",
		logger.String("primarySheet", s.primarySheet),
		logger.Int("horizonDays", s.horizonDays),
		logger.Bool("warehouseEnabled", s.destination.Account != ""),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "scorecard service stopped")
}

// Workbook returns the session's live workbook, seeding a fresh session
// with the blank starter sheet.
func (s *Service) Workbook(ctx context.Context, sessionID string) (*model.Workbook, error) {
	wb, err := s.store.Get(ctx, sessionID)
	if err == nil {
		return wb, nil
	}
	wb = model.NewStarterWorkbook()
	if err := s.store.Put(ctx, sessionID, wb); err != nil {
		return nil, err
	}
	return wb, nil
}

// LoadWorkbook decodes an uploaded spreadsheet and replaces the session's
// workbook. A malformed upload leaves the previous workbook active.
func (s *Service) LoadWorkbook(ctx context.Context, sessionID string, r io.Reader) (*model.Workbook, error) {
	wb, err := codec.Decode(r)
	if err != nil {
		metrics.RecordWorkbookUploadError()
		s.logger.Warn(ctx, "workbook upload rejected", logger.Error(err))
		return nil, err
	}
	if err := s.store.Put(ctx, sessionID, wb); err != nil {
		return nil, err
	}
	metrics.RecordWorkbookUpload()
	s.logger.Info(ctx, "workbook loaded",
		logger.String("session", sessionID),
		logger.Int("sheets", len(wb.SheetOrder)),
	)
	return wb, nil
}

// SetCell writes one cell of the session's workbook in place. Edits are
// live; the next findings or scorecard pass sees them immediately.
func (s *Service) SetCell(ctx context.Context, sessionID, sheetName string, row int, column, raw string) error {
	wb, err := s.Workbook(ctx, sessionID)
	if err != nil {
		return err
	}
	sheet := wb.Sheet(sheetName)
	if sheet == nil {
		return fmt.Errorf("%w: %q", codec.ErrUnknownSheet, sheetName)
	}
	if !sheet.SetCell(row, column, model.Parse(raw)) {
		return fmt.Errorf("%w: row %d column %q", ErrBadCell, row, column)
	}
	metrics.RecordCellEdit()
	return nil
}

// AppendRow adds a row to a sheet of the session's workbook and returns
// its index.
func (s *Service) AppendRow(ctx context.Context, sessionID, sheetName string, cells map[string]string) (int, error) {
	wb, err := s.Workbook(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	sheet := wb.Sheet(sheetName)
	if sheet == nil {
		return 0, fmt.Errorf("%w: %q", codec.ErrUnknownSheet, sheetName)
	}
	row := make(model.Row, len(cells))
	for col, raw := range cells {
		row[col] = model.Parse(raw)
	}
	idx := sheet.AppendRow(row)
	metrics.RecordRowAppend()
	return idx, nil
}

// DeleteRow removes a row from a sheet of the session's workbook.
func (s *Service) DeleteRow(ctx context.Context, sessionID, sheetName string, row int) error {
	wb, err := s.Workbook(ctx, sessionID)
	if err != nil {
		return err
	}
	sheet := wb.Sheet(sheetName)
	if sheet == nil {
		return fmt.Errorf("%w: %q", codec.ErrUnknownSheet, sheetName)
	}
	if !sheet.DeleteRow(row) {
		return fmt.Errorf("%w: row %d", ErrBadCell, row)
	}
	return nil
}

// Findings runs a full quality pass over the session's workbook.
func (s *Service) Findings(ctx context.Context, sessionID string) ([]quality.Finding, error) {
	wb, err := s.Workbook(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	findings := s.checker.Check(wb)
	metrics.RecordCheckPass()
	counts := map[quality.FindingKind]int{quality.NullValue: 0, quality.UnparseableDate: 0}
	for _, f := range findings {
		counts[f.Kind]++
	}
	for kind, n := range counts {
		metrics.UpdateFindings(string(kind), n)
	}
	return findings, nil
}

// Scorecard summarizes the primary sheet as of the given date. A zero
// asOf means today; a non-positive horizon falls back to the configured
// window.
func (s *Service) Scorecard(ctx context.Context, sessionID string, asOf time.Time, horizonDays int) (ScorecardView, error) {
	wb, err := s.Workbook(ctx, sessionID)
	if err != nil {
		return ScorecardView{}, err
	}
	if asOf.IsZero() {
		asOf = s.now()
	}
	if horizonDays <= 0 {
		horizonDays = s.horizonDays
	}
	sum := s.roller.Summarize(wb.Sheet(s.primarySheet), s.statusColumn, s.dueDateColumn, asOf, horizonDays)
	return ScorecardView{
		AsOf:        asOf,
		HorizonDays: horizonDays,
		Counts:      sum.Counts,
		Health:      scorecard.HealthBreakdown(sum.Counts),
		Overdue:     sum.Overdue,
		Upcoming:    sum.Upcoming,
		Risks:       scorecard.SummarizeRisks(wb.Sheet(columns.RisksSheet)),
	}, nil
}

// ExportWorkbook serializes the session's workbook to xlsx bytes.
func (s *Service) ExportWorkbook(ctx context.Context, sessionID string) ([]byte, error) {
	wb, err := s.Workbook(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Encode(wb)
	if err != nil {
		return nil, err
	}
	metrics.RecordExport("xlsx", len(payload))
	return payload, nil
}

// ExportCSV serializes one sheet of the session's workbook to CSV bytes.
func (s *Service) ExportCSV(ctx context.Context, sessionID, sheetName string) ([]byte, error) {
	wb, err := s.Workbook(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sheet := wb.Sheet(sheetName)
	if sheet == nil {
		return nil, fmt.Errorf("%w: %q", codec.ErrUnknownSheet, sheetName)
	}
	payload, err := codec.EncodeCSV(sheet)
	if err != nil {
		return nil, err
	}
	metrics.RecordExport("csv", len(payload))
	return payload, nil
}

// Template returns the downloadable sample scorecard workbook.
func (s *Service) Template(_ context.Context) ([]byte, error) {
	return codec.Encode(sample.Workbook(s.now()))
}

// SyncSheet pushes one sheet to the configured warehouse destination.
// Returns the number of rows written. Never touches workbook state.
func (s *Service) SyncSheet(ctx context.Context, sessionID, sheetName, tableOverride string) (int, error) {
	if s.destination.Account == "" {
		return 0, warehouse.ErrDisabled
	}
	wb, err := s.Workbook(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	sheet := wb.Sheet(sheetName)
	if sheet == nil {
		return 0, fmt.Errorf("%w: %q", codec.ErrUnknownSheet, sheetName)
	}
	dest := s.destination
	if tableOverride != "" {
		dest.Table = tableOverride
	}
	rows, err := s.sink.Upload(ctx, dest, sheet)
	if err != nil {
		metrics.RecordSyncError()
		s.logger.Warn(ctx, "warehouse sync failed",
			logger.String("sheet", sheetName),
			logger.Error(err),
		)
		return rows, err
	}
	metrics.RecordSyncRows(rows)
	s.logger.Info(ctx, "warehouse sync complete",
		logger.String("sheet", sheetName),
		logger.Int("rows", rows),
	)
	return rows, nil
}

// SessionCount reports the number of live sessions.
func (s *Service) SessionCount(ctx context.Context) int {
	return s.store.Count(ctx)
}

// DropSession ends a session and destroys its workbook.
func (s *Service) DropSession(ctx context.Context, sessionID string) {
	s.store.Delete(ctx, sessionID)
}

// GetStats returns current service statistics for the metrics updater.
func (s *Service) GetStats() map[string]any {
	return map[string]any{
		"activeSessions": s.store.Count(context.Background()),
		"primarySheet":   s.primarySheet,
	}
}
