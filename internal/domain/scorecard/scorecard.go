// Package scorecard aggregates a primary sheet into status counts and an
// overdue/upcoming partition of its milestone rows.
package scorecard

import (
	"strings"
	"time"

	"github.com/openpmo/scorecard/internal/domain/dates"
	"github.com/openpmo/scorecard/internal/domain/model"
)

// UnspecifiedLabel is the reserved bucket for rows with an empty status.
// A status literally spelled "Unspecified" lands in the same bucket: the
// label claims the whole "status not stated" meaning, reserved or typed.
const UnspecifiedLabel = "Unspecified"

// DefaultHorizonDays is the default upcoming-milestone window.
const DefaultHorizonDays = 30

// defaultCompleteStatuses are excluded from overdue/upcoming tracking.
var defaultCompleteStatuses = []string{"complete", "done", "closed"}

// StatusCount is one status bucket. Label keeps the first-seen spelling of
// the normalized status value.
type StatusCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RowRef points back at one classified row of the primary sheet.
type RowRef struct {
	Row           int       `json:"row"`
	Status        string    `json:"status"`
	DueDate       time.Time `json:"due_date"`
	DaysFromToday int       `json:"days_from_today"`
}

// Summary is the aggregated scorecard for the primary sheet, recomputed
// from live workbook state on every pass.
type Summary struct {
	Counts   []StatusCount `json:"counts"`
	Overdue  []RowRef      `json:"overdue"`
	Upcoming []RowRef      `json:"upcoming"`
}

// View is a Summary annotated with the parameters it was computed under,
// the canonical health breakdown, and the risk posture. It is the read
// shape the HTTP API returns.
type View struct {
	AsOf        time.Time     `json:"as_of"`
	HorizonDays int           `json:"horizon_days"`
	Counts      []StatusCount `json:"counts"`
	Health      []StatusCount `json:"health"`
	Overdue     []RowRef      `json:"overdue"`
	Upcoming    []RowRef      `json:"upcoming"`
	Risks       RiskPosture   `json:"risks"`
}

// Roller computes scorecard summaries.
type Roller struct {
	complete map[string]struct{}
}

// Option applies a configuration option to the Roller.
type Option func(*Roller)

// WithCompleteStatuses sets the statuses treated as finished work. Matching
// is case-insensitive after trimming.
func WithCompleteStatuses(statuses []string) Option {
	return func(r *Roller) {
		if len(statuses) == 0 {
			return
		}
		r.complete = make(map[string]struct{}, len(statuses))
		for _, s := range statuses {
			r.complete[normalize(s)] = struct{}{}
		}
	}
}

// NewRoller creates a roller with configuration options.
func NewRoller(opts ...Option) *Roller {
	r := &Roller{}
	WithCompleteStatuses(defaultCompleteStatuses)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Summarize groups the primary sheet's rows by status and partitions them
// into overdue and upcoming relative to today. Rows whose due date is
// missing or unparseable are counted but never classified.
func (r *Roller) Summarize(sheet *model.Sheet, statusColumn, dueColumn string, today time.Time, horizonDays int) Summary {
	var sum Summary
	if sheet == nil {
		return sum
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	today = day(today)
	horizon := today.AddDate(0, 0, horizonDays)

	index := make(map[string]int)
	for i := range sheet.Rows {
		status := strings.TrimSpace(sheet.Cell(i, statusColumn).Raw())
		key := normalize(status)
		label := status
		if key == "" {
			key = normalize(UnspecifiedLabel)
			label = UnspecifiedLabel
		}
		pos, ok := index[key]
		if !ok {
			pos = len(sum.Counts)
			index[key] = pos
			sum.Counts = append(sum.Counts, StatusCount{Label: label})
		}
		sum.Counts[pos].Count++

		if r.isComplete(status) {
			continue
		}
		due, ok := dueDate(sheet.Cell(i, dueColumn))
		if !ok {
			continue
		}
		ref := RowRef{
			Row:           i,
			Status:        status,
			DueDate:       due,
			DaysFromToday: int(due.Sub(today).Hours() / 24),
		}
		switch {
		case due.Before(today):
			sum.Overdue = append(sum.Overdue, ref)
		case !due.After(horizon):
			sum.Upcoming = append(sum.Upcoming, ref)
		}
	}
	return sum
}

func (r *Roller) isComplete(status string) bool {
	_, ok := r.complete[normalize(status)]
	return ok
}

func dueDate(v model.Value) (time.Time, bool) {
	if v.Kind == model.KindDate {
		return day(v.Date), true
	}
	return dates.Parse(v.Raw())
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
