// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxUploadBytes caps the size of an uploaded workbook.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// SessionTTLMinutes controls how long an idle session keeps its workbook.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// PrimarySheet names the sheet the scorecard summarizes.
	PrimarySheet string `koanf:"primary_sheet"`

	// StatusColumn and DueDateColumn locate the scorecard inputs on the
	// primary sheet.
	StatusColumn  string `koanf:"status_column"`
	DueDateColumn string `koanf:"due_date_column"`

	// UpcomingHorizonDays bounds the upcoming-milestone window.
	UpcomingHorizonDays int `koanf:"upcoming_horizon_days"`

	// CompleteStatuses are excluded from overdue/upcoming tracking.
	CompleteStatuses []string `koanf:"complete_statuses"`

	// KeyColumns must never be empty; DateColumns must parse as dates.
	KeyColumns  []string `koanf:"key_columns"`
	DateColumns []string `koanf:"date_columns"`

	// Snowflake configures the optional warehouse sink. The sink stays
	// disabled unless Account is set.
	Snowflake SnowflakeConfig `koanf:"snowflake"`
}

// SnowflakeConfig parameterizes the optional warehouse sink.
type SnowflakeConfig struct {
	Account   string `koanf:"account"`
	User      string `koanf:"user"`
	Password  string `koanf:"password"`
	Warehouse string `koanf:"warehouse"`
	Database  string `koanf:"database"`
	Schema    string `koanf:"schema"`
	Table     string `koanf:"table"`
}

// Enabled reports whether the sink is configured at all.
func (c SnowflakeConfig) Enabled() bool { return c.Account != "" }

// New creates a Config with defaults. The column defaults match the
// canonical scorecard template.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		MaxUploadBytes:      16 << 20,
		SessionTTLMinutes:   120,
		PrimarySheet:        "Milestones",
		StatusColumn:        "Status",
		DueDateColumn:       "Target Date",
		UpcomingHorizonDays: 30,
		CompleteStatuses:    []string{"complete", "done", "closed"},
		KeyColumns:          []string{"Initiative", "Status"},
		DateColumns:         []string{"Target Date", "Launch Date"},
	}
}
