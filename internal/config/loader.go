package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SCORECARD_CONFIG is set
//  3. env (prefix SCORECARD_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SCORECARD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SCORECARD_ADDR, SCORECARD_PRIMARY_SHEET, ...
	// Map env keys like SCORECARD_UPCOMING_HORIZON_DAYS -> upcoming_horizon_days.
	// Double underscores become dots, so SCORECARD_SNOWFLAKE__ACCOUNT maps
	// to the nested snowflake.account key.
	envProvider := env.Provider("SCORECARD_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "scorecard_")
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.MaxUploadBytes <= 0:
		return nil, fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case cfg.UpcomingHorizonDays <= 0:
		return nil, fmt.Errorf("%w: upcoming_horizon_days must be positive", ErrInvalidConfig)
	case cfg.PrimarySheet == "" || cfg.StatusColumn == "" || cfg.DueDateColumn == "":
		return nil, fmt.Errorf("%w: scorecard sheet and columns must be set", ErrInvalidConfig)
	}
	return &cfg, nil
}
