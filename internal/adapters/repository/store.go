// Package repository holds per-session workbook state. Each browser
// session owns exactly one live workbook; uploading replaces it wholesale
// and expiry destroys it.
package repository

import (
	"context"

	"github.com/openpmo/scorecard/internal/domain/model"
)

// Store provides access to session workbooks.
type Store interface {
	// Get returns the workbook for a session.
	// Returns ErrNoSession when the session is unknown or expired.
	Get(ctx context.Context, sessionID string) (*model.Workbook, error)

	// Put replaces the session's workbook, creating the session if needed.
	Put(ctx context.Context, sessionID string, wb *model.Workbook) error

	// Delete drops the session and its workbook.
	Delete(ctx context.Context, sessionID string)

	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}
