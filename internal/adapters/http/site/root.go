// Package site handles the embedded spreadsheet editor UI.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("editor site serve failed")
)

// Register attaches the embedded editor UI routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Serve the embedded editor at root /
	files := http.FileServer(FS())
	mux.Handle("/", files)
}
