// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/google/uuid"
)

// sessionCookie names the cookie that carries the editing session ID.
const sessionCookie = "scorecard_session"

// sessionID returns the request's session ID, minting a fresh one and
// setting the cookie when the request carries none. Sessions are anonymous;
// the ID's only job is to route the caller back to their workbook.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
