package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mdobak/go-xerrors"

	"github.com/goconduit/conduit/internal/core"
)

// routePolicy states what a route expects of the caller's identity.
type routePolicy int

const (
	// authNone ignores credentials entirely.
	authNone routePolicy = iota
	// authOptional resolves a token when present; a missing or malformed
	// header means an anonymous caller.
	authOptional
	// authRequired rejects anonymous callers with 401.
	authRequired
)

// bearerToken extracts the credential from a "Token <jwt>" Authorization
// header. A missing or malformed header yields the empty string.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")

	const prefix = "Token "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}

	return ""
}

// authenticate applies the route's policy before calling next. A present but
// invalid token is 403 regardless of policy; only its absence distinguishes
// authOptional from authRequired.
func (app *application) authenticate(policy routePolicy, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if policy == authNone {
			next(w, r)
			return
		}

		w.Header().Add("Vary", "Authorization")

		token := bearerToken(r)
		if token == "" {
			if policy == authRequired {
				app.authenticationRequiredResponse(w, r)
				return
			}
			next(w, r)
			return
		}

		userID, err := app.auth.VerifyToken(token)
		if err != nil {
			app.invalidAuthenticationTokenResponse(w, r, err)
			return
		}

		user, err := app.core.GetUserByID(r.Context(), userID)
		if err != nil {
			// A token whose subject no longer exists (or was soft-deleted)
			// is as good as forged.
			if errors.Is(err, core.NoRecordFound) {
				app.invalidAuthenticationTokenResponse(w, r, err)
				return
			}
			app.internalErrorResponse(w, r, err)
			return
		}

		user.Token = token
		next(w, app.auth.SetAuthenticatedUser(r, user))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				w.Header().Set("Connection", "close")
				app.internalErrorResponse(w, r, xerrors.Newf("recovered from panic: %v", rec))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
