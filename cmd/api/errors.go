package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/mdobak/go-xerrors"
)

func (app *application) logError(r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "error handling request",
		slog.String("request_method", r.Method),
		slog.String("request_url", r.URL.String()),
		slog.String("stack", xerrors.Sprint(err)),
	)
}

// errorResponse renders the error envelope: an errors object holding a body
// array of human-readable strings.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, messages ...string) {
	data := envelope{
		"errors": envelope{
			"body": messages,
		},
	}

	if err := app.writeJSON(w, status, data, nil); err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) malformedRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
}

// failedValidationResponse renders one message per violated field, in stable
// field order.
func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, errs map[string]string) {
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	messages := make([]string, 0, len(errs))
	for _, key := range keys {
		messages = append(messages, fmt.Sprintf("%s %s", key, errs[key]))
	}

	app.errorResponse(w, r, http.StatusUnprocessableEntity, messages...)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("the %s method is not supported for this resource", r.Method))
}

func (app *application) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, "unauthenticated")
}

func (app *application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	w.Header().Set("WWW-Authenticate", "Token")
	app.errorResponse(w, r, http.StatusForbidden, "invalid authentication token")
}

func (app *application) internalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, "an internal server error occurred")
}
