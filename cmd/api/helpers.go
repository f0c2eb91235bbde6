package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mdobak/go-xerrors"

	"github.com/goconduit/conduit/internal/auth"
	"github.com/goconduit/conduit/internal/validator"
)

type envelope map[string]any

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	const maxBytes = 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {

		var (
			syntaxError           *json.SyntaxError
			unmarshalTypeError    *json.UnmarshalTypeError
			invalidUnmarshalError *json.InvalidUnmarshalError
			maxBytesError         *http.MaxBytesError
		)

		switch {
		case errors.As(err, &syntaxError):
			return xerrors.Newf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return xerrors.Newf("body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return xerrors.Newf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return xerrors.Newf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

		case errors.Is(err, io.EOF):
			return xerrors.Newf("body must not be empty")

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return xerrors.Newf("body contains unknown key %s", fieldName)

		case errors.As(err, &maxBytesError):
			return xerrors.Newf("body must not be larger than %d bytes", maxBytes)

		case errors.As(err, &invalidUnmarshalError):
			return xerrors.Newf("programmer error: invalid unmarshal target: %w", err)

		default:
			return xerrors.Newf("error decoding JSON: %w", err)
		}
	}

	if err := decoder.Decode(&struct{}{}); err != nil && !errors.Is(err, io.EOF) {
		return xerrors.New("body must contain only a single JSON value")
	}

	return nil
}

func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(js); err != nil {
		app.logger.Error(err.Error())
		return err
	}

	return nil
}

func (app *application) readString(qs url.Values, key, defaultValue string) string {
	value := qs.Get(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// requestUser returns the identity attached by the authRequired middleware.
// Its absence on a required route is a programming error, not a client one.
func (app *application) requestUser(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return nil, false
	}
	return user, true
}

// viewerID returns the caller's user id, or 0 for an anonymous caller.
func (app *application) viewerID(r *http.Request) int64 {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		return 0
	}
	return user.ID
}

// readInt reads a query parameter as an integer, recording a validation
// error when the value is present but not numeric.
func (app *application) readInt(qs url.Values, key string, defaultValue int64, v *validator.Validator) int64 {
	value := qs.Get(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		v.AddError(key, "must be an integer")
		return defaultValue
	}

	return parsed
}
