package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/goconduit/conduit/internal/auth"
	"github.com/goconduit/conduit/internal/core"
	"github.com/goconduit/conduit/internal/validator"
)

func (app *application) registerUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		User struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		} `json:"user"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.malformedRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.CheckNotBlank(input.User.Username, "username", "must be provided")
	v.Check(len(input.User.Username) <= 100, "username", "must not be more than 100 characters long")
	v.CheckNotBlank(input.User.Email, "email", "must be provided")
	if input.User.Email != "" {
		v.CheckEmail(input.User.Email, "must be a valid email address")
	}
	v.CheckNotBlank(input.User.Password, "password", "must be provided")
	v.Check(len(input.User.Password) >= 8, "password", "must be at least 8 characters long")
	v.Check(len(input.User.Password) <= 72, "password", "must not be more than 72 characters long")

	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user := &auth.User{
		Username: input.User.Username,
		Email:    input.User.Email,
	}
	if err := user.SetPassword(input.User.Password); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	err := app.session.DoTransactionally(r.Context(), func(txCtx context.Context) error {
		return app.core.CreateNewUser(txCtx, user)
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateUser) {
			app.registrationConflict(w, r, input.User.Username, input.User.Email)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	token, err := app.auth.IssueToken(user.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	user.Token = token

	if err := app.writeJSON(w, http.StatusCreated, envelope{"user": user}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// registrationConflict resolves a unique violation on registration into one
// message per colliding field.
func (app *application) registrationConflict(w http.ResponseWriter, r *http.Request, username, email string) {
	usernameTaken, emailTaken, err := app.core.MatchingCredentials(r.Context(), username, email)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(!usernameTaken, "username", "already taken")
	v.Check(!emailTaken, "email", "already taken")
	if v.IsValid() {
		// The colliding row vanished between the insert and this check.
		v.AddError("user", "already taken")
	}

	app.failedValidationResponse(w, r, v.Errors)
}

func (app *application) loginUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		User struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		} `json:"user"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.malformedRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.CheckNotBlank(input.User.Email, "email", "must be provided")
	v.CheckNotBlank(input.User.Password, "password", "must be provided")
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, err := app.core.GetUserByEmail(r.Context(), input.User.Email)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.errorResponse(w, r, http.StatusUnprocessableEntity, "no matching user found")
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	match, err := user.IsPasswordMatch(input.User.Password)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if !match {
		app.errorResponse(w, r, http.StatusUnprocessableEntity, "password does not match")
		return
	}

	token, err := app.auth.IssueToken(user.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	user.Token = token

	if err := app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := app.requestUser(w, r)
	if !ok {
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) updateCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := app.requestUser(w, r)
	if !ok {
		return
	}

	var input struct {
		User struct {
			Email    *string `json:"email"`
			Username *string `json:"username"`
			Password *string `json:"password"`
			Bio      *string `json:"bio"`
			Image    *string `json:"image"`
		} `json:"user"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.malformedRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if input.User.Email != nil {
		v.CheckNotBlank(*input.User.Email, "email", "must be provided")
		v.CheckEmail(*input.User.Email, "must be a valid email address")
	}
	if input.User.Username != nil {
		v.CheckNotBlank(*input.User.Username, "username", "must be provided")
		v.Check(len(*input.User.Username) <= 100, "username", "must not be more than 100 characters long")
	}
	if input.User.Password != nil {
		v.CheckNotBlank(*input.User.Password, "password", "must be provided")
		v.Check(len(*input.User.Password) >= 8, "password", "must be at least 8 characters long")
		v.Check(len(*input.User.Password) <= 72, "password", "must not be more than 72 characters long")
	}
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	changes := core.UserChanges{
		Email:    input.User.Email,
		Username: input.User.Username,
		Bio:      input.User.Bio,
		Image:    input.User.Image,
	}
	if input.User.Password != nil {
		var hashed auth.User
		if err := hashed.SetPassword(*input.User.Password); err != nil {
			app.internalErrorResponse(w, r, err)
			return
		}
		changes.PasswordHash = hashed.Password
	}

	updated, err := app.core.UpdateUser(r.Context(), user.ID, changes)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateEmail):
			v.AddError("email", "already taken")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, core.ErrDuplicateUsername):
			v.AddError("username", "already taken")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r, "user not found")
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	// The update response carries no token; Token stays empty so omitempty
	// drops the key.
	if err := app.writeJSON(w, http.StatusOK, envelope{"user": updated}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := app.requestUser(w, r)
	if !ok {
		return
	}

	if err := app.core.SoftDeleteUser(r.Context(), user.ID); err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r, "user not found")
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
