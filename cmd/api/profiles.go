package main

import (
	"errors"
	"net/http"

	"github.com/goconduit/conduit/internal/core"
)

func (app *application) showProfile(w http.ResponseWriter, r *http.Request) {
	username := app.routeParam(r, "username")

	profile, err := app.core.GetProfile(r.Context(), app.viewerID(r), username)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r, "profile not found")
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"profile": profile}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) followUser(w http.ResponseWriter, r *http.Request) {
	user, ok := app.requestUser(w, r)
	if !ok {
		return
	}
	username := app.routeParam(r, "username")

	profile, err := app.core.FollowUser(r.Context(), user, username)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r, "profile not found")
		case errors.Is(err, core.ErrSelfFollow):
			app.errorResponse(w, r, http.StatusUnprocessableEntity, "cannot follow yourself")
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"profile": profile}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) unfollowUser(w http.ResponseWriter, r *http.Request) {
	user, ok := app.requestUser(w, r)
	if !ok {
		return
	}
	username := app.routeParam(r, "username")

	profile, err := app.core.UnfollowUser(r.Context(), user, username)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r, "profile not found")
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"profile": profile}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
