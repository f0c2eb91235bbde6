package main

import (
	"errors"
	"net/http"

	"github.com/goconduit/conduit/internal/core"
)

func (app *application) favoriteArticle(w http.ResponseWriter, r *http.Request) {
	user, ok := app.requestUser(w, r)
	if !ok {
		return
	}
	slug := app.routeParam(r, "slug")

	article, err := app.core.GetArticleBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r, "article not found")
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.core.FavouriteArticle(r.Context(), article.ID, user.ID); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.singleArticleResponse(w, r, http.StatusOK, article)
}

func (app *application) unfavoriteArticle(w http.ResponseWriter, r *http.Request) {
	user, ok := app.requestUser(w, r)
	if !ok {
		return
	}
	slug := app.routeParam(r, "slug")

	article, err := app.core.GetArticleBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r, "article not found")
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.core.UnfavouriteArticle(r.Context(), article.ID, user.ID); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.singleArticleResponse(w, r, http.StatusOK, article)
}
