package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goconduit/conduit/internal/auth"
	"github.com/goconduit/conduit/internal/core"
	"github.com/goconduit/conduit/internal/database"
	"github.com/goconduit/conduit/internal/utils/collectionutils"
	"github.com/goconduit/conduit/internal/utils/functional"
	"github.com/goconduit/conduit/internal/validator"
	"github.com/goconduit/conduit/models"
)

type commentResponse struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Body      string          `json:"body"`
	Author    *models.Profile `json:"author"`
}

func (app *application) listComments(w http.ResponseWriter, r *http.Request) {
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

	comments, err := app.core.GetCommentsByArticleId(r.Context(), article.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	viewerID := app.viewerID(r)
	authorIDs := functional.Map(comments, func(c *models.Comment) int64 { return c.AuthorID })

	authors, err := app.core.GetUsersByIdList(r.Context(), authorIDs)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	following, err := app.core.FollowingSet(r.Context(), viewerID, authorIDs)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	profilesByID := collectionutils.Associate(authors, func(u *auth.User) (int64, *models.Profile) {
		return u.ID, &models.Profile{
			ID:        u.ID,
			Username:  u.Username,
			Bio:       u.Bio,
			Image:     u.Image,
			Following: following[u.ID],
		}
	})

	responses := functional.Map(comments, func(c *models.Comment) *commentResponse {
		return &commentResponse{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			Body:      c.Body,
			Author:    profilesByID[c.AuthorID],
		}
	})

	if err := app.writeJSON(w, http.StatusOK, envelope{"comments": responses}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) createComment(w http.ResponseWriter, r *http.Request) {
	user, ok := app.requestUser(w, r)
	if !ok {
		return
	}
	slug := app.routeParam(r, "slug")

	var input struct {
		Comment struct {
			Body string `json:"body"`
		} `json:"comment"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.malformedRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.CheckNotBlank(input.Comment.Body, "body", "must be provided")
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// The article lookup and the insert share a transaction so a concurrent
	// article delete cannot orphan the comment.
	created, err := database.DoTransactionally(r.Context(), app.session, func(txCtx context.Context) (*models.Comment, error) {
		article, err := app.core.GetArticleBySlug(txCtx, slug)
		if err != nil {
			return nil, err
		}
		return app.core.CreateComment(txCtx, &models.Comment{
			ArticleID: article.ID,
			AuthorID:  user.ID,
			Body:      input.Comment.Body,
		})
	})
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r, "article not found")
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	author, err := app.core.GetProfileByUserId(r.Context(), user.ID, user.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	response := &commentResponse{
		ID:        created.ID,
		CreatedAt: created.CreatedAt,
		UpdatedAt: created.UpdatedAt,
		Body:      created.Body,
		Author:    author,
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"comment": response}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := app.requestUser(w, r)
	if !ok {
		return
	}
	slug := app.routeParam(r, "slug")

	commentID, err := strconv.ParseInt(app.routeParam(r, "id"), 10, 64)
	if err != nil {
		app.notFoundResponse(w, r, "comment not found")
		return
	}

	if err := app.core.SoftDeleteComment(r.Context(), commentID, user.ID, slug); err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r, "comment not found")
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
