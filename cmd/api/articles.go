package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goconduit/conduit/internal/auth"
	"github.com/goconduit/conduit/internal/core"
	"github.com/goconduit/conduit/internal/database"
	"github.com/goconduit/conduit/internal/filter"
	"github.com/goconduit/conduit/internal/utils/collectionutils"
	"github.com/goconduit/conduit/internal/utils/functional"
	"github.com/goconduit/conduit/internal/validator"
	"github.com/goconduit/conduit/models"
)

// createAttempts bounds the transaction retries when a generated slug
// collides; the failed insert aborts the transaction, so each attempt needs a
// fresh one.
const createAttempts = 5

type articleResponse struct {
	Slug           string          `json:"slug"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Body           string          `json:"body"`
	TagList        []string        `json:"tagList"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	Favorited      bool            `json:"favorited"`
	FavoritesCount int64           `json:"favoritesCount"`
	Author         *models.Profile `json:"author"`
}

// prepareMultiArticleResponse derives the client-facing shape for a page of
// articles with four batch queries: tags, favorite counts, the caller's
// favorites and the author profiles.
func (app *application) prepareMultiArticleResponse(ctx context.Context, viewerID int64, articles []*models.Article) ([]*articleResponse, error) {
	articleIDs := functional.Map(articles, func(a *models.Article) int64 { return a.ID })
	authorIDs := functional.Map(articles, func(a *models.Article) int64 { return a.AuthorID })

	tagsByArticle, err := app.core.GetTagsByArticleId(ctx, articleIDs)
	if err != nil {
		return nil, err
	}

	favoriteCounts, err := app.core.FavouriteCountByArticleId(ctx, articleIDs)
	if err != nil {
		return nil, err
	}

	favorited, err := app.core.FavouriteArticleByArticleId(ctx, articleIDs, viewerID)
	if err != nil {
		return nil, err
	}

	authors, err := app.core.GetUsersByIdList(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	following, err := app.core.FollowingSet(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
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

	responses := functional.Map(articles, func(a *models.Article) *articleResponse {
		return &articleResponse{
			Slug:           a.Slug,
			Title:          a.Title,
			Description:    a.Description,
			Body:           a.Body,
			TagList:        collectionutils.GetOrDefault(tagsByArticle, a.ID, []string{}),
			CreatedAt:      a.CreatedAt,
			UpdatedAt:      a.UpdatedAt,
			Favorited:      favorited[a.ID],
			FavoritesCount: collectionutils.GetOrDefault(favoriteCounts, a.ID, 0),
			Author:         profilesByID[a.AuthorID],
		}
	})

	return responses, nil
}

func (app *application) singleArticleResponse(w http.ResponseWriter, r *http.Request, status int, article *models.Article) {
	responses, err := app.prepareMultiArticleResponse(r.Context(), app.viewerID(r), []*models.Article{article})
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, status, envelope{"article": responses[0]}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) readFilters(r *http.Request, v *validator.Validator) filter.Filter {
	qs := r.URL.Query()
	filters := filter.NewFilter(
		app.readInt(qs, "limit", 20, v),
		app.readInt(qs, "offset", 0, v),
	)
	filter.ValidateFilters(filters, v)
	return filters
}

func (app *application) listArticles(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	filters := app.readFilters(r, v)
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	qs := r.URL.Query()
	tag := app.readString(qs, "tag", "")
	author := app.readString(qs, "author", "")
	favoritedBy := app.readString(qs, "favorited", "")

	articles, metadata, err := app.core.GetArticles(r.Context(), filters, tag, author, favoritedBy)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.multiArticleResponse(w, r, articles, metadata)
}

func (app *application) feedArticles(w http.ResponseWriter, r *http.Request) {
	user, ok := app.requestUser(w, r)
	if !ok {
		return
	}

	v := validator.New()
	filters := app.readFilters(r, v)
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	articles, metadata, err := app.core.GetFeedArticles(r.Context(), user.ID, filters)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.multiArticleResponse(w, r, articles, metadata)
}

func (app *application) multiArticleResponse(w http.ResponseWriter, r *http.Request, articles []*models.Article, metadata filter.Metadata) {
	responses, err := app.prepareMultiArticleResponse(r.Context(), app.viewerID(r), articles)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	data := envelope{
		"articles":      responses,
		"articlesCount": metadata.ArticlesCount,
	}
	if err := app.writeJSON(w, http.StatusOK, data, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) showArticle(w http.ResponseWriter, r *http.Request) {
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

	app.singleArticleResponse(w, r, http.StatusOK, article)
}

func (app *application) createArticle(w http.ResponseWriter, r *http.Request) {
	user, ok := app.requestUser(w, r)
	if !ok {
		return
	}

	var input struct {
		Article struct {
			Title       string   `json:"title"`
			Description string   `json:"description"`
			Body        string   `json:"body"`
			TagList     []string `json:"tagList"`
		} `json:"article"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.malformedRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.CheckNotBlank(input.Article.Title, "title", "must be provided")
	v.CheckNotBlank(input.Article.Description, "description", "must be provided")
	v.CheckNotBlank(input.Article.Body, "body", "must be provided")
	for _, name := range input.Article.TagList {
		v.CheckNotBlank(name, "tagList", "must not contain blank tags")
	}
	v.Check(v.IsUnique(input.Article.TagList), "tagList", "must not contain duplicate tags")
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	article := &models.Article{
		AuthorID:    user.ID,
		Title:       input.Article.Title,
		Description: input.Article.Description,
		Body:        input.Article.Body,
	}

	var created *models.Article
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		created, err = database.DoTransactionally(r.Context(), app.session, func(txCtx context.Context) (*models.Article, error) {
			return app.core.CreateArticle(txCtx, article, input.Article.TagList)
		})
		if err == nil || !errors.Is(err, core.ErrDuplicatedSlug) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, core.ErrDuplicatedSlug) {
			app.errorResponse(w, r, http.StatusUnprocessableEntity, "title produces a slug that is already taken")
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	app.singleArticleResponse(w, r, http.StatusCreated, created)
}

func (app *application) updateArticle(w http.ResponseWriter, r *http.Request) {
	user, ok := app.requestUser(w, r)
	if !ok {
		return
	}
	slug := app.routeParam(r, "slug")

	var input struct {
		Article struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
			Body        *string `json:"body"`
		} `json:"article"`
	}

	if err := app.readJSON(w, r, &input); err != nil {
		app.malformedRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if input.Article.Title != nil {
		v.CheckNotBlank(*input.Article.Title, "title", "must be provided")
	}
	if input.Article.Description != nil {
		v.CheckNotBlank(*input.Article.Description, "description", "must be provided")
	}
	if input.Article.Body != nil {
		v.CheckNotBlank(*input.Article.Body, "body", "must be provided")
	}
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	changes := core.ArticleChanges{
		Title:       input.Article.Title,
		Description: input.Article.Description,
		Body:        input.Article.Body,
	}

	updated, err := app.core.UpdateArticle(r.Context(), slug, user.ID, changes)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r, "article not found")
		case errors.Is(err, core.ErrDuplicatedSlug):
			app.errorResponse(w, r, http.StatusUnprocessableEntity, "title produces a slug that is already taken")
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	app.singleArticleResponse(w, r, http.StatusOK, updated)
}

func (app *application) deleteArticle(w http.ResponseWriter, r *http.Request) {
	user, ok := app.requestUser(w, r)
	if !ok {
		return
	}
	slug := app.routeParam(r, "slug")

	if err := app.core.SoftDeleteArticle(r.Context(), slug, user.ID); err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r, "article not found")
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
