package main

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/julienschmidt/httprouter"
)

type route struct {
	method  string
	path    string
	policy  routePolicy
	handler http.HandlerFunc
}

func (app *application) routes() http.Handler {
	router := httprouter.New()

	routes := []route{
		{http.MethodPost, "/api/users", authNone, app.registerUser},
		{http.MethodPost, "/api/users/login", authNone, app.loginUser},
		{http.MethodGet, "/api/user", authRequired, app.getCurrentUser},
		{http.MethodPut, "/api/user", authRequired, app.updateCurrentUser},
		{http.MethodDelete, "/api/user", authRequired, app.deleteCurrentUser},

		{http.MethodGet, "/api/profiles/:username", authOptional, app.showProfile},
		{http.MethodPost, "/api/profiles/:username/follow", authRequired, app.followUser},
		{http.MethodDelete, "/api/profiles/:username/follow", authRequired, app.unfollowUser},

		{http.MethodGet, "/api/articles", authOptional, app.listArticles},
		{http.MethodPost, "/api/articles", authRequired, app.createArticle},
		{http.MethodPut, "/api/articles/:slug", authRequired, app.updateArticle},
		{http.MethodDelete, "/api/articles/:slug", authRequired, app.deleteArticle},

		{http.MethodGet, "/api/articles/:slug/comments", authOptional, app.listComments},
		{http.MethodPost, "/api/articles/:slug/comments", authRequired, app.createComment},
		{http.MethodDelete, "/api/articles/:slug/comments/:id", authRequired, app.deleteComment},

		{http.MethodPost, "/api/articles/:slug/favorite", authRequired, app.favoriteArticle},
		{http.MethodDelete, "/api/articles/:slug/favorite", authRequired, app.unfavoriteArticle},

		{http.MethodGet, "/api/tags", authNone, app.listTags},
	}

	for _, rt := range routes {
		router.Handler(rt.method, rt.path, app.authenticate(rt.policy, rt.handler))
	}

	// httprouter refuses the static /api/articles/feed path next to the
	// /api/articles/:slug wildcard, so the feed is dispatched off the slug
	// value instead.
	feed := app.authenticate(authRequired, app.feedArticles)
	show := app.authenticate(authOptional, app.showArticle)
	router.Handler(http.MethodGet, "/api/articles/:slug", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if httprouter.ParamsFromContext(r.Context()).ByName("slug") == "feed" {
			feed.ServeHTTP(w, r)
			return
		}
		show.ServeHTTP(w, r)
	}))

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.notFoundResponse(w, r, "the requested resource could not be found")
	})
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return app.recoverPanic(corsHandler(router))
}

func (app *application) routeParam(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}
