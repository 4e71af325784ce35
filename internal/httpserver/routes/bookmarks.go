package routes

import (
	"github.com/go-chi/chi/v5"

	"showshelf/internal/httpserver/deps"
	"showshelf/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.Post("/", handlers.AddBookmark(d))
		r.Post("/refresh", handlers.Refresh(d))
		r.Get("/{kind}/{id}", handlers.BookmarkStatus(d))
		r.Delete("/{kind}/{id}", handlers.RemoveBookmark(d))
	})
}
