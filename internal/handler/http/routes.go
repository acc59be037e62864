package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Get("/api/catalog/*", h.catalogProxy)
	})

	// routes behind JWT auth
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/user/document/ensure", h.ensureDocument)

		r.Get("/api/user/bookmarks", h.getBookmarks)
		r.Put("/api/user/bookmarks/{mangaID}", h.addBookmark)
		r.Delete("/api/user/bookmarks/{mangaID}", h.removeBookmark)

		r.Get("/api/user/history", h.getHistory)
		r.Post("/api/user/history", h.upsertHistory)
		r.Delete("/api/user/history", h.clearHistory)
		r.Delete("/api/user/history/{mangaID}", h.removeHistory)
	})

	return router
}
