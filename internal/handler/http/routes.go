package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, withGZip, middleware.Recoverer)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)

		r.Get("/api/version/", h.getServerVersion)
		r.Get("/api/version/build", h.getBuildInfo)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/documents", func(r chi.Router) {
			r.With(h.checkIntegrity).Post("/batch", h.batchDocuments)

			r.Route("/{collection}", func(r chi.Router) {
				r.Post("/query", h.queryDocuments)
				r.With(h.checkIntegrity).Post("/", h.createDocument)

				r.Get("/{id}", h.getDocument)
				r.With(h.checkIntegrity).Patch("/{id}", h.updateDocument)
				r.Delete("/{id}", h.deleteDocument)
			})
		})

		r.Route("/api/blobs", func(r chi.Router) {
			r.With(h.checkIntegrity).Put("/*", h.uploadBlob)
			r.Get("/*", h.downloadBlob)
			r.Delete("/*", h.deleteBlob)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
