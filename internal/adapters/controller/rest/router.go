package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router wires the card editing surface and the public card view. When
// filesRoot is non-empty the generated artifacts are served from it under
// /files, matching the disk store's public base URL.
func Router(h *Handler, filesRoot string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/v1/cards", func(r chi.Router) {
		r.Post("/", h.createCard)
		r.Get("/", h.listCards)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getCard)
			r.Put("/", h.saveCard)
			r.Post("/publish", h.publishCard)
			r.Post("/share-code", h.shareCode)
			r.Route("/qr", func(r chi.Router) {
				r.Post("/", h.regenerateQR)
				r.Get("/preview", h.previewQR)
				r.Get("/download", h.downloadQR)
			})
		})
	})

	r.Get("/c/{slug}", h.viewCard)

	if filesRoot != "" {
		fileServer := http.StripPrefix("/files/", http.FileServer(http.Dir(filesRoot)))
		r.Get("/files/*", fileServer.ServeHTTP)
	}

	return r
}
