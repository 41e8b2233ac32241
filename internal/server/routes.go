package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the JSON API and the export endpoint
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/health", handler(s.getHealth))
	r.Get("/export", handler(s.getExport))

	r.Route("/api", func(r chi.Router) {
		r.Get("/dictionaries", handler(s.getDictionaries))
		r.Get("/status", handler(s.getStatus))
		r.Post("/check", handler(s.postCheck))

		r.Route("/filters", func(r chi.Router) {
			r.Get("/", handler(s.getFilters))
			r.Post("/", handler(s.postFilters))
		})

		r.Route("/lots", func(r chi.Router) {
			r.Get("/", handler(s.getLots))
			r.Get("/{lotNumber}", handler(s.getLot))
			r.Get("/{lotNumber}/history", handler(s.getLotHistory))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			replyError(w, r, err)
		}
	}
}
