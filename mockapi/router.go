// Package mockapi is an in-process imitation of the JSONPlaceholder API. It serves generated data
// with the same resource shapes and the same quirks as the real service, so the suite can run
// without network access.
package mockapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jsonplaceholder-qa/api-contract-tests/logging"
)

// Handler holds all API handler state.
type Handler struct {
	store  *Store
	logger logging.Logger
}

func NewHandler(store *Store, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &Handler{store: store, logger: logger}
}

// NewRouter returns a complete router serving store.
func NewRouter(store *Store, logger logging.Logger) http.Handler {
	h := NewHandler(store, logger)
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(h.requestLog)
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)
	h.Routes(r)
	return r
}

// Routes mounts one set of routes per resource collection.
func (h *Handler) Routes(r chi.Router) {
	for _, res := range resources {
		res := res
		r.Route("/"+res.name, func(r chi.Router) {
			r.Get("/", h.list(res.name))
			r.Post("/", h.create(res.name))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.get(res.name))
				r.Put("/", h.replace(res.name))
				r.Patch("/", h.update(res.name))
				r.Delete("/", h.remove)
				for child, foreignKey := range res.children {
					r.Get("/"+child, h.nested(child, foreignKey))
				}
			})
		})
	}
}

func (h *Handler) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Printf("mock: %s %s -> %d (%s)", r.Method, r.URL.RequestURI(), ww.Status(), time.Since(start))
	})
}
