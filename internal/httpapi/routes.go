package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cthunline/cthunline-web-sub002/internal/hub"
	"github.com/cthunline/cthunline-web-sub002/internal/ws"
)

// Deps are the collaborators the routes need. Templates may be nil, in
// which case the template endpoints answer 503.
type Deps struct {
	Hub            *hub.Hub
	Templates      Templates
	AllowedOrigins []string
	Logger         *zap.Logger
	// Health, when set, is consulted by /healthz.
	Health func(ctx context.Context) error
}

func SetupRoutes(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz(d.Health))

	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", CreateRoom(d.Hub, d.Templates))
		r.Get("/{code}", GetRoom(d.Hub))
		r.Get("/{code}/ws", ws.Handler(d.Hub, d.AllowedOrigins, d.Logger))
		r.Get("/{code}/export.pdf", ExportRoom(d.Hub))
	})

	r.Route("/templates", func(r chi.Router) {
		r.Use(requireTemplates(d.Templates))
		r.Get("/", ListTemplates(d.Templates))
		r.Post("/", CreateTemplate(d.Templates, d.Hub))
		r.Get("/{id}", GetTemplate(d.Templates))
		r.Put("/{id}", UpdateTemplate(d.Templates))
		r.Delete("/{id}", DeleteTemplate(d.Templates))
	})
	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func requireTemplates(t Templates) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if t == nil {
				writeError(w, http.StatusServiceUnavailable, "templates are disabled")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
