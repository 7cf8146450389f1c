package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gotopub/gotopub/internal/observability"
)

// requestLogger logs one line per request and observes its duration.
// Client errors log at info, server errors at error.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.RecordRequest(route, ww.Status(), time.Since(start).Seconds())

		logger := observability.WithRequestContext(s.logger, middleware.GetReqID(r.Context()), r.Method, r.URL.Path)
		var event *zerolog.Event
		switch status := ww.Status(); {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Info()
		default:
			event = logger.Debug()
		}
		event.
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
