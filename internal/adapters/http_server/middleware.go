package httpserver

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"hotel_search/internal/adapters/observability"
)

// Timeout answers 503 with the failure envelope when a handler runs past d.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	msg, _ := json.Marshal(failure{Error: "Tempo esgotado", Message: "request timed out after " + d.String()})
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, string(msg))
	}
}

// recorder remembers the status and body size written through it.
type recorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *recorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *recorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (w *recorder) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// routeOf prefers the chi pattern so /api/hotels/{id} is one metric series.
func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &recorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		observability.ObserveHTTP(routeOf(r), r.Method, rec.code(), time.Since(start))
	})
}

// Logger writes one line per request. Hotel queries also log how many filter
// dimensions were active and the requested page window.
func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			route := routeOf(r)
			ev := l.Info()
			switch {
			case rec.code() >= http.StatusInternalServerError:
				ev = l.Error()
			case rec.code() >= http.StatusBadRequest:
				ev = l.Warn()
			}
			ev = ev.
				Str("request_id", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("route", route).
				Int("status", rec.code()).
				Int("bytes", rec.size).
				Dur("took", time.Since(start)).
				Str("client", clientIP(r))

			if strings.HasPrefix(route, "/api/hotels/search") || strings.HasPrefix(route, "/api/hotels/filtered") {
				v := r.URL.Query()
				if f, err := parseFilters(v); err == nil {
					ev = ev.Int("filters", f.ActiveCount())
				}
				if s := v.Get("offset"); s != "" {
					ev = ev.Str("offset", s)
				}
				if s := v.Get("limit"); s != "" {
					ev = ev.Str("limit", s)
				}
			}
			ev.Msg("request")
		})
	}
}

// clientIP strips the port; chimw.RealIP has already applied the proxy headers.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
