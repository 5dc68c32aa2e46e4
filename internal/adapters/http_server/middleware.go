package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"review_analyzer/internal/adapters/observability"
)

const timeoutBody = `{"type":"about:blank","title":"Request timed out","status":503}`

// Timeout bounds the handler chain below it. Work already started by a
// handler is not rolled back when the deadline fires.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return http.TimeoutHandler(next, d, timeoutBody) }
}

// recorder captures the status and body size written by a handler.
type recorder struct {
	http.ResponseWriter
	status int
	bytes  int
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
	w.bytes += n
	return n, err
}

func (w *recorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

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
		rw := &recorder{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		observability.ObserveHTTP(routeOf(r), r.Method, rw.Status(), time.Since(start))
	})
}

type outcomeKey struct{}

// outcome is filled by handlers and read back by Logger once the handler
// returns.
type outcome struct{ value string }

// tagOutcome labels the access log line of r, e.g. "created" or
// "unknown_location". It is a no-op outside Logger.
func tagOutcome(r *http.Request, v string) {
	if o, ok := r.Context().Value(outcomeKey{}).(*outcome); ok {
		o.value = v
	}
}

func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &recorder{ResponseWriter: w}
			o := &outcome{}
			next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), outcomeKey{}, o)))

			ev := l.Info()
			if rw.Status() >= http.StatusInternalServerError {
				ev = l.Error()
			}
			if o.value != "" {
				ev = ev.Str("outcome", o.value)
			}
			ev.Str("route", routeOf(r)).
				Str("method", r.Method).
				Int("status", rw.Status()).
				Int("bytes", rw.bytes).
				Dur("duration", time.Since(start)).
				Str("remote", remoteHost(r.RemoteAddr)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("http_request")
		})
	}
}

// remoteHost strips the port. chimw.RealIP has already replaced RemoteAddr
// with the forwarded client address when one was sent.
func remoteHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	return addr
}
