package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/adityasissodiya/campuspodcastlite/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-request identifier on requests and responses.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by [RequestID], or "" if none.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID assigns every request a uuid, honouring a well-formed incoming X-Request-Id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = shared.GenerateID()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// Logging logs method, path, status, bytes written and latency for each request.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lw := &loggingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(lw, r)

			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", lw.status,
				"bytes", lw.written,
				"dur", time.Since(start).Round(time.Microsecond),
				"req_id", RequestIDFromContext(r.Context()),
			}
			if rng := r.Header.Get("Range"); rng != "" {
				kv = append(kv, "range", rng)
			}
			switch {
			case lw.status >= 500:
				logger.Error("request", kv...)
			case lw.status >= 400:
				logger.Warn("request", kv...)
			default:
				logger.Info("request", kv...)
			}
		})
	}
}

type loggingWriter struct {
	http.ResponseWriter
	status      int
	written     int64
	wroteHeader bool
}

func (w *loggingWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *loggingWriter) Write(p []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(p)
	w.written += int64(n)
	return n, err
}

// ReadFrom keeps the wrapped writer's sendfile path available to io.Copy.
func (w *loggingWriter) ReadFrom(src io.Reader) (int64, error) {
	w.wroteHeader = true
	n, err := io.Copy(w.ResponseWriter, src)
	w.written += n
	return n, err
}

// Unwrap exposes the underlying writer to [http.ResponseController].
func (w *loggingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Recover converts a panic in next into a 500 response. Register it after [Logging] so the
// recovered status is the one logged.
func Recover(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					logger.Error("panic serving request", "path", r.URL.Path, "panic", v, "req_id", RequestIDFromContext(r.Context()))
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit rejects requests with 429 once limiter is exhausted. When methods are given only those
// methods are counted. A nil limiter disables the middleware.
func RateLimit(limiter *rate.Limiter, methods ...string) Middleware {
	limited := make(map[string]bool, len(methods))
	for _, m := range methods {
		limited[strings.ToUpper(m)] = true
	}
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if (len(limited) == 0 || limited[r.Method]) && !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewUploadLimiter builds the limiter for [RateLimit] from config; a zero rate yields nil.
func NewUploadLimiter(c shared.UploadConfig) *rate.Limiter {
	if c.RatePerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.RatePerSecond), c.Burst)
}
