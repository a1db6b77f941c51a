package daemon

import (
	"log/slog"
	"net/http"
	"time"

	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
	"git.home.luguber.info/inful/refreshd/internal/logfields"
)

// loggingMiddleware logs method, path, status and duration at debug level;
// the admin API is polled by the UI.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		slog.Debug("Admin request",
			logfields.Method(r.Method),
			logfields.Path(r.URL.Path),
			logfields.Status(wrapped.statusCode),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	})
}

// panicRecoveryMiddleware turns a handler panic into a structured 500.
func panicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("Admin handler panic",
					slog.Any("panic", rec),
					logfields.Method(r.Method),
					logfields.Path(r.URL.Path))
				writeError(w, ferrors.InternalError("internal server error").
					WithContext("path", r.URL.Path).
					Build())
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// responseWriter captures status codes for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
