package middleware

import (
	"context"
	"net/http"
	"time"

	securitytls "configserver/pkg/security/tls"
	"configserver/pkg/telemetry/logging"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// newResponseWriter creates a new response writer wrapper.
func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // Default to 200
	}
}

// WriteHeader captures the status code before writing.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

// Write ensures WriteHeader is called if not already done.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// LoggingMiddleware logs HTTP requests and responses with structured logging.
// It records method, path, status code, latency, request ID, and other metadata.
//
// Log format (JSON):
//
//	{
//	  "time": "2025-11-16T10:30:00Z",
//	  "level": "INFO",
//	  "msg": "request completed",
//	  "method": "GET",
//	  "path": "/myapp/default/main",
//	  "status": 200,
//	  "latency_ms": 45,
//	  "request_id": "a1b2c3d4...",
//	  "user_agent": "Go-http-client/1.1",
//	  "remote_addr": "192.168.1.100:54321"
//	}
//
// identitySource selects which field of a client certificate is logged as
// client_identity for mTLS requests ("subject.CN", "subject.OU",
// "subject.O", or "SAN"); requests without a client certificate omit the
// field. See configserver/pkg/security/tls.ExtractClientIdentity.
//
// Example usage:
//
//	handler = LoggingMiddleware(log, "subject.CN")(handler)
func LoggingMiddleware(log *logging.Logger, identitySource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Record start time
			startTime := time.Now()
			ctx := context.WithValue(r.Context(), StartTimeKey, startTime)

			// Wrap response writer to capture status code
			rw := newResponseWriter(w)

			// Log request start (debug level)
			requestID := GetRequestID(ctx)
			log.DebugContext(ctx, "request started",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", requestID,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)

			// Call next handler
			next.ServeHTTP(rw, r.WithContext(ctx))

			// Calculate latency
			latency := time.Since(startTime)

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"latency_ms", latency.Milliseconds(),
				"request_id", requestID,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			}
			if identity := securitytls.GetClientIdentity(r, identitySource); identity != "" {
				fields = append(fields, "client_identity", identity)
			}

			switch {
			case rw.statusCode >= 500:
				log.ErrorContext(ctx, "request completed", fields...)
			case rw.statusCode >= 400:
				log.WarnContext(ctx, "request completed", fields...)
			default:
				log.InfoContext(ctx, "request completed", fields...)
			}
		})
	}
}

// GetStartTime extracts the request start time from the context.
// Returns zero time if not found.
func GetStartTime(ctx context.Context) time.Time {
	if startTime, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return startTime
	}
	return time.Time{}
}
