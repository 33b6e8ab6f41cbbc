package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// APIKeyKey is the context key for API keys.
	APIKeyKey contextKey = "api_key"

	// UserKey is the context key for user identifiers.
	UserKey contextKey = "user"

	// RepositoryKey is the context key for the git repository URI.
	RepositoryKey contextKey = "repository"

	// ApplicationKey is the context key for the requested application name.
	ApplicationKey contextKey = "application"

	// ProfileKey is the context key for the requested profile.
	ProfileKey contextKey = "profile"

	// LabelKey is the context key for the requested label (branch, tag,
	// or commit).
	LabelKey contextKey = "label"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"

	// SpanIDKey is the context key for span IDs.
	SpanIDKey contextKey = "span_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithAPIKey adds an API key to the context.
func WithAPIKey(ctx context.Context, apiKey string) context.Context {
	return context.WithValue(ctx, APIKeyKey, apiKey)
}

// GetAPIKey retrieves the API key from the context.
func GetAPIKey(ctx context.Context) string {
	if apiKey, ok := ctx.Value(APIKeyKey).(string); ok {
		return apiKey
	}
	return ""
}

// WithUser adds a user identifier to the context.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// GetUser retrieves the user identifier from the context.
func GetUser(ctx context.Context) string {
	if user, ok := ctx.Value(UserKey).(string); ok {
		return user
	}
	return ""
}

// WithRepository adds the git repository URI to the context.
func WithRepository(ctx context.Context, repository string) context.Context {
	return context.WithValue(ctx, RepositoryKey, repository)
}

// GetRepository retrieves the git repository URI from the context.
func GetRepository(ctx context.Context) string {
	if repository, ok := ctx.Value(RepositoryKey).(string); ok {
		return repository
	}
	return ""
}

// WithApplication adds the requested application name to the context.
func WithApplication(ctx context.Context, application string) context.Context {
	return context.WithValue(ctx, ApplicationKey, application)
}

// GetApplication retrieves the requested application name from the context.
func GetApplication(ctx context.Context) string {
	if application, ok := ctx.Value(ApplicationKey).(string); ok {
		return application
	}
	return ""
}

// WithProfile adds the requested profile to the context.
func WithProfile(ctx context.Context, profile string) context.Context {
	return context.WithValue(ctx, ProfileKey, profile)
}

// GetProfile retrieves the requested profile from the context.
func GetProfile(ctx context.Context) string {
	if profile, ok := ctx.Value(ProfileKey).(string); ok {
		return profile
	}
	return ""
}

// WithLabel adds the requested label to the context.
func WithLabel(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, LabelKey, label)
}

// GetLabel retrieves the requested label from the context.
func GetLabel(ctx context.Context) string {
	if label, ok := ctx.Value(LabelKey).(string); ok {
		return label
	}
	return ""
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// WithSpanID adds a span ID to the context.
func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, SpanIDKey, spanID)
}

// GetSpanID retrieves the span ID from the context.
func GetSpanID(ctx context.Context) string {
	if spanID, ok := ctx.Value(SpanIDKey).(string); ok {
		return spanID
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	// Extract request ID
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	// Extract API key (will be redacted by logger if PII redaction is enabled)
	if apiKey := GetAPIKey(ctx); apiKey != "" {
		fields = append(fields, "api_key", apiKey)
	}

	// Extract user
	if user := GetUser(ctx); user != "" {
		fields = append(fields, "user", user)
	}

	// Extract repository
	if repository := GetRepository(ctx); repository != "" {
		fields = append(fields, "repository", repository)
	}

	// Extract application
	if application := GetApplication(ctx); application != "" {
		fields = append(fields, "application", application)
	}

	// Extract profile
	if profile := GetProfile(ctx); profile != "" {
		fields = append(fields, "profile", profile)
	}

	// Extract label
	if label := GetLabel(ctx); label != "" {
		fields = append(fields, "label", label)
	}

	// Extract trace ID
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, "trace_id", traceID)
	}

	// Extract span ID
	if spanID := GetSpanID(ctx); spanID != "" {
		fields = append(fields, "span_id", spanID)
	}

	return fields
}

// ContextLogger is a logger that automatically includes context fields.
type ContextLogger struct {
	logger *Logger
	ctx    context.Context
}

// NewContextLogger creates a logger that automatically includes context fields.
func NewContextLogger(logger *Logger, ctx context.Context) *ContextLogger {
	return &ContextLogger{
		logger: logger.WithContext(ctx),
		ctx:    ctx,
	}
}

// Debug logs a debug message with context fields.
func (cl *ContextLogger) Debug(msg string, args ...any) {
	cl.logger.DebugContext(cl.ctx, msg, args...)
}

// Info logs an info message with context fields.
func (cl *ContextLogger) Info(msg string, args ...any) {
	cl.logger.InfoContext(cl.ctx, msg, args...)
}

// Warn logs a warning message with context fields.
func (cl *ContextLogger) Warn(msg string, args ...any) {
	cl.logger.WarnContext(cl.ctx, msg, args...)
}

// Error logs an error message with context fields.
func (cl *ContextLogger) Error(msg string, args ...any) {
	cl.logger.ErrorContext(cl.ctx, msg, args...)
}

// With creates a new context logger with additional fields.
func (cl *ContextLogger) With(args ...any) *ContextLogger {
	return &ContextLogger{
		logger: cl.logger.With(args...),
		ctx:    cl.ctx,
	}
}
