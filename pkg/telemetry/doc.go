// Package telemetry groups the configuration server's observability
// packages.
//
// # Components
//
//   - logging: structured slog-based logging with secret redaction and
//     context-propagated request fields
//   - metrics: Prometheus metrics for git operations, pulls, and the
//     encryption service
//   - health: liveness/readiness checks and their HTTP handlers
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	ctxLogger := logging.NewContextLogger(logger, ctx)
//	collector := metrics.NewCollector(&cfg.Metrics, nil)
//	checker := health.New(cfg.Health.CheckTimeout)
//
// # Secret redaction
//
// Logging redacts sensitive values before they reach the log sink:
//
//   - API keys and bearer tokens
//   - Emails, SSNs, credit card numbers
//   - git passwords and encryption key material tagged with a sensitive
//     field name (password, secret, token, private_key, ...)
//
// Custom redaction patterns can be configured.
package telemetry
