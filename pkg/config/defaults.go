package config

import "time"

// Default values for configuration fields.
const (
	// Git defaults
	DefaultGitDefaultLabel       = "main"
	DefaultGitTryMasterFallback  = true
	DefaultGitTimeoutSeconds     = 5
	DefaultGitRefreshRateSeconds = 0

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8888"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// CORS defaults
	DefaultCORSEnabled          = true
	DefaultCORSMaxAge           = 3600 // 1 hour
	DefaultCORSAllowCredentials = false

	// TLS defaults
	DefaultTLSEnabled        = false
	DefaultTLSMinVersion     = "1.3"
	DefaultTLSReloadInterval = "5m"

	// mTLS defaults
	DefaultMTLSClientAuthType = "require"
	DefaultMTLSIdentitySource = "subject.CN"

	// Logging defaults
	DefaultLoggingLevel      = "info"
	DefaultLoggingFormat     = "json"
	DefaultRedactSecrets     = true
	DefaultLoggingBufferSize = 10000

	// Metrics defaults
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "configserver"
	DefaultMetricsSubsystem = "git"

	// Health defaults
	DefaultHealthEnabled       = true
	DefaultHealthLivenessPath  = "/health"
	DefaultHealthReadinessPath = "/ready"
	DefaultHealthCheckTimeout  = 5 * time.Second

	// Secrets defaults
	DefaultSecretsCacheEnabled = true
	DefaultSecretsCacheTTL     = "5m"
	DefaultSecretsCacheMaxSize = 1000
)

// DefaultCORSAllowedOrigins, DefaultCORSAllowedMethods, etc. are slices
// and cannot be declared const; they are applied directly in ApplyDefaults.

// DefaultGitOpDurationBuckets are the histogram buckets (seconds) for git
// operation durations: clone/fetch/checkout calls typically land between
// 10ms and 30s.
var DefaultGitOpDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Git defaults
	if cfg.Git.DefaultLabel == "" {
		cfg.Git.DefaultLabel = DefaultGitDefaultLabel
	}
	// TryMasterFallback's zero value (false) is indistinguishable from an
	// explicit "false" in the file; defaulting it true here would stomp
	// on a deliberate false, so it is left for the operator to set.
	if cfg.Git.TimeoutSeconds == 0 {
		cfg.Git.TimeoutSeconds = DefaultGitTimeoutSeconds
	}
	if len(cfg.Git.SearchPaths) == 0 {
		cfg.Git.SearchPaths = []string{"{workingDir}"}
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	applyCORSDefaults(&cfg.Server.CORS)

	if cfg.Server.TLS.MinVersion == "" {
		cfg.Server.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Server.TLS.ReloadInterval == "" {
		cfg.Server.TLS.ReloadInterval = DefaultTLSReloadInterval
	}
	if cfg.Server.TLS.MTLS.ClientAuthType == "" {
		cfg.Server.TLS.MTLS.ClientAuthType = DefaultMTLSClientAuthType
	}
	if cfg.Server.TLS.MTLS.IdentitySource == "" {
		cfg.Server.TLS.MTLS.IdentitySource = DefaultMTLSIdentitySource
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Logging.BufferSize == 0 {
		cfg.Logging.BufferSize = DefaultLoggingBufferSize
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Metrics.GitOpDurationBuckets) == 0 {
		cfg.Metrics.GitOpDurationBuckets = DefaultGitOpDurationBuckets
	}

	// Health defaults
	if cfg.Health.LivenessPath == "" {
		cfg.Health.LivenessPath = DefaultHealthLivenessPath
	}
	if cfg.Health.ReadinessPath == "" {
		cfg.Health.ReadinessPath = DefaultHealthReadinessPath
	}
	if cfg.Health.CheckTimeout == 0 {
		cfg.Health.CheckTimeout = DefaultHealthCheckTimeout
	}

	// Secrets cache defaults
	if cfg.Secrets.Cache.TTL == "" {
		cfg.Secrets.Cache.TTL = DefaultSecretsCacheTTL
	}
	if cfg.Secrets.Cache.MaxSize == 0 {
		cfg.Secrets.Cache.MaxSize = DefaultSecretsCacheMaxSize
	}
}

func applyCORSDefaults(cors *CORSConfig) {
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
	}
	if len(cors.ExposedHeaders) == 0 {
		cors.ExposedHeaders = []string{"X-Request-ID"}
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}
}
