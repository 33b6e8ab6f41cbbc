package config

import "time"

// Config is the root configuration structure for the configuration server.
// It contains the git-backed repository settings, the encryption service
// settings, and the ambient HTTP/telemetry/security sections.
type Config struct {
	// Git contains the backing git repository configuration: URI,
	// checkout location, default label, and synchronisation policy.
	Git GitConfig `yaml:"git"`

	// Encrypt contains the encryption service's key material configuration.
	Encrypt EncryptConfig `yaml:"encrypt"`

	// Server contains HTTP server configuration including listen address,
	// timeouts, and TLS settings.
	Server ServerConfig `yaml:"server"`

	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Health contains health check endpoint configuration.
	Health HealthConfig `yaml:"health"`

	// Secrets contains configuration for sourcing git credentials and
	// encryption key material from outside the YAML file.
	Secrets SecretsConfig `yaml:"secrets"`
}

// GitConfig mirrors the environment repository's RepositoryConfig.
type GitConfig struct {
	// URI is the remote repository location.
	// Scheme must be one of http, https, ssh, or file.
	URI string `yaml:"uri"`

	// Basedir is the local filesystem directory the repository is cloned
	// into. Ignored for file: URIs, where the remote path is used in place.
	// No default: validation requires it for every non-file URI.
	Basedir string `yaml:"basedir"`

	// WorkingDirectory overrides Basedir as the checked-out tree location.
	// Defaults to Basedir when empty.
	WorkingDirectory string `yaml:"working_directory"`

	// DefaultLabel is the label used when a request does not name one.
	// Default: "main"
	DefaultLabel string `yaml:"default_label"`

	// TryMasterFallback retries with "master" when DefaultLabel is "main"
	// and checkout of "main" fails.
	// Not defaulted: an omitted field is false, which turns the fallback off.
	TryMasterFallback bool `yaml:"try_master_branch"`

	// TimeoutSeconds bounds every git transport operation (clone/fetch).
	// Default: 5
	TimeoutSeconds int `yaml:"timeout"`

	// RefreshRateSeconds controls the pull debounce: negative disables
	// pulling entirely, zero always pulls, positive debounces by that
	// many seconds.
	// Default: 0
	RefreshRateSeconds int `yaml:"refresh_rate"`

	// CloneOnStart clones the repository eagerly at startup rather than
	// on first request.
	// Default: false
	CloneOnStart bool `yaml:"clone_on_start"`

	// ForcePull discards local working-tree modifications in favour of
	// the remote state when the tree is dirty.
	// Default: false
	ForcePull bool `yaml:"force_pull"`

	// DeleteUntrackedBranches removes local branches whose remote
	// counterpart was deleted, after every fetch.
	// Default: false
	DeleteUntrackedBranches bool `yaml:"delete_untracked_branches"`

	// SkipSslValidation disables certificate verification on the git
	// transport. Only meaningful for https/ssh URIs.
	// Default: false
	SkipSslValidation bool `yaml:"skip_ssl_validation"`

	// CloneSubmodules recurses into submodules on clone.
	// Default: false
	CloneSubmodules bool `yaml:"clone_submodules"`

	// Username is the explicit HTTPS username. Embedded user:pass@host
	// credentials in URI are used only when this is empty.
	Username string `yaml:"username"`

	// Password is the explicit HTTPS password or personal access token.
	Password string `yaml:"password"`

	// Passphrase unlocks an encrypted SSH private key.
	Passphrase string `yaml:"passphrase"`

	// SSHKeyPath is the private key file used for ssh:// URIs.
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SearchPaths are templates substituted with {application}, {profile},
	// and {label} to compute the ordered search locations within the
	// working tree. Default: ["{workingDir}"]
	SearchPaths []string `yaml:"search_paths"`
}

// EncryptConfig configures the encryption service's key material.
type EncryptConfig struct {
	// Key is a raw symmetric passphrase, or a PEM-encoded RSA private key,
	// supplied inline. Mutually exclusive with KeyStore.
	Key string `yaml:"key"`

	// KeyStore configures loading an RSA key pair from a keystore file.
	KeyStore KeyStoreConfig `yaml:"key_store"`
}

// KeyStoreConfig configures a key file on disk. The file is read as the
// same PEM (or raw passphrase) key material accepted for Key; keystore
// formats such as PKCS12 or JKS are not parsed.
type KeyStoreConfig struct {
	// Location is the filesystem path to the key file.
	Location string `yaml:"location"`

	// Password is accepted in configuration but not used when the key
	// file is loaded.
	Password string `yaml:"password"`

	// Alias is accepted in configuration but not used when the key file
	// is loaded.
	Alias string `yaml:"alias"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Default: "127.0.0.1:8888"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request when
	// keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes caps request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`

	// TLS contains TLS configuration for the server.
	TLS TLSConfig `yaml:"tls"`
}

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	// Enabled controls whether CORS is enabled.
	// Not defaulted: an omitted field is false and no CORS headers are added.
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers.
	// Default: ["Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache duration in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether credentials are allowed.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// TLSConfig contains TLS configuration.
type TLSConfig struct {
	// Enabled controls whether TLS is enabled for the server.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the TLS certificate file.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the TLS private key file.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version to accept.
	// Options: "1.2", "1.3"
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`

	// CipherSuites is a list of enabled TLS cipher suites. If empty, a
	// fixed secure default set is used.
	CipherSuites []string `yaml:"cipher_suites"`

	// ReloadInterval is how often the certificate and key files are
	// checked for changes and reloaded without a server restart.
	// Format: "5m", "1h". Default: "5m".
	ReloadInterval string `yaml:"cert_reload_interval"`

	// MTLS contains mutual TLS (client certificate authentication)
	// configuration.
	MTLS MTLSConfig `yaml:"mtls"`
}

// MTLSConfig contains mutual TLS configuration for the server.
type MTLSConfig struct {
	// Enabled controls whether client certificate authentication is
	// required for incoming connections.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ClientCAFile is the path to the PEM-encoded CA certificate used
	// to verify client certificates.
	ClientCAFile string `yaml:"client_ca_file"`

	// ClientAuthType controls how client certificates are handled:
	// "require", "request", or "verify_if_given".
	// Default: "require"
	ClientAuthType string `yaml:"client_auth_type"`

	// IdentitySource selects which certificate field is logged as the
	// caller's identity: "subject.CN", "subject.OU", "subject.O", or
	// "SAN".
	// Default: "subject.CN"
	IdentitySource string `yaml:"identity_source"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets enables automatic redaction of git credentials and
	// encryption key material in log output.
	// Not defaulted: an omitted field is false.
	RedactSecrets bool `yaml:"redact_secrets"`

	// BufferSize is the size of the async log buffer used by the
	// structured logger. Logs are written asynchronously to avoid
	// blocking request handling.
	// Default: 10000
	BufferSize int `yaml:"buffer_size"`

	// RedactPatterns contains custom PII/secret redaction patterns to add
	// on top of the logger's built-in ones.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom log-redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Not defaulted: an omitted field is false and the collector records
	// nothing.
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "configserver"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "git"
	Subsystem string `yaml:"subsystem"`

	// GitOpDurationBuckets defines histogram buckets for git operation
	// durations (seconds).
	// Default: [0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30]
	GitOpDurationBuckets []float64 `yaml:"git_op_duration_buckets"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// Enabled is parsed but not read: the health endpoints are served
	// whenever a health checker is passed to httpapi.NewServer.
	Enabled bool `yaml:"enabled"`

	// LivenessPath is the path for the liveness probe endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness probe endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout is the timeout for individual component health checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}

// SecretsConfig contains secret management configuration for sourcing
// git credentials and encryption key material outside the YAML file.
type SecretsConfig struct {
	// Providers is a list of secret providers to use, tried in order
	// until one successfully returns a value.
	Providers []SecretProviderConfig `yaml:"providers"`

	// Cache contains secret caching configuration.
	Cache SecretsCacheConfig `yaml:"cache"`
}

// SecretProviderConfig contains configuration for a single secret provider.
type SecretProviderConfig struct {
	// Type is the provider type.
	// Options: "env", "file"
	Type string `yaml:"type"`

	// Enabled controls whether this provider is active. Like
	// GitConfig.TryMasterFallback, this has no safe zero-value default
	// (an omitted field is indistinguishable from an explicit false), so
	// every provider entry must set it explicitly.
	Enabled bool `yaml:"enabled"`

	// Prefix is the environment variable prefix (for the "env" provider).
	// Example: "CONFIGSERVER_SECRET_"
	Prefix string `yaml:"prefix,omitempty"`

	// Path is the base directory for file-based secrets (for the "file"
	// provider).
	Path string `yaml:"path,omitempty"`
}

// SecretsCacheConfig contains configuration for secret caching.
type SecretsCacheConfig struct {
	// Enabled controls whether secret caching is enabled.
	// Not defaulted: an omitted field is false and secrets are not cached.
	Enabled bool `yaml:"enabled"`

	// TTL is the time-to-live for cached secrets.
	// Default: "5m"
	TTL string `yaml:"ttl"`

	// MaxSize is the maximum number of secrets to cache.
	// Default: 1000
	MaxSize int `yaml:"max_size"`
}
