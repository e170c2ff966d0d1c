package langfuse

import (
	"net/http"
	"strings"
	"time"
)

// Default configuration values.
const (
	// DefaultHost is used when neither config nor environment provide one.
	// It matches the host of a local docker-compose Langfuse deployment.
	DefaultHost = "http://localhost:3000"

	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default maximum number of retry attempts.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default initial delay between retry attempts.
	DefaultRetryDelay = 1 * time.Second

	// DefaultBatchSize is the default maximum number of events per
	// ingestion batch.
	DefaultBatchSize = 100

	// DefaultFlushInterval is the default interval for flushing pending
	// ingestion events.
	DefaultFlushInterval = 5 * time.Second

	// DefaultShutdownTimeout is the default graceful shutdown timeout.
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultPageLimit is the page size used by the ListAll helpers.
	DefaultPageLimit = 100
)

// Config holds the configuration for the Langfuse client.
type Config struct {
	// PublicKey is the Langfuse public key (required).
	PublicKey string

	// SecretKey is the Langfuse secret key (required).
	SecretKey string

	// Host is the Langfuse host, e.g. "http://localhost:3000" or
	// "https://cloud.langfuse.com". The "/api/public" prefix is added by
	// the client.
	Host string

	// HTTPClient is the HTTP client to use for requests.
	// If nil, a client with Timeout is used.
	HTTPClient *http.Client

	// Timeout is the per-request timeout. Defaults to 30 seconds.
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for retryable
	// failures. Defaults to 3.
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts; subsequent
	// delays back off exponentially. Defaults to 1 second.
	RetryDelay time.Duration

	// BatchSize is the maximum number of events per ingestion batch.
	// Defaults to 100.
	BatchSize int

	// FlushInterval is the interval at which pending ingestion events are
	// flushed. Defaults to 5 seconds.
	FlushInterval time.Duration

	// ShutdownTimeout bounds how long Shutdown waits for the drain.
	// Defaults to 10 seconds.
	ShutdownTimeout time.Duration

	// Logger is used for printf-style client logging. Optional.
	Logger Logger

	// StructuredLogger is used for structured client logging.
	// If set, it takes precedence over Logger.
	StructuredLogger StructuredLogger

	// Debug enables verbose request logging.
	Debug bool
}

// ConfigOption configures a Config.
type ConfigOption func(*Config)

// WithHost sets the Langfuse host.
func WithHost(host string) ConfigOption {
	return func(c *Config) { c.Host = host }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ConfigOption {
	return func(c *Config) { c.HTTPClient = client }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) { c.Timeout = timeout }
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) ConfigOption {
	return func(c *Config) { c.MaxRetries = n }
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) ConfigOption {
	return func(c *Config) { c.RetryDelay = d }
}

// WithBatchSize sets the maximum ingestion batch size.
func WithBatchSize(n int) ConfigOption {
	return func(c *Config) { c.BatchSize = n }
}

// WithFlushInterval sets the ingestion flush interval.
func WithFlushInterval(d time.Duration) ConfigOption {
	return func(c *Config) { c.FlushInterval = d }
}

// WithShutdownTimeout sets the graceful shutdown timeout.
func WithShutdownTimeout(d time.Duration) ConfigOption {
	return func(c *Config) { c.ShutdownTimeout = d }
}

// WithLogger sets a printf-style logger.
func WithLogger(l Logger) ConfigOption {
	return func(c *Config) { c.Logger = l }
}

// WithStructuredLogger sets a structured logger.
func WithStructuredLogger(l StructuredLogger) ConfigOption {
	return func(c *Config) { c.StructuredLogger = l }
}

// WithDebug enables verbose request logging.
func WithDebug(debug bool) ConfigOption {
	return func(c *Config) { c.Debug = debug }
}

// applyDefaults fills zero-valued fields with defaults.
func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	c.Host = strings.TrimSuffix(c.Host, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	} else if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = DefaultFlushInterval
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
}

// validate checks the configuration for required fields.
func (c *Config) validate() error {
	if c.PublicKey == "" {
		return ErrMissingPublicKey
	}
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.Host == "" {
		return ErrMissingHost
	}
	return nil
}
