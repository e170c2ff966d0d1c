package langfuse

import "os"

// Environment variable names read by NewFromEnv.
const (
	EnvPublicKey = "LANGFUSE_PUBLIC_KEY"
	EnvSecretKey = "LANGFUSE_SECRET_KEY"
	EnvHost      = "LANGFUSE_HOST"
)

// NewFromEnv creates a client from the LANGFUSE_PUBLIC_KEY,
// LANGFUSE_SECRET_KEY, and LANGFUSE_HOST environment variables.
// LANGFUSE_HOST falls back to DefaultHost when unset. Options are applied
// after the environment is read, so they can override it.
func NewFromEnv(opts ...ConfigOption) (*Client, error) {
	cfg := &Config{
		PublicKey: os.Getenv(EnvPublicKey),
		SecretKey: os.Getenv(EnvSecretKey),
		Host:      os.Getenv(EnvHost),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return NewWithConfig(cfg)
}
