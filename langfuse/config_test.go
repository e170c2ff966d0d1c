package langfuse

import (
	"errors"
	"testing"
	"time"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{
		PublicKey: "pk-lf-test",
		SecretKey: "sk-lf-test",
	}
	cfg.applyDefaults()

	if cfg.Host != DefaultHost {
		t.Errorf("Expected host %s, got %s", DefaultHost, cfg.Host)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Expected timeout %v, got %v", DefaultTimeout, cfg.Timeout)
	}
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("Expected %d retries, got %d", DefaultMaxRetries, cfg.MaxRetries)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("Expected batch size %d, got %d", DefaultBatchSize, cfg.BatchSize)
	}
}

func TestConfigApplyDefaultsNegativeRetries(t *testing.T) {
	cfg := &Config{MaxRetries: -1}
	cfg.applyDefaults()
	if cfg.MaxRetries != 0 {
		t.Errorf("Expected negative retries to normalize to 0, got %d", cfg.MaxRetries)
	}
}

func TestConfigHostTrailingSlash(t *testing.T) {
	cfg := &Config{Host: "http://localhost:3000/"}
	cfg.applyDefaults()
	if cfg.Host != "http://localhost:3000" {
		t.Errorf("Expected trailing slash trimmed, got %s", cfg.Host)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"missing public key", Config{SecretKey: "sk", Host: "h"}, ErrMissingPublicKey},
		{"missing secret key", Config{PublicKey: "pk", Host: "h"}, ErrMissingSecretKey},
		{"valid", Config{PublicKey: "pk", SecretKey: "sk", Host: "h"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := &Config{PublicKey: "pk", SecretKey: "sk"}
	for _, opt := range []ConfigOption{
		WithHost("http://example.com"),
		WithTimeout(5 * time.Second),
		WithMaxRetries(7),
		WithBatchSize(42),
		WithFlushInterval(time.Minute),
		WithDebug(true),
	} {
		opt(cfg)
	}

	if cfg.Host != "http://example.com" {
		t.Errorf("WithHost not applied: %s", cfg.Host)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("WithTimeout not applied: %v", cfg.Timeout)
	}
	if cfg.MaxRetries != 7 {
		t.Errorf("WithMaxRetries not applied: %d", cfg.MaxRetries)
	}
	if cfg.BatchSize != 42 {
		t.Errorf("WithBatchSize not applied: %d", cfg.BatchSize)
	}
	if cfg.FlushInterval != time.Minute {
		t.Errorf("WithFlushInterval not applied: %v", cfg.FlushInterval)
	}
	if !cfg.Debug {
		t.Error("WithDebug not applied")
	}
}

func TestNewRequiresKeys(t *testing.T) {
	if _, err := New("", "sk"); !errors.Is(err, ErrMissingPublicKey) {
		t.Errorf("Expected ErrMissingPublicKey, got %v", err)
	}
	if _, err := New("pk", ""); !errors.Is(err, ErrMissingSecretKey) {
		t.Errorf("Expected ErrMissingSecretKey, got %v", err)
	}
}
