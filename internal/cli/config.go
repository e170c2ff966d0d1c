// Package cli carries the shared plumbing of the sample binaries:
// environment-driven configuration, zap logging, session and trace ID
// helpers, and console formatting.
package cli

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config is the environment configuration shared by the sample binaries.
type Config struct {
	LangfusePublicKey string `env:"LANGFUSE_PUBLIC_KEY"`
	LangfuseSecretKey string `env:"LANGFUSE_SECRET_KEY"`
	LangfuseHost      string `env:"LANGFUSE_HOST" envDefault:"http://localhost:3000"`

	BedrockModelID string `env:"BEDROCK_MODEL_ID" envDefault:"us.anthropic.claude-3-5-sonnet-20241022-v2:0"`
	BedrockRegion  string `env:"BEDROCK_REGION" envDefault:"us-east-1"`

	OllamaHost  string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	OllamaModel string `env:"OLLAMA_MODEL" envDefault:"llama3.1:8b"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// LoadConfig reads .env and cloud.env when present, then parses the
// environment. Missing dotenv files are not an error; real environment
// variables win over file values.
func LoadConfig() (*Config, error) {
	for _, file := range []string{".env", "cloud.env"} {
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Load(file); err != nil {
				return nil, fmt.Errorf("cli: failed to load %s: %w", file, err)
			}
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("cli: failed to parse environment: %w", err)
	}
	return cfg, nil
}

// RequireLangfuse returns an error naming the missing credentials when the
// Langfuse key pair is not configured.
func (c *Config) RequireLangfuse() error {
	if c.LangfusePublicKey == "" || c.LangfuseSecretKey == "" {
		return fmt.Errorf("cli: LANGFUSE_PUBLIC_KEY and LANGFUSE_SECRET_KEY must be set (check .env)")
	}
	return nil
}
