package deploy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default file names used by the orchestrator.
const (
	DefaultConfigFile      = "deploy.yaml"
	ContextTemplateFile    = "cdk.context.json.template"
	ContextFile            = "cdk.context.json"
	EnvFile                = ".env"
	CdkOutDir              = "cdk.out"
	DefaultWebStack        = "LangfuseWebECSServiceStack"
	loadBalancerOutputKey  = "LoadBalancerDNS"
	bootstrapToolkitStack  = "CDKToolkit"
)

// Config controls the deployment orchestrator. It is loaded from
// deploy.yaml when present; all fields have working defaults.
type Config struct {
	// WebStack is the CloudFormation stack exposing the Langfuse URL.
	WebStack string `yaml:"web_stack"`

	// Region overrides CDK_DEFAULT_REGION for stack queries.
	Region string `yaml:"region"`

	// ContextTemplate is the CDK context template path.
	ContextTemplate string `yaml:"context_template"`

	// CostOptimized applies the reduced-cost database and Fargate Spot
	// settings when generating the CDK context.
	CostOptimized bool `yaml:"cost_optimized"`
}

// DefaultConfig returns the orchestrator defaults.
func DefaultConfig() Config {
	return Config{
		WebStack:        DefaultWebStack,
		ContextTemplate: ContextTemplateFile,
		CostOptimized:   true,
	}
}

// LoadConfig reads deploy.yaml when present, falling back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("deploy: failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("deploy: invalid config %s: %w", path, err)
	}
	if cfg.WebStack == "" {
		cfg.WebStack = DefaultWebStack
	}
	if cfg.ContextTemplate == "" {
		cfg.ContextTemplate = ContextTemplateFile
	}
	return cfg, nil
}
