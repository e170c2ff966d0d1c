package deploy

import (
	"context"
	crand "crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// generateSecret returns length random bytes in the requested encoding.
func generateSecret(length int, encoding string) (string, error) {
	b := make([]byte, length)
	if _, err := crand.Read(b); err != nil {
		return "", fmt.Errorf("deploy: failed to generate secret: %w", err)
	}
	switch encoding {
	case "base64":
		return base64.StdEncoding.EncodeToString(b), nil
	case "hex":
		return hex.EncodeToString(b), nil
	default:
		return "", fmt.Errorf("deploy: unknown secret encoding %q", encoding)
	}
}

// Prepare generates cdk.context.json from the template with fresh secrets
// and writes the .env file with the caller's AWS account and region.
func (o *Orchestrator) Prepare(ctx context.Context) error {
	templateData, err := os.ReadFile(o.cfg.ContextTemplate)
	if err != nil {
		return fmt.Errorf("deploy: %s not found, run from the deployment directory: %w", o.cfg.ContextTemplate, err)
	}

	var cdkContext map[string]any
	if err := json.Unmarshal(templateData, &cdkContext); err != nil {
		return fmt.Errorf("deploy: invalid context template: %w", err)
	}

	o.printf("Generating secure values...")
	salt, err := generateSecret(32, "base64")
	if err != nil {
		return err
	}
	encryptionKey, err := generateSecret(32, "hex")
	if err != nil {
		return err
	}
	nextAuthSecret, err := generateSecret(32, "base64")
	if err != nil {
		return err
	}

	setEnvValue(cdkContext, "langfuse_worker_env", "SALT", salt)
	setEnvValue(cdkContext, "langfuse_worker_env", "ENCRYPTION_KEY", encryptionKey)
	setEnvValue(cdkContext, "langfuse_web_env", "SALT", salt)
	setEnvValue(cdkContext, "langfuse_web_env", "ENCRYPTION_KEY", encryptionKey)
	setEnvValue(cdkContext, "langfuse_web_env", "NEXTAUTH_SECRET", nextAuthSecret)

	if o.cfg.CostOptimized {
		cdkContext["database_config"] = map[string]any{
			"use_rds_instead_of_aurora": true,
			"instance_type":             "db.t4g.micro",
			"allocated_storage":         20,
			"storage_type":              "gp3",
			"multi_az":                  false,
			"backup_retention_days":     1,
			"engine_version":            "15.4",
		}
		cdkContext["ecs_fargate_spot"] = map[string]any{
			"enable_spot": true,
			"spot_weight": 100,
		}
		cdkContext["elasticache"] = map[string]any{
			"enabled": false,
		}
	}

	out, err := json.MarshalIndent(cdkContext, "", "  ")
	if err != nil {
		return fmt.Errorf("deploy: failed to marshal context: %w", err)
	}
	if err := os.WriteFile(ContextFile, out, 0o600); err != nil {
		return fmt.Errorf("deploy: failed to write %s: %w", ContextFile, err)
	}
	o.printf("✓ Created %s", ContextFile)

	return o.writeEnvFile(ctx)
}

// setEnvValue sets key in the named nested env map, creating it if the
// template omits it.
func setEnvValue(cdkContext map[string]any, section, key, value string) {
	env, ok := cdkContext[section].(map[string]any)
	if !ok {
		env = map[string]any{}
		cdkContext[section] = env
	}
	env[key] = value
}

// writeEnvFile resolves the AWS account and region and writes .env.
func (o *Orchestrator) writeEnvFile(ctx context.Context) error {
	account, err := o.run.Run(ctx, "aws", "sts", "get-caller-identity", "--query", "Account", "--output", "text")
	if err != nil {
		return fmt.Errorf("deploy: unable to determine AWS account, set CDK_DEFAULT_ACCOUNT manually: %w", err)
	}
	region := o.cfg.Region
	if region == "" {
		region, err = o.run.Run(ctx, "aws", "configure", "get", "region")
		if err != nil {
			return fmt.Errorf("deploy: unable to determine AWS region, set CDK_DEFAULT_REGION manually: %w", err)
		}
	}

	content := fmt.Sprintf("# AWS CDK Environment Variables\nCDK_DEFAULT_ACCOUNT=%s\nCDK_DEFAULT_REGION=%s\n", account, region)
	if err := os.WriteFile(EnvFile, []byte(content), 0o600); err != nil {
		return fmt.Errorf("deploy: failed to write %s: %w", EnvFile, err)
	}

	o.printf("✓ Created .env (account %s, region %s)", account, region)
	return nil
}
