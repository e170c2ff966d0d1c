package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records commands and serves canned responses keyed on the
// command name plus its first argument.
type fakeRunner struct {
	responses map[string]string
	errs      map[string]error
	streams   map[string][]string
	calls     []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		responses: map[string]string{},
		errs:      map[string]error{},
		streams:   map[string][]string{},
	}
}

func key(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + args[0]
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	k := key(name, args)
	f.calls = append(f.calls, k)
	if err, ok := f.errs[k]; ok {
		return "", err
	}
	return f.responses[k], nil
}

func (f *fakeRunner) Stream(ctx context.Context, onLine func(string), name string, args ...string) error {
	k := key(name, args)
	f.calls = append(f.calls, k)
	for _, line := range f.streams[k] {
		onLine(line)
	}
	return f.errs[k]
}

func newTestOrchestrator(run Runner) (*Orchestrator, *bytes.Buffer) {
	var out bytes.Buffer
	return NewOrchestrator(run, &out, DefaultConfig()), &out
}

func TestPrepareGeneratesSecretsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	template := map[string]any{
		"langfuse_web_env":    map[string]any{"LANGFUSE_ENABLE_EXPERIMENTAL_FEATURES": "true"},
		"langfuse_worker_env": map[string]any{},
	}
	data, err := json.Marshal(template)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(ContextTemplateFile, data, 0o600))

	run := newFakeRunner()
	run.responses["aws sts"] = "123456789012"
	run.responses["aws configure"] = "us-east-1"

	o, _ := newTestOrchestrator(run)
	require.NoError(t, o.Prepare(context.Background()))

	out, err := os.ReadFile(ContextFile)
	require.NoError(t, err)
	var cdkContext map[string]any
	require.NoError(t, json.Unmarshal(out, &cdkContext))

	web := cdkContext["langfuse_web_env"].(map[string]any)
	worker := cdkContext["langfuse_worker_env"].(map[string]any)

	assert.NotEmpty(t, web["SALT"])
	assert.NotEmpty(t, web["ENCRYPTION_KEY"])
	assert.NotEmpty(t, web["NEXTAUTH_SECRET"])
	assert.Equal(t, web["SALT"], worker["SALT"])
	assert.Equal(t, web["ENCRYPTION_KEY"], worker["ENCRYPTION_KEY"])
	// The template's existing values survive.
	assert.Equal(t, "true", web["LANGFUSE_ENABLE_EXPERIMENTAL_FEATURES"])

	// The hex encryption key is 32 bytes.
	assert.Len(t, web["ENCRYPTION_KEY"], 64)

	// Cost optimized settings are applied by default.
	db := cdkContext["database_config"].(map[string]any)
	assert.Equal(t, true, db["use_rds_instead_of_aurora"])
	spot := cdkContext["ecs_fargate_spot"].(map[string]any)
	assert.Equal(t, true, spot["enable_spot"])

	env, err := os.ReadFile(EnvFile)
	require.NoError(t, err)
	assert.Contains(t, string(env), "CDK_DEFAULT_ACCOUNT=123456789012")
	assert.Contains(t, string(env), "CDK_DEFAULT_REGION=us-east-1")
}

func TestPrepareMissingTemplate(t *testing.T) {
	t.Chdir(t.TempDir())

	o, _ := newTestOrchestrator(newFakeRunner())
	err := o.Prepare(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ContextTemplateFile)
}

func TestPrepareRegionFromConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(ContextTemplateFile, []byte("{}"), 0o600))

	run := newFakeRunner()
	run.responses["aws sts"] = "123456789012"
	run.errs["aws configure"] = errors.New("no region configured")

	var out bytes.Buffer
	cfg := DefaultConfig()
	cfg.Region = "eu-west-1"
	o := NewOrchestrator(run, &out, cfg)
	require.NoError(t, o.Prepare(context.Background()))

	env, err := os.ReadFile(EnvFile)
	require.NoError(t, err)
	assert.Contains(t, string(env), "CDK_DEFAULT_REGION=eu-west-1")
}

func TestDeployRequiresContextFile(t *testing.T) {
	t.Chdir(t.TempDir())

	run := newFakeRunner()
	run.responses["cdk --version"] = "2.150.0"

	o, _ := newTestOrchestrator(run)
	_, err := o.Deploy(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ContextFile)
}

func TestDeployMissingCDK(t *testing.T) {
	run := newFakeRunner()
	run.errs["cdk --version"] = errors.New("command not found")

	o, _ := newTestOrchestrator(run)
	_, err := o.Deploy(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "npm install -g aws-cdk")
}

func TestDeployReturnsLangfuseURL(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(ContextFile, []byte("{}"), 0o600))

	outputJSON := fmt.Sprintf(`{"Stacks":[{"StackName":%q,"StackStatus":"CREATE_COMPLETE","Outputs":[{"OutputKey":%q,"OutputValue":"lb-123.us-east-1.elb.amazonaws.com"}]}]}`,
		DefaultWebStack, loadBalancerOutputKey)

	run := newFakeRunner()
	run.responses["cdk --version"] = "2.150.0"
	run.responses["aws cloudformation"] = outputJSON
	run.streams["cdk deploy"] = []string{
		"Deploying LangfuseWebECSServiceStack",
		"LangfuseWebECSServiceStack CREATE_COMPLETE",
	}

	o, out := newTestOrchestrator(run)
	url, err := o.Deploy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://lb-123.us-east-1.elb.amazonaws.com", url)
	assert.Contains(t, out.String(), "CDK already bootstrapped")
	assert.Contains(t, out.String(), "Deployment complete")
}

func TestSpinnerPrintfWhileTicking(t *testing.T) {
	var out bytes.Buffer
	sp := newSpinner(&out, "deploying")
	sp.Start()

	// Status lines land while the spinner goroutine keeps ticking; every
	// write must go through the spinner's lock.
	for i := 0; i < 5; i++ {
		sp.Printf("   ✅ stack-%d", i)
		time.Sleep(60 * time.Millisecond)
	}
	sp.Stop()

	assert.Contains(t, out.String(), "✅ stack-0")
	assert.Contains(t, out.String(), "✅ stack-4")
}

func TestProgressLine(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"LangfuseVPCStack CREATE_COMPLETE", "✅ LangfuseVPCStack"},
		{"LangfuseVPCStack UPDATE_COMPLETE", "✅ LangfuseVPCStack"},
		{"LangfuseVPCStack DELETE_IN_PROGRESS", "🗑️  LangfuseVPCStack deleting..."},
		{"LangfuseVPCStack DELETE_COMPLETE", "✅ LangfuseVPCStack deleted"},
		{"Deploying LangfuseVPCStack", "🔄 Deploying LangfuseVPCStack"},
		{"Currently in progress: LangfuseVPCStack", "⏳ Currently in progress: LangfuseVPCStack"},
		{"stack deployment failed", "❌ stack deployment failed"},
		{"some unrelated noise", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, progressLine(tt.line), tt.line)
	}
}

func TestStatus(t *testing.T) {
	run := newFakeRunner()
	run.responses["cdk list"] = "LangfuseVPCStack\nLangfuseWebECSServiceStack"
	run.responses["aws cloudformation"] = `{"Stacks":[{"StackName":"LangfuseVPCStack","StackStatus":"CREATE_COMPLETE"}]}`

	o, out := newTestOrchestrator(run)
	require.NoError(t, o.Status(context.Background()))
	assert.Contains(t, out.String(), "CREATE_COMPLETE")
}

func TestStatusNotDeployed(t *testing.T) {
	run := newFakeRunner()
	run.responses["cdk list"] = "LangfuseVPCStack"
	run.errs["aws cloudformation"] = errors.New("stack does not exist")

	o, out := newTestOrchestrator(run)
	require.NoError(t, o.Status(context.Background()))
	assert.Contains(t, out.String(), "NOT_DEPLOYED")
}

func TestCleanupRemovesLocalFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(ContextFile, []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(EnvFile, []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(CdkOutDir, 0o755))

	run := newFakeRunner()
	run.responses["cdk --version"] = "2.150.0"
	run.responses["cdk list"] = "LangfuseVPCStack"

	o, out := newTestOrchestrator(run)
	require.NoError(t, o.Cleanup(context.Background()))

	for _, path := range []string{ContextFile, EnvFile, CdkOutDir} {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), path)
	}
	assert.Contains(t, out.String(), "Cleanup completed")
}

func TestCleanupContinuesOnDestroyError(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(EnvFile, []byte("x"), 0o600))

	run := newFakeRunner()
	run.responses["cdk --version"] = "2.150.0"
	run.errs["cdk destroy"] = errors.New("resource in use")

	o, out := newTestOrchestrator(run)
	err := o.Cleanup(context.Background())
	require.Error(t, err)

	// Local files are still removed despite the destroy failure.
	_, statErr := os.Stat(EnvFile)
	assert.True(t, os.IsNotExist(statErr))
	assert.Contains(t, out.String(), "manual cleanup")
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(DefaultConfigFile)
	require.NoError(t, err)
	assert.Equal(t, DefaultWebStack, cfg.WebStack)
	assert.True(t, cfg.CostOptimized)

	require.NoError(t, os.WriteFile(DefaultConfigFile, []byte("web_stack: CustomStack\nregion: eu-central-1\ncost_optimized: false\n"), 0o600))
	cfg, err = LoadConfig(DefaultConfigFile)
	require.NoError(t, err)
	assert.Equal(t, "CustomStack", cfg.WebStack)
	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.False(t, cfg.CostOptimized)
}

func TestGenerateSecret(t *testing.T) {
	b64, err := generateSecret(32, "base64")
	require.NoError(t, err)
	assert.NotEmpty(t, b64)

	hexSecret, err := generateSecret(32, "hex")
	require.NoError(t, err)
	assert.Len(t, hexSecret, 64)
	assert.False(t, strings.ContainsAny(hexSecret, "ghijklmnopqrstuvwxyz"))

	_, err = generateSecret(32, "rot13")
	assert.Error(t, err)
}
