// Package bedrock invokes models on AWS Bedrock via the Converse API.
package bedrock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// Defaults matching the sample deployments.
const (
	DefaultModelID = "us.anthropic.claude-3-5-sonnet-20241022-v2:0"
	DefaultRegion  = "us-east-1"
)

// Config holds configuration for the Bedrock model client.
type Config struct {
	// ModelID is the Bedrock model identifier. Defaults to Claude 3.5
	// Sonnet via the us inference profile.
	ModelID string

	// Region is the AWS region. Defaults to us-east-1.
	Region string

	// Temperature and MaxTokens bound the generation. Zero values leave
	// the model defaults in place.
	Temperature float32
	MaxTokens   int32
}

// Model is a client for one Bedrock model.
type Model struct {
	client *bedrockruntime.Client
	cfg    Config
}

// NewModel creates a Bedrock model client using the default AWS credential
// chain.
func NewModel(ctx context.Context, cfg Config) (*Model, error) {
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("bedrock: loading AWS config: %w", err)
	}

	return &Model{
		client: bedrockruntime.NewFromConfig(awsConfig),
		cfg:    cfg,
	}, nil
}

// ModelID returns the configured model identifier.
func (m *Model) ModelID() string { return m.cfg.ModelID }

// Region returns the configured AWS region.
func (m *Model) Region() string { return m.cfg.Region }

// Usage carries token counts reported by Bedrock.
type Usage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// Response is the model's answer with usage and timing.
type Response struct {
	Content   string
	Usage     Usage
	LatencyMs int64
	Duration  time.Duration
}

// Converse sends a system prompt and user message and returns the answer.
func (m *Model) Converse(ctx context.Context, system, user string) (*Response, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(m.cfg.ModelID),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: user},
				},
			},
		},
	}
	if system != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: system},
		}
	}
	if m.cfg.Temperature > 0 || m.cfg.MaxTokens > 0 {
		cfg := &types.InferenceConfiguration{}
		if m.cfg.Temperature > 0 {
			cfg.Temperature = aws.Float32(m.cfg.Temperature)
		}
		if m.cfg.MaxTokens > 0 {
			cfg.MaxTokens = aws.Int32(m.cfg.MaxTokens)
		}
		input.InferenceConfig = cfg
	}

	start := time.Now()
	out, err := m.client.Converse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("bedrock: converse failed: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, fmt.Errorf("bedrock: unexpected output type %T", out.Output)
	}

	var sb strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			sb.WriteString(text.Value)
		}
	}

	resp := &Response{
		Content:  strings.TrimSpace(sb.String()),
		Duration: time.Since(start),
	}
	if out.Usage != nil {
		resp.Usage = Usage{
			InputTokens:  aws.ToInt32(out.Usage.InputTokens),
			OutputTokens: aws.ToInt32(out.Usage.OutputTokens),
			TotalTokens:  aws.ToInt32(out.Usage.TotalTokens),
		}
	}
	if out.Metrics != nil {
		resp.LatencyMs = aws.ToInt64(out.Metrics.LatencyMs)
	}
	return resp, nil
}
