package bedrock

import (
	"context"
	"strings"

	"github.com/nulzo/llmprompt/internal/llm"
)

const (
	maxTokensToSample = 2000
	humanPrefix       = "Human: "
	assistantSuffix   = "\n\nAssistant:"
	humanStop         = "\n\nHuman:"
)

// ClaudeV2Versions are served through the text completion API.
var ClaudeV2Versions = []llm.Version{
	{Key: "claude", ProviderID: "anthropic.claude-v2:1"},
}

var claudeV2Names = map[string]string{
	"anthropic.claude-v2:1": "Claude-2.1",
}

type textCompletionRequest struct {
	Prompt            string   `json:"prompt"`
	MaxTokensToSample int      `json:"max_tokens_to_sample"`
	Temperature       float64  `json:"temperature"`
	StopSequences     []string `json:"stop_sequences"`
}

type textCompletionResponse struct {
	Completion *string `json:"completion"`
	StopReason string  `json:"stop_reason"`
}

// ClaudeV2 talks to Claude 2 models, which expect the Human/Assistant
// prompt envelope.
type ClaudeV2 struct {
	runtime     *Runtime
	version     llm.Version
	temperature float64
}

func NewClaudeV2(runtime *Runtime, version llm.Version, temperature float64) *ClaudeV2 {
	return &ClaudeV2{
		runtime:     runtime,
		version:     version,
		temperature: temperature,
	}
}

func (c *ClaudeV2) DisplayName() string {
	return displayName(claudeV2Names, c.version)
}

func (c *ClaudeV2) SupportedVersions() []llm.Version {
	return ClaudeV2Versions
}

func (c *ClaudeV2) Invoke(ctx context.Context, prompt string) (string, error) {
	req := textCompletionRequest{
		Prompt:            humanPrefix + prompt + assistantSuffix,
		MaxTokensToSample: maxTokensToSample,
		Temperature:       c.temperature,
		StopSequences:     []string{humanStop},
	}

	var resp textCompletionResponse
	if err := c.runtime.invoke(ctx, c.version.ProviderID, req, &resp); err != nil {
		return "", err
	}

	if resp.Completion == nil {
		return "", llm.NewProviderError(providerName, "response is missing the completion field", nil)
	}
	return strings.TrimSpace(*resp.Completion), nil
}
