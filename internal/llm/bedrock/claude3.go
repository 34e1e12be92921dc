package bedrock

import (
	"context"

	"github.com/nulzo/llmprompt/internal/llm"
)

const (
	anthropicVersion = "bedrock-2023-05-31"
	maxTokens        = 2048
	systemPrompt     = "You are a helpful software engineer"
)

// Claude3Versions are served through the messages API.
var Claude3Versions = []llm.Version{
	{Key: "claude3-haiku", ProviderID: "anthropic.claude-3-haiku-20240307-v1:0"},
	{Key: "claude3-sonnet", ProviderID: "anthropic.claude-3-sonnet-20240229-v1:0"},
	{Key: "claude3_5-sonnet", ProviderID: "anthropic.claude-3-5-sonnet-20240620-v1:0"},
}

var claude3Names = map[string]string{
	"anthropic.claude-3-haiku-20240307-v1:0":    "Claude-3-Haiku",
	"anthropic.claude-3-sonnet-20240229-v1:0":   "Claude-3-Sonnet",
	"anthropic.claude-3-5-sonnet-20240620-v1:0": "Claude-3.5-Sonnet",
}

type Message struct {
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	System           string    `json:"system"`
	Messages         []Message `json:"messages"`
}

type responseBlock struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

type messagesResponse struct {
	ID         string          `json:"id"`
	Content    []responseBlock `json:"content"`
	StopReason string          `json:"stop_reason"`
}

// Claude3 talks to Claude 3 and later models.
type Claude3 struct {
	runtime *Runtime
	version llm.Version
}

func NewClaude3(runtime *Runtime, version llm.Version) *Claude3 {
	return &Claude3{runtime: runtime, version: version}
}

func (c *Claude3) DisplayName() string {
	return displayName(claude3Names, c.version)
}

func (c *Claude3) SupportedVersions() []llm.Version {
	return Claude3Versions
}

func (c *Claude3) Invoke(ctx context.Context, prompt string) (string, error) {
	req := messagesRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		System:           systemPrompt,
		Messages: []Message{{
			Role:    "user",
			Content: []Content{{Type: "text", Text: prompt}},
		}},
	}

	var resp messagesResponse
	if err := c.runtime.invoke(ctx, c.version.ProviderID, req, &resp); err != nil {
		return "", err
	}

	if len(resp.Content) == 0 {
		return "", llm.NewProviderError(providerName, "response has no content blocks", nil)
	}
	first := resp.Content[0]
	if first.Type != "text" || first.Text == nil {
		return "", llm.NewProviderError(providerName, "first content block has no text", nil)
	}
	return *first.Text, nil
}
