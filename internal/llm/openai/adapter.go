package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nulzo/llmprompt/internal/config"
	"github.com/nulzo/llmprompt/internal/llm"
	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	providerName = "openai"
	apiKeyEnv    = "OPENAI_API_KEY"
	systemPrompt = "You are a helpful assistant."
)

// Versions are the GPT models this adapter serves.
var Versions = []llm.Version{
	{Key: "3.5", ProviderID: "gpt-3.5-turbo-1106"},
	{Key: "4", ProviderID: "gpt-4-1106-preview"},
}

type Adapter struct {
	config  config.OpenAIConfig
	version llm.Version
	client  *http.Client
}

// NewAdapter builds a GPT adapter. The API key is only checked on Invoke;
// a nil client selects the SDK default.
func NewAdapter(cfg config.OpenAIConfig, version llm.Version, client *http.Client) *Adapter {
	return &Adapter{
		config:  cfg,
		version: version,
		client:  client,
	}
}

func (a *Adapter) DisplayName() string {
	return "GPT-" + a.version.Key
}

func (a *Adapter) SupportedVersions() []llm.Version {
	return Versions
}

func (a *Adapter) Invoke(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(a.config.APIKey) == "" {
		return "", &llm.CredentialError{Provider: providerName, Variable: apiKeyEnv}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(a.config.APIKey),
		option.WithMaxRetries(0),
	}
	if a.config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(a.config.BaseURL))
	}
	if a.client != nil {
		opts = append(opts, option.WithHTTPClient(a.client))
	}
	client := sdk.NewClient(opts...)

	completion, err := client.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(a.version.ProviderID),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(systemPrompt),
			sdk.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", handleUpstreamError(err)
	}

	if len(completion.Choices) == 0 {
		return "", llm.NewProviderError(providerName, "response contained no choices", nil)
	}

	return completion.Choices[0].Message.Content, nil
}

func handleUpstreamError(err error) error {
	var apiErr *sdk.Error
	if !errors.As(err, &apiErr) {
		return llm.NewProviderError(providerName, "request failed", err)
	}

	msg := apiErr.Message
	if msg == "" {
		msg = "upstream error"
	}
	return &llm.ProviderError{
		Provider:   providerName,
		StatusCode: apiErr.StatusCode,
		Message:    msg,
		Err:        err,
	}
}
