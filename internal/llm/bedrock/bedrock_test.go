package bedrock_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/nulzo/llmprompt/internal/llm"
	"github.com/nulzo/llmprompt/internal/llm/bedrock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRuntimeAPI implements bedrock.InvokeModelAPI for testing
type MockRuntimeAPI struct {
	mock.Mock
}

func (m *MockRuntimeAPI) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bedrockruntime.InvokeModelOutput), args.Error(1)
}

// respond stubs one InvokeModel call and captures the decoded request body.
func respond(api *MockRuntimeAPI, modelID, body string, captured *map[string]interface{}) {
	api.On("InvokeModel", mock.Anything, mock.MatchedBy(func(in *bedrockruntime.InvokeModelInput) bool {
		return aws.ToString(in.ModelId) == modelID
	})).Run(func(args mock.Arguments) {
		in := args.Get(1).(*bedrockruntime.InvokeModelInput)
		if captured != nil {
			_ = json.Unmarshal(in.Body, captured)
		}
	}).Return(&bedrockruntime.InvokeModelOutput{Body: []byte(body)}, nil).Once()
}

func staticCreds() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		return aws.Credentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET", Source: "test"}, nil
	})
}

func TestClaudeV2_RequestEnvelope(t *testing.T) {
	api := new(MockRuntimeAPI)
	var body map[string]interface{}
	respond(api, "anthropic.claude-v2:1", `{"completion": "ok", "stop_reason": "stop_sequence"}`, &body)

	model := bedrock.NewClaudeV2(bedrock.NewRuntimeFromAPI(api, staticCreds()), bedrock.ClaudeV2Versions[0], 0.5)

	_, err := model.Invoke(context.Background(), "X")
	require.NoError(t, err)

	assert.Equal(t, "Human: X\n\nAssistant:", body["prompt"])
	assert.EqualValues(t, 2000, body["max_tokens_to_sample"])
	assert.EqualValues(t, 0.5, body["temperature"])
	assert.Equal(t, []interface{}{"\n\nHuman:"}, body["stop_sequences"])
	api.AssertExpectations(t)
}

func TestClaudeV2_TrimsCompletion(t *testing.T) {
	api := new(MockRuntimeAPI)
	respond(api, "anthropic.claude-v2:1", `{"completion": "  answer  "}`, nil)

	model := bedrock.NewClaudeV2(bedrock.NewRuntimeFromAPI(api, nil), bedrock.ClaudeV2Versions[0], 0.1)

	text, err := model.Invoke(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
}

func TestClaudeV2_MissingCompletion(t *testing.T) {
	api := new(MockRuntimeAPI)
	respond(api, "anthropic.claude-v2:1", `{"stop_reason": "max_tokens"}`, nil)

	model := bedrock.NewClaudeV2(bedrock.NewRuntimeFromAPI(api, nil), bedrock.ClaudeV2Versions[0], 0.5)

	_, err := model.Invoke(context.Background(), "question")

	var provErr *llm.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Message, "completion")
}

func TestClaude3_RequestAndResponse(t *testing.T) {
	api := new(MockRuntimeAPI)
	var body map[string]interface{}
	respond(api, "anthropic.claude-3-5-sonnet-20240620-v1:0", `{
		"id": "msg_123",
		"type": "message",
		"role": "assistant",
		"content": [{"type": "text", "text": "Hello there"}, {"type": "text", "text": "ignored"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 10, "output_tokens": 5}
	}`, &body)

	version := llm.Version{Key: "claude3_5-sonnet", ProviderID: "anthropic.claude-3-5-sonnet-20240620-v1:0"}
	model := bedrock.NewClaude3(bedrock.NewRuntimeFromAPI(api, staticCreds()), version)

	text, err := model.Invoke(context.Background(), "Hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello there", text)

	assert.Equal(t, "bedrock-2023-05-31", body["anthropic_version"])
	assert.EqualValues(t, 2048, body["max_tokens"])
	assert.Equal(t, "You are a helpful software engineer", body["system"])

	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]interface{})
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, []interface{}{map[string]interface{}{"type": "text", "text": "Hi"}}, msg["content"])
}

func TestClaude3_ContentTypeHeaders(t *testing.T) {
	api := new(MockRuntimeAPI)
	api.On("InvokeModel", mock.Anything, mock.MatchedBy(func(in *bedrockruntime.InvokeModelInput) bool {
		return aws.ToString(in.ContentType) == "application/json" && aws.ToString(in.Accept) == "application/json"
	})).Return(&bedrockruntime.InvokeModelOutput{Body: []byte(`{"content": [{"type": "text", "text": "x"}]}`)}, nil).Once()

	model := bedrock.NewClaude3(bedrock.NewRuntimeFromAPI(api, nil), bedrock.Claude3Versions[0])

	_, err := model.Invoke(context.Background(), "Hi")
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestClaude3_MalformedResponses(t *testing.T) {
	tests := map[string]string{
		"no content":   `{"id": "msg_1", "stop_reason": "end_turn"}`,
		"empty blocks": `{"content": []}`,
		"text missing": `{"content": [{"type": "text"}]}`,
		"tool use":     `{"content": [{"type": "tool_use", "id": "toolu_1", "name": "lookup", "input": {}}]}`,
		"not json":     `<html>gateway</html>`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			api := new(MockRuntimeAPI)
			respond(api, bedrock.Claude3Versions[1].ProviderID, body, nil)

			model := bedrock.NewClaude3(bedrock.NewRuntimeFromAPI(api, nil), bedrock.Claude3Versions[1])

			_, err := model.Invoke(context.Background(), "Hi")

			var provErr *llm.ProviderError
			assert.ErrorAs(t, err, &provErr)
		})
	}
}

func TestInvoke_APIErrorBecomesProviderError(t *testing.T) {
	api := new(MockRuntimeAPI)
	api.On("InvokeModel", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "ThrottlingException", Message: "Too many requests"}).Once()

	model := bedrock.NewClaude3(bedrock.NewRuntimeFromAPI(api, staticCreds()), bedrock.Claude3Versions[2])

	_, err := model.Invoke(context.Background(), "Hi")

	var provErr *llm.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "ThrottlingException: Too many requests", provErr.Message)
	api.AssertNumberOfCalls(t, "InvokeModel", 1)
}

func TestInvoke_MissingCredentials(t *testing.T) {
	api := new(MockRuntimeAPI)
	creds := aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		return aws.Credentials{}, errors.New("no valid providers in chain")
	})

	model := bedrock.NewClaudeV2(bedrock.NewRuntimeFromAPI(api, creds), bedrock.ClaudeV2Versions[0], 0.5)

	_, err := model.Invoke(context.Background(), "Hi")

	var credErr *llm.CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "bedrock", credErr.Provider)
	api.AssertNotCalled(t, "InvokeModel", mock.Anything, mock.Anything)
}

func TestDisplayNames(t *testing.T) {
	runtime := bedrock.NewRuntimeFromAPI(new(MockRuntimeAPI), nil)

	assert.Equal(t, "Claude-2.1", bedrock.NewClaudeV2(runtime, bedrock.ClaudeV2Versions[0], 0.5).DisplayName())
	assert.Equal(t, "Claude-3.5-Sonnet", bedrock.NewClaude3(runtime, bedrock.Claude3Versions[2]).DisplayName())
	assert.Equal(t, "Claude-custom", bedrock.NewClaude3(runtime, llm.Version{Key: "custom", ProviderID: "anthropic.custom"}).DisplayName())

	assert.Equal(t, bedrock.Claude3Versions, bedrock.NewClaude3(runtime, bedrock.Claude3Versions[0]).SupportedVersions())
}
