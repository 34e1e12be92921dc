package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/nulzo/llmprompt/internal/config"
	"github.com/nulzo/llmprompt/internal/llm"
)

const (
	providerName    = "bedrock"
	credentialsName = "AWS credentials"
	contentTypeJSON = "application/json"
)

// InvokeModelAPI is the part of the Bedrock runtime client the adapters use.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Runtime sends JSON bodies to Bedrock models.
type Runtime struct {
	api   InvokeModelAPI
	creds aws.CredentialsProvider
}

// NewRuntime resolves the AWS default configuration chain for cfg and
// returns a runtime with SDK retries disabled. A nil client selects the SDK
// default.
func NewRuntime(ctx context.Context, cfg config.BedrockConfig, client *http.Client) (*Runtime, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if client != nil {
		opts = append(opts, awsconfig.WithHTTPClient(client))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, &llm.CredentialError{Provider: providerName, Variable: "AWS configuration", Err: err}
	}

	return NewRuntimeFromAPI(bedrockruntime.NewFromConfig(awsCfg), awsCfg.Credentials), nil
}

// NewRuntimeFromAPI wraps an existing client. A nil creds skips the
// credential check.
func NewRuntimeFromAPI(api InvokeModelAPI, creds aws.CredentialsProvider) *Runtime {
	return &Runtime{api: api, creds: creds}
}

// invoke marshals body, calls modelID and decodes the response into out.
func (r *Runtime) invoke(ctx context.Context, modelID string, body, out interface{}) error {
	if r.creds != nil {
		if _, err := r.creds.Retrieve(ctx); err != nil {
			return &llm.CredentialError{Provider: providerName, Variable: credentialsName, Err: err}
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return llm.NewProviderError(providerName, "failed to marshal request body", err)
	}

	output, err := r.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        payload,
		ContentType: aws.String(contentTypeJSON),
		Accept:      aws.String(contentTypeJSON),
	})
	if err != nil {
		return handleUpstreamError(err)
	}

	if err := json.Unmarshal(output.Body, out); err != nil {
		return llm.NewProviderError(providerName, "failed to decode response", err)
	}
	return nil
}

func handleUpstreamError(err error) error {
	perr := llm.NewProviderError(providerName, "invoke model failed", err)

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		perr.StatusCode = respErr.HTTPStatusCode()
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		perr.Message = apiErr.ErrorCode() + ": " + apiErr.ErrorMessage()
	}
	return perr
}

func displayName(names map[string]string, v llm.Version) string {
	if name, ok := names[v.ProviderID]; ok {
		return name
	}
	return "Claude-" + v.Key
}
