package gateway

import (
	"context"

	"github.com/nulzo/llmprompt/internal/config"
	"github.com/nulzo/llmprompt/internal/httpclient"
	"github.com/nulzo/llmprompt/internal/llm"
	"github.com/nulzo/llmprompt/internal/llm/bedrock"
	"github.com/nulzo/llmprompt/internal/llm/openai"
	"go.uber.org/zap"
)

// Variants returns one variant per family, each constructor bound to cfg.
// Nothing touches the network or AWS configuration until a constructor runs.
func Variants(cfg *config.Config, log *zap.Logger) []*llm.Variant {
	variants := make([]*llm.Variant, 0, len(llm.Families()))
	for _, family := range llm.Families() {
		variants = append(variants, variantFor(family, cfg, log))
	}
	return variants
}

func variantFor(family llm.Family, cfg *config.Config, log *zap.Logger) *llm.Variant {
	switch family {
	case llm.GPT:
		return &llm.Variant{
			Family:   family,
			Versions: openai.Versions,
			New: func(ctx context.Context, v llm.Version) (llm.Model, error) {
				client := httpclient.New(cfg.OpenAI.Timeout, log)
				return openai.NewAdapter(cfg.OpenAI, v, client), nil
			},
		}
	case llm.ClaudeV2:
		return &llm.Variant{
			Family:   family,
			Versions: bedrock.ClaudeV2Versions,
			New: func(ctx context.Context, v llm.Version) (llm.Model, error) {
				rt, err := bedrock.NewRuntime(ctx, cfg.Bedrock, httpclient.New(cfg.Bedrock.Timeout, log))
				if err != nil {
					return nil, err
				}
				return bedrock.NewClaudeV2(rt, v, cfg.Bedrock.Temperature), nil
			},
		}
	case llm.Claude3:
		return &llm.Variant{
			Family:   family,
			Versions: bedrock.Claude3Versions,
			New: func(ctx context.Context, v llm.Version) (llm.Model, error) {
				rt, err := bedrock.NewRuntime(ctx, cfg.Bedrock, httpclient.New(cfg.Bedrock.Timeout, log))
				if err != nil {
					return nil, err
				}
				return bedrock.NewClaude3(rt, v), nil
			},
		}
	default:
		panic("gateway: no variant for family " + family.String())
	}
}

// NewRegistry builds a registry holding every variant in family order.
func NewRegistry(cfg *config.Config, log *zap.Logger) *llm.Registry {
	reg := llm.NewRegistry()
	for _, v := range Variants(cfg, log) {
		reg.RegisterVariant(v)
	}
	return reg
}
