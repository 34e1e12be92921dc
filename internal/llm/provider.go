package llm

import (
	"context"
	"strings"
)

// Family enumerates the provider families a model can belong to.
type Family int

const (
	GPT Family = iota
	ClaudeV2
	Claude3
)

// Families returns every known family in declaration order.
func Families() []Family {
	return []Family{GPT, ClaudeV2, Claude3}
}

func (f Family) String() string {
	switch f {
	case GPT:
		return "gpt"
	case ClaudeV2:
		return "claude-v2"
	case Claude3:
		return "claude-3"
	default:
		return "unknown"
	}
}

// Version pairs a user facing key with the identifier the upstream API expects.
type Version struct {
	Key        string
	ProviderID string
}

// Model is a single provider backed completion endpoint.
type Model interface {
	// DisplayName is the label printed before the response.
	DisplayName() string
	// SupportedVersions lists every version this adapter can serve.
	SupportedVersions() []Version
	// Invoke performs one blocking request and returns the completion text.
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Constructor builds a Model for one resolved version.
type Constructor func(ctx context.Context, version Version) (Model, error)

// Variant describes one family: the versions it serves and how to build it.
type Variant struct {
	Family   Family
	Versions []Version
	New      Constructor
}

// Supports reports whether key is one of the variant's versions.
func (v *Variant) Supports(key string) bool {
	for _, ver := range v.Versions {
		if strings.EqualFold(ver.Key, key) {
			return true
		}
	}
	return false
}
