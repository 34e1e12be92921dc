package llm_test

import (
	"errors"
	"io"
	"testing"

	"github.com/nulzo/llmprompt/internal/llm"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	unknown := &llm.UnknownVersionError{Version: "5", Available: []string{"3.5", "4"}}
	assert.Equal(t, `unknown model version "5" (available: 3.5, 4)`, unknown.Error())

	cred := &llm.CredentialError{Provider: "openai", Variable: "OPENAI_API_KEY"}
	assert.Equal(t, "openai: OPENAI_API_KEY is not set", cred.Error())

	prov := &llm.ProviderError{Provider: "openai", StatusCode: 502, Message: "bad gateway", Err: io.ErrUnexpectedEOF}
	assert.Equal(t, "openai (status 502): bad gateway: unexpected EOF", prov.Error())
	assert.True(t, errors.Is(prov, io.ErrUnexpectedEOF))

	assert.Equal(t, "bedrock: no content", llm.NewProviderError("bedrock", "no content", nil).Error())
}
