package llm

import (
	"fmt"
	"strings"
)

// UnknownVersionError is returned when a version key is not registered.
type UnknownVersionError struct {
	Version   string
	Available []string
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("unknown model version %q (available: %s)", e.Version, strings.Join(e.Available, ", "))
}

// CredentialError is returned when a provider credential is missing at call time.
type CredentialError struct {
	Provider string
	// Variable names the setting the user has to provide.
	Variable string
	Err      error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s is not available: %v", e.Provider, e.Variable, e.Err)
	}
	return fmt.Sprintf("%s: %s is not set", e.Provider, e.Variable)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// ProviderError wraps any failure of the remote call, including malformed
// response bodies.
type ProviderError struct {
	Provider string
	// StatusCode is the upstream HTTP status, zero when none was received.
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError creates a ProviderError without an upstream status.
func NewProviderError(provider, msg string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Message: msg, Err: err}
}
