// Package auth verifies model provider credentials for the setup wizard.
//
// The wizard only needs a capability check: does this token plausibly belong
// to the selected provider. The default verifier checks token shape (known
// prefix, minimum length) without any network traffic; a real handshake can
// be swapped in behind the Verifier interface.
package auth

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

// Provider identifiers the Auth stage can select.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderLocal     = "local"
)

// Sentinel errors for credential verification.
var (
	// ErrUnknownProvider indicates a provider outside the supported set.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrMissingCredential indicates the provider requires a token and none was given.
	ErrMissingCredential = errors.New("credential required")

	// ErrInvalidCredential indicates the token does not match the provider's format.
	ErrInvalidCredential = errors.New("invalid credential")
)

// Verifier checks that a credential is usable for a provider.
type Verifier interface {
	// VerifyCredential returns nil if token is acceptable for provider.
	VerifyCredential(ctx context.Context, provider, token string) error
}

// tokenShape describes the expected form of a provider's API token.
type tokenShape struct {
	prefix string
	minLen int
}

// tokenShapes maps providers that require a credential to their token form.
// Anthropic keys embed the OpenAI-style "sk-" prefix, so the anthropic entry
// must be checked with its full prefix.
var tokenShapes = map[string]tokenShape{
	ProviderAnthropic: {prefix: "sk-ant-", minLen: 24},
	ProviderOpenAI:    {prefix: "sk-", minLen: 20},
}

// RequiresCredential returns true if the provider needs an API token.
// Local models need none.
func RequiresCredential(provider string) bool {
	_, ok := tokenShapes[provider]
	return ok
}

// Providers returns the supported provider identifiers in menu order.
func Providers() []string {
	return []string{ProviderAnthropic, ProviderOpenAI, ProviderLocal}
}

// ShapeVerifier validates token shape offline.
type ShapeVerifier struct{}

// NewShapeVerifier returns the default offline verifier.
func NewShapeVerifier() *ShapeVerifier {
	return &ShapeVerifier{}
}

// VerifyCredential implements Verifier.
func (*ShapeVerifier) VerifyCredential(_ context.Context, provider, token string) error {
	shape, ok := tokenShapes[provider]
	if !ok {
		if provider == ProviderLocal {
			return nil
		}
		return errors.Wrapf(ErrUnknownProvider, "%q", provider)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return errors.Wrapf(ErrMissingCredential, "provider %s", provider)
	}
	if !strings.HasPrefix(token, shape.prefix) {
		return errors.Wrapf(ErrInvalidCredential, "expected %s* token for %s", shape.prefix, provider)
	}
	if len(token) < shape.minLen {
		return errors.Wrapf(ErrInvalidCredential, "token too short for %s", provider)
	}
	return nil
}
