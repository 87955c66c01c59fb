package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestShapeVerifier(t *testing.T) {
	v := NewShapeVerifier()
	ctx := context.Background()

	tests := []struct {
		name     string
		provider string
		token    string
		wantErr  error
	}{
		{name: "anthropic valid", provider: ProviderAnthropic, token: "sk-ant-" + strings.Repeat("a", 20)},
		{name: "openai valid", provider: ProviderOpenAI, token: "sk-" + strings.Repeat("b", 20)},
		{name: "local needs no token", provider: ProviderLocal, token: ""},
		{name: "anthropic missing token", provider: ProviderAnthropic, token: "", wantErr: ErrMissingCredential},
		{name: "anthropic wrong prefix", provider: ProviderAnthropic, token: "sk-" + strings.Repeat("c", 30), wantErr: ErrInvalidCredential},
		{name: "openai too short", provider: ProviderOpenAI, token: "sk-short", wantErr: ErrInvalidCredential},
		{name: "unknown provider", provider: "mistral", token: "whatever", wantErr: ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.VerifyCredential(ctx, tt.provider, tt.token)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("VerifyCredential() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("VerifyCredential() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequiresCredential(t *testing.T) {
	if !RequiresCredential(ProviderAnthropic) {
		t.Error("anthropic should require a credential")
	}
	if !RequiresCredential(ProviderOpenAI) {
		t.Error("openai should require a credential")
	}
	if RequiresCredential(ProviderLocal) {
		t.Error("local should not require a credential")
	}
}
