package stage

import (
	"context"

	"github.com/forge-cli/forge/internal/auth"
	"github.com/forge-cli/forge/internal/config"
	"github.com/forge-cli/forge/internal/field"
)

// Field names used across the catalog. Stage-local, but exported so the
// engine's commit pipeline and the front-ends address fields by name.
const (
	FieldUseCase          = "use_case"
	FieldProjectName      = "project_name"
	FieldProvider         = "provider"
	FieldAPIToken         = "api_token"
	FieldDefaultTier      = "default_tier"
	FieldFallbackTier     = "fallback_tier"
	FieldMaxContextTokens = "max_context_tokens"
	FieldBackend          = "backend"
	FieldFormat           = "format"
	FieldCredentialStore  = "credential_store"
	FieldHistoryLimit     = "history_limit"
	FieldEnvironment      = "environment"
	FieldDebug            = "debug"
	FieldTelemetry        = "telemetry"
)

// New builds the forge stage catalog. The verifier backs the Auth stage's
// cross-field check.
func New(verifier auth.Verifier) *Registry {
	return newRegistry(
		useCaseStage(),
		authStage(verifier),
		modelRoutingStage(),
		persistenceStage(),
		environmentStage(),
		reviewStage(),
	)
}

func enumOptions(values []string, descs map[string]string) []field.Option {
	opts := make([]field.Option, len(values))
	for i, v := range values {
		opts[i] = field.Option{Value: v, Desc: descs[v]}
	}
	return opts
}

func constantDefault(v field.Value) func(field.Lookup) (field.Value, bool) {
	return func(field.Lookup) (field.Value, bool) { return v, true }
}

func useCaseStage() *Spec {
	return &Spec{
		ID:    UseCase,
		Title: "What will you use forge for?",
		Fields: []field.Spec{
			{
				Name:  FieldUseCase,
				Label: "Primary use case",
				Kind:  field.KindEnum,
				Options: enumOptions(config.UseCases(), map[string]string{
					config.UseCaseCodeReview: "Review diffs and suggest improvements",
					config.UseCaseTestGen:    "Generate and maintain test suites",
					config.UseCaseRefactor:   "Large-scale code transformations",
					config.UseCaseChat:       "Conversational assistance in the editor",
				}),
			},
			{
				Name:     FieldProjectName,
				Label:    "Project name (optional)",
				Kind:     field.KindString,
				Optional: true,
			},
		},
	}
}

func authStage(verifier auth.Verifier) *Spec {
	return &Spec{
		ID:    Auth,
		Title: "Connect a model provider",
		Fields: []field.Spec{
			{
				Name:  FieldProvider,
				Label: "Model provider",
				Kind:  field.KindEnum,
				Options: enumOptions(auth.Providers(), map[string]string{
					auth.ProviderAnthropic: "Claude models via the Anthropic API",
					auth.ProviderOpenAI:    "GPT models via the OpenAI API",
					auth.ProviderLocal:     "A locally hosted model, no credential needed",
				}),
			},
			{
				Name:     FieldAPIToken,
				Label:    "API token",
				Kind:     field.KindString,
				Optional: true, // required for hosted providers, enforced below
			},
		},
		Validate: func(ctx context.Context, values Values) error {
			provider, _ := values.Get(FieldProvider)
			token, _ := values.Get(FieldAPIToken)
			if err := verifier.VerifyCredential(ctx, provider.String(), token.String()); err != nil {
				return &ValidationError{Stage: Auth, Problems: []string{err.Error()}}
			}
			return nil
		},
	}
}

func modelRoutingStage() *Spec {
	tierDescs := map[string]string{
		config.TierCheap:    "Fast and inexpensive, for simple requests",
		config.TierBalanced: "Good quality at moderate cost",
		config.TierCapable:  "Highest quality, for demanding work",
	}

	return &Spec{
		ID:    ModelRouting,
		Title: "Choose model routing tiers",
		Fields: []field.Spec{
			{
				Name:    FieldDefaultTier,
				Label:   "Default tier",
				Kind:    field.KindEnum,
				Options: enumOptions(config.Tiers(), tierDescs),
				// Demanding use cases default to the capable tier.
				DeriveDefault: func(lookup field.Lookup) (field.Value, bool) {
					useCase, ok := lookup(string(UseCase), FieldUseCase)
					if !ok {
						return field.Value{}, false
					}
					switch useCase.String() {
					case config.UseCaseTestGen, config.UseCaseCodeReview:
						return field.EnumValue(config.TierCapable), true
					case config.UseCaseChat:
						return field.EnumValue(config.TierCheap), true
					default:
						return field.EnumValue(config.TierBalanced), true
					}
				},
			},
			{
				Name:          FieldFallbackTier,
				Label:         "Fallback tier",
				Kind:          field.KindEnum,
				Options:       enumOptions(config.Tiers(), tierDescs),
				DeriveDefault: constantDefault(field.EnumValue(config.TierCheap)),
			},
			{
				Name:          FieldMaxContextTokens,
				Label:         "Maximum context window (tokens)",
				Kind:          field.KindNumber,
				Min:           1024,
				Max:           1_000_000,
				HasRange:      true,
				DeriveDefault: constantDefault(field.NumberValue(128_000)),
			},
		},
	}
}

func persistenceStage() *Spec {
	return &Spec{
		ID:    Persistence,
		Title: "Configure persistence",
		Fields: []field.Spec{
			{
				Name:  FieldBackend,
				Label: "State backend",
				Kind:  field.KindEnum,
				Options: enumOptions(config.Backends(), map[string]string{
					config.BackendFile: "Store sessions and settings on disk",
					config.BackendNone: "Keep everything in memory, nothing persisted",
				}),
				DeriveDefault: constantDefault(field.EnumValue(config.BackendFile)),
			},
			{
				Name:  FieldFormat,
				Label: "Configuration file format",
				Kind:  field.KindEnum,
				Options: enumOptions(config.Formats(), map[string]string{
					config.FormatYAML: "Human-friendly, the default",
					config.FormatJSON: "Interoperable with other tooling",
					config.FormatTOML: "Flat and explicit",
				}),
				DeriveDefault: constantDefault(field.EnumValue(config.FormatYAML)),
			},
			{
				Name:  FieldCredentialStore,
				Label: "Where to keep credentials",
				Kind:  field.KindEnum,
				Options: enumOptions(config.CredentialStores(), map[string]string{
					config.CredStoreKeychain: "OS keychain (recommended)",
					config.CredStoreFile:     "Alongside the config file",
					config.CredStoreNone:     "Do not store credentials",
				}),
				// Hosted providers need a credential store; local models do not.
				DeriveDefault: func(lookup field.Lookup) (field.Value, bool) {
					provider, ok := lookup(string(Auth), FieldProvider)
					if !ok {
						return field.Value{}, false
					}
					if auth.RequiresCredential(provider.String()) {
						return field.EnumValue(config.CredStoreKeychain), true
					}
					return field.EnumValue(config.CredStoreNone), true
				},
			},
			{
				Name:          FieldHistoryLimit,
				Label:         "Sessions to keep in history",
				Kind:          field.KindNumber,
				Min:           0,
				Max:           10_000,
				HasRange:      true,
				DeriveDefault: constantDefault(field.NumberValue(100)),
			},
		},
	}
}

func environmentStage() *Spec {
	return &Spec{
		ID:    Environment,
		Title: "Select a deployment environment",
		Fields: []field.Spec{
			{
				Name:  FieldEnvironment,
				Label: "Environment",
				Kind:  field.KindEnum,
				Options: enumOptions(config.Environments(), map[string]string{
					config.EnvLocal:        "Directly on this machine",
					config.EnvDevcontainer: "Inside a development container",
					config.EnvCI:           "Non-interactive CI pipelines",
					config.EnvAirGapped:    "No outbound network access",
				}),
				DeriveDefault: constantDefault(field.EnumValue(config.EnvLocal)),
			},
			{
				Name:          FieldDebug,
				Label:         "Enable debug logging",
				Kind:          field.KindBoolean,
				DeriveDefault: constantDefault(field.BoolValue(false)),
			},
			{
				Name:          FieldTelemetry,
				Label:         "Share anonymous usage data",
				Kind:          field.KindBoolean,
				DeriveDefault: constantDefault(field.BoolValue(true)),
			},
		},
	}
}

func reviewStage() *Spec {
	return &Spec{
		ID:    Review,
		Title: "Review and save",
	}
}
