package config

import (
	"errors"
	"fmt"

	"github.com/forge-cli/forge/internal/auth"
)

// Validation errors for configuration consistency.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrUnknownValue indicates a field holds a value outside its allowed set.
	ErrUnknownValue = errors.New("value not in allowed set")

	// ErrCredentialStoreRequired indicates the selected provider needs a
	// credential but no credential store is configured to hold it.
	ErrCredentialStoreRequired = errors.New("provider requires a credential store")

	// ErrTelemetryAirGapped indicates telemetry is enabled in an environment
	// that cannot emit it.
	ErrTelemetryAirGapped = errors.New("telemetry cannot be enabled in an air-gapped environment")
)

// FieldError ties a validation error to the configuration field it concerns.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s: %q", e.Field, e.Err.Error(), e.Value)
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Validate checks a File for internal consistency.
// Returns nil if valid, or a slice of validation errors.
//
// These are the cross-stage checks the wizard's commit pipeline runs; doctor
// runs the same checks against an already persisted artifact.
func Validate(cfg *File) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	enums := []struct {
		field string
		value string
		set   []string
	}{
		{"use_case", cfg.UseCase, UseCases()},
		{"auth.provider", cfg.Auth.Provider, auth.Providers()},
		{"model_routing.default", cfg.ModelRouting.Default, Tiers()},
		{"model_routing.fallback", cfg.ModelRouting.Fallback, Tiers()},
		{"persistence.backend", cfg.Persistence.Backend, Backends()},
		{"persistence.format", cfg.Persistence.Format, Formats()},
		{"persistence.credential_store", cfg.Persistence.CredentialStore, CredentialStores()},
		{"environment", cfg.Environment, Environments()},
	}
	for _, e := range enums {
		if !contains(e.set, e.value) {
			errs = append(errs, &FieldError{Field: e.field, Value: e.value, Err: ErrUnknownValue})
		}
	}

	// A provider that needs an API token needs somewhere to keep it.
	if auth.RequiresCredential(cfg.Auth.Provider) && cfg.Persistence.CredentialStore == CredStoreNone {
		errs = append(errs, &FieldError{Field: "persistence.credential_store", Err: ErrCredentialStoreRequired})
	}

	if cfg.Telemetry && cfg.Environment == EnvAirGapped {
		errs = append(errs, &FieldError{Field: "telemetry", Err: ErrTelemetryAirGapped})
	}

	return errs
}
