package config

import (
	"errors"
	"testing"
)

func TestValidate_ConsistentConfig(t *testing.T) {
	if errs := Validate(testFile()); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestValidate_Nil(t *testing.T) {
	if errs := Validate(nil); len(errs) == 0 {
		t.Error("nil config should fail validation")
	}
}

func TestValidate_CredentialStoreRequired(t *testing.T) {
	cfg := testFile()
	cfg.Auth.Provider = "anthropic"
	cfg.Persistence.CredentialStore = CredStoreNone

	errs := Validate(cfg)
	if !containsError(errs, ErrCredentialStoreRequired) {
		t.Errorf("Validate() = %v, want ErrCredentialStoreRequired", errs)
	}
}

func TestValidate_LocalProviderNeedsNoCredentialStore(t *testing.T) {
	cfg := testFile()
	cfg.Auth.Provider = "local"
	cfg.Auth.APIToken = ""
	cfg.Persistence.CredentialStore = CredStoreNone

	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestValidate_TelemetryAirGapped(t *testing.T) {
	cfg := testFile()
	cfg.Environment = EnvAirGapped
	cfg.Telemetry = true

	errs := Validate(cfg)
	if !containsError(errs, ErrTelemetryAirGapped) {
		t.Errorf("Validate() = %v, want ErrTelemetryAirGapped", errs)
	}

	cfg.Telemetry = false
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors with telemetry off", errs)
	}
}

func TestValidate_UnknownEnumValues(t *testing.T) {
	cfg := testFile()
	cfg.UseCase = "world-domination"
	cfg.ModelRouting.Fallback = "free"

	errs := Validate(cfg)
	if len(errs) != 2 {
		t.Fatalf("Validate() returned %d errors, want 2: %v", len(errs), errs)
	}
	for _, err := range errs {
		if !errors.Is(err, ErrUnknownValue) {
			t.Errorf("unexpected error kind: %v", err)
		}
	}
}

func TestValidate_VersionTooLow(t *testing.T) {
	cfg := testFile()
	cfg.Version = 0

	if !containsError(Validate(cfg), ErrVersionTooLow) {
		t.Error("expected ErrVersionTooLow")
	}
}

func containsError(errs []error, target error) bool {
	for _, err := range errs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
