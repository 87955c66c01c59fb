package config

// Model tiers, ordered cheapest to most capable.
const (
	TierCheap    = "cheap"
	TierBalanced = "balanced"
	TierCapable  = "capable"
)

// Use cases the tool is configured for.
const (
	UseCaseCodeReview = "code-review"
	UseCaseTestGen    = "test-gen"
	UseCaseRefactor   = "refactor"
	UseCaseChat       = "chat"
)

// Deployment environments.
const (
	EnvLocal        = "local"
	EnvDevcontainer = "devcontainer"
	EnvCI           = "ci"
	EnvAirGapped    = "air-gapped"
)

// Persistence backends.
const (
	BackendFile = "file"
	BackendNone = "none"
)

// Persisted artifact encodings.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Credential stores.
const (
	CredStoreNone     = "none"
	CredStoreKeychain = "keychain"
	CredStoreFile     = "file"
)

// Tiers returns the model tiers in menu order.
func Tiers() []string {
	return []string{TierCheap, TierBalanced, TierCapable}
}

// UseCases returns the supported use cases in menu order.
func UseCases() []string {
	return []string{UseCaseCodeReview, UseCaseTestGen, UseCaseRefactor, UseCaseChat}
}

// Environments returns the deployment environments in menu order.
func Environments() []string {
	return []string{EnvLocal, EnvDevcontainer, EnvCI, EnvAirGapped}
}

// Formats returns the supported artifact encodings in menu order.
func Formats() []string {
	return []string{FormatYAML, FormatJSON, FormatTOML}
}

// CredentialStores returns the credential store choices in menu order.
func CredentialStores() []string {
	return []string{CredStoreKeychain, CredStoreFile, CredStoreNone}
}

// Backends returns the persistence backends in menu order.
func Backends() []string {
	return []string{BackendFile, BackendNone}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
