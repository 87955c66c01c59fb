// Package config owns the persisted forge configuration artifact.
//
// The artifact is produced exactly once per wizard run by the commit
// pipeline and written through a Store. Reading it back goes through Viper,
// so values can be overridden with FORGE_* environment variables.
//
// Validate holds the cross-stage consistency rules; the wizard runs them
// before the first write, doctor re-runs them against whatever is on disk.
package config
