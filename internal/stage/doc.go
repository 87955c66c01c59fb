// Package stage defines the setup wizard's stage catalog: which stages exist,
// in which order, which fields each collects, and how a stage derives default
// suggestions from answers given in earlier stages.
//
// The catalog is built once with New and never mutated. Dependent defaults
// are pure functions per field rather than conditionals in the engine, so
// "use case test-gen implies the capable tier" is declared next to the field
// it fills and testable on its own.
package stage
