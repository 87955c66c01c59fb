// Package wizard implements the setup wizard's state machine.
//
// A Session walks the stage catalog in order, collecting validated field
// values into a pending buffer and merging the buffer into its draft when a
// stage completes. Navigation never loses answers: Back and JumpTo only move
// the pointer, so re-entering a stage pre-fills the previous values. The
// terminal review stage hands the complete draft to the commit pipeline,
// which runs cross-stage consistency checks and performs one atomic write
// through the persistence collaborator.
//
// Sessions are single-threaded by design; the engine processes one input at
// a time and nothing else touches the draft.
package wizard
