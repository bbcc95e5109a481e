// Package restic is the boundary to the restic backup engine.
//
// The engine is an external collaborator invoked as a subprocess; it owns
// all storage, deduplication, and snapshot semantics. This package only
// constructs argument lists, forwards streams, and decodes the listing
// output the runner depends on. Every invocation uses a structured argument
// vector, never a shell.
//
// [Engine] is the capability surface the rest of the runner consumes.
// [ExecEngine] is the production implementation; tests substitute fakes.
package restic
