// Package diag defines the diagnostic model shared by the IDL load phases.
//
// # Purpose
//
//   - Deterministic data structures describing findings of the lexer, parser,
//     commit pass and native resolution.
//   - Light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//   - A small error taxonomy for failures that abort a load.
//
// # Codes
//
// Code ranges map to stable prefixes: LEX1xxx lexical, SYN2xxx syntax,
// SEM3xxx commit-pass semantics, IO4xxx file and cache access, RES5xxx native
// module loading and symbol resolution.
//
// # Errors
//
// Every load failure is unrecoverable at the point of detection. Phases return
// an *Error whose Class is one of ErrSyntax, ErrSemantic, ErrResolution or
// ErrIO. The error also unwraps to its Cause (for example the dynamic
// loader's message). Library code never terminates the process; the CLI and
// bridge.Context.MustLoadIDL do that after rendering the diagnostic.
//
// Warnings (duplicate function names) travel through a Reporter and never
// abort a load.
//
// Package diag does not format or print anything; see internal/diagfmt.
package diag
