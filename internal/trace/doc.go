// Package trace records what the IDL loader is doing.
//
// Events are spans (Begin/End) and instant points, each tagged with a
// Scope. The active Level decides which scopes are written:
//
//   - LevelOff: nothing
//   - LevelError: nothing while running; a ring tracer is dumped on failure
//   - LevelPhase: driver commands and passes (parse, commit, resolve)
//   - LevelDetail: plus per-file spans
//   - LevelDebug: plus per-entry points (registered functions, hook misses)
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "commit", 0)
//	defer span.End("")
package trace
