// Package engine wraps a single wazero.Runtime for the process lifetime. It
// compiles each guest module at most once per Engine, caching the result,
// and instantiates a fresh api.Module — fresh linear memory, fresh table and
// globals — for every call, since guest state must never leak between
// invocations.
//
// The intrinsics package registers the "wasi_snapshot_preview1" and "env"
// host modules directly against the wazero.Runtime returned by Runtime();
// this package has no knowledge of what those host functions do.
//
// # Thread Safety
//
// Engine is safe for concurrent use by multiple worker goroutines. Compile
// results are cached behind a mutex; Instantiate produces an independent
// api.Module per call with no shared mutable state.
package engine
