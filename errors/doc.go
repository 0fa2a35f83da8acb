// Package errors provides the structured host-internal error type shared by
// every component of the runtime.
//
// Errors are categorized by Phase (which subsystem raised it) and Kind (the
// category of failure). These are distinct from a WASI errno: a WASI errno
// is what an intrinsic returns to the guest; *Error is what gets logged and
// what an executor uses to decide a call failed outright (taxonomy category
// vi — host-internal errors).
//
// Use the Builder for ad-hoc construction:
//
//	err := errors.New(errors.PhaseVFS, errors.KindPermission).
//		Path("path_open").
//		Detail("escapes shared root").
//		Build()
//
// or one of the convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseMemory, offset, length)
//	err := errors.Unimplemented("poll_oneoff")
package errors
