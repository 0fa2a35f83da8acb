// Package faasm provides a sandboxed WebAssembly function-as-a-service host
// runtime: syscall and intrinsic dispatch at the guest/host boundary, a
// masked virtual filesystem, and a chaining protocol that lets one guest
// invocation enqueue others.
//
// # Architecture Overview
//
//	faasm/                Root module
//	├── cmd/worker/        Process entry point: config, wiring, pool startup
//	├── engine/            wazero.Runtime lifecycle: compile, instantiate, close
//	├── intrinsics/        WASI snapshot-preview1 + legacy env host functions
//	├── memview/           Bounds-checked guest linear memory accessor
//	├── vfs/               FD table, rights, path masking, directory iteration
//	├── wasierrno/         Guest-visible WASI errno values and translation
//	├── worker/            Module executor and the call-dispatch loop
//	├── queue/             Chain-publish transport (Redis-backed, or no-op)
//	├── objectstore/       S3-compatible blob materialization for the VFS
//	├── config/            YAML + environment configuration loading
//	├── errors/            Structured host-internal error types
//	└── clock/             Deterministic fake clock and stdout capture
//
// # Call Lifecycle
//
// A worker pulls a CallRecord, compiles (or reuses a cached compilation of)
// the target guest module, instantiates it with a fresh vfs.Table and
// intrinsics.State attached to the instantiation context, writes the call's
// input into the guest's fixed input region, invokes its exported entry
// point, and on return collects the guest's output and any chained calls it
// requested before publishing them onward.
//
// # Thread Safety
//
// Engine is safe for concurrent use by multiple worker goroutines: wazero's
// Runtime serialises compilation internally, and each call gets its own
// api.Module with independent linear memory. vfs.Table and intrinsics.State
// are per-call and must not be shared across goroutines.
package faasm
