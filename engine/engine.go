// Package engine wraps a single wazero.Runtime for the process lifetime: it
// compiles guest modules once, owns the host module built from the
// intrinsic dispatch table, and instantiates a fresh guest instance (fresh
// linear memory, fresh FD table) per call.
package engine

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/ardhipoetra/faasm/errors"
)

// Config mirrors the subset of wazero.RuntimeConfig the rest of the system
// needs to control: a per-instance memory ceiling, and an EnableThreads flag
// that New accepts but ignores (the threads feature is never enabled).
type Config struct {
	MemoryLimitPages uint32
	EnableThreads    bool
}

// Engine is the process-wide wazero wrapper. It is safe for concurrent use
// by every executor: wazero.Runtime itself serialises compilation, and
// instantiation produces an independent api.Module per call.
type Engine struct {
	runtime wazero.Runtime

	mu       sync.Mutex
	compiled map[string]wazero.CompiledModule
}

// New creates an Engine from cfg.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	rc := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		rc = rc.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	// EnableThreads is accepted for parity with the configuration surface
	// but shared-memory guests are out of scope here: no intrinsic in this
	// package needs atomics, so we never flip wazero's experimental threads
	// feature on.
	_ = cfg.EnableThreads

	rt := wazero.NewRuntimeWithConfig(ctx, rc)

	return &Engine{
		runtime:  rt,
		compiled: make(map[string]wazero.CompiledModule),
	}, nil
}

// Runtime exposes the underlying wazero.Runtime so the intrinsics package
// can build the "env"/"wasi_snapshot_preview1" host module against it.
func (e *Engine) Runtime() wazero.Runtime {
	return e.runtime
}

// Compile compiles wasmBytes, caching by key (typically a content hash or
// the function name) so repeated calls to the same guest module reuse the
// compiled form. The cache is keyed by caller-supplied key rather than
// content hash to avoid hashing large modules on every call.
func (e *Engine) Compile(ctx context.Context, key string, wasmBytes []byte) (wazero.CompiledModule, error) {
	e.mu.Lock()
	if cm, ok := e.compiled[key]; ok {
		e.mu.Unlock()
		return cm, nil
	}
	e.mu.Unlock()

	cm, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEngine, errors.KindInvalidInput, err, "compile module")
	}
	Logger().Debug("compiled guest module", zap.String("key", key), zap.Int("bytes", len(wasmBytes)))

	e.mu.Lock()
	e.compiled[key] = cm
	e.mu.Unlock()
	return cm, nil
}

// Instantiate instantiates compiled with moduleConfig, giving the guest a
// fresh linear memory and a fresh set of exports. Each call to Instantiate
// produces an independent api.Module; callers must Close it when the call
// completes, including on the failure path.
func (e *Engine) Instantiate(ctx context.Context, compiled wazero.CompiledModule, moduleConfig wazero.ModuleConfig) (api.Module, error) {
	mod, err := e.runtime.InstantiateModule(ctx, compiled, moduleConfig)
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	return mod, nil
}

// Close closes the underlying wazero.Runtime, releasing every compiled
// module and host module registered against it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}
