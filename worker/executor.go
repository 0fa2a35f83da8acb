package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	wazerosys "github.com/tetratelabs/wazero/sys"

	faasmerrors "github.com/ardhipoetra/faasm/errors"
	"github.com/ardhipoetra/faasm/clock"
	"github.com/ardhipoetra/faasm/engine"
	"github.com/ardhipoetra/faasm/intrinsics"
	"github.com/ardhipoetra/faasm/memview"
	"github.com/ardhipoetra/faasm/vfs"
)

// entrypoint is the guest export every function module must provide. It
// takes the input length and returns the output length; both regions sit at
// fixed offsets in guest memory, per the Guest Memory Layout convention.
const entrypoint = "run"

// Executor runs one CallRecord to completion on the calling goroutine. It
// must never be shared across goroutines: an Executor owns exactly one
// Module Instance at a time and drives it synchronously, matching the
// single-threaded-per-call guarantee the concurrency model requires.
type Executor struct {
	Engine *engine.Engine
	VFS    *vfs.VFS
	Loader Loader

	CaptureStdout bool
}

// Run compiles (or reuses the cached compilation of) rec.Function, runs it
// against rec.Input, and fills in rec.Output/Chains/Status/ErrDesc.
func (e *Executor) Run(ctx context.Context, rec *CallRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	wasmBytes, err := e.Loader.Load(ctx, rec.Function)
	if err != nil {
		rec.Status = StatusHostError
		rec.ErrDesc = err.Error()
		return err
	}

	compiled, err := e.Engine.Compile(ctx, rec.Function, wasmBytes)
	if err != nil {
		rec.Status = StatusHostError
		rec.ErrDesc = err.Error()
		return err
	}

	table := vfs.NewTable(e.VFS, e.VFS.Preopens())
	defer table.CloseAll()

	state := &intrinsics.State{
		Table:   table,
		Clock:   clock.NewFakeClock(),
		Capture: clock.NewCapture(e.CaptureStdout),
	}
	callCtx := intrinsics.WithState(ctx, state)

	modCfg := wazero.NewModuleConfig().WithName(fmt.Sprintf("%s-%s", rec.Function, rec.CallID))
	mod, err := e.Engine.Instantiate(callCtx, compiled, modCfg)
	if err != nil {
		rec.Status = StatusHostError
		rec.ErrDesc = err.Error()
		return err
	}
	defer mod.Close(callCtx)

	if err := writeInput(mod, rec.Input); err != nil {
		rec.Status = StatusHostError
		rec.ErrDesc = err.Error()
		return err
	}

	run := mod.ExportedFunction(entrypoint)
	if run == nil {
		err := faasmerrors.NotFound(faasmerrors.PhaseWorker, "export", entrypoint)
		rec.Status = StatusHostError
		rec.ErrDesc = err.Error()
		return err
	}

	results, callErr := run.Call(callCtx, uint64(len(rec.Input)))

	var exitErr *wazerosys.ExitError
	switch {
	case callErr == nil:
		rec.Status = StatusSuccess
	case errors.As(callErr, &exitErr) && exitErr.ExitCode() == 0:
		rec.Status = StatusSuccess
	case errors.As(callErr, &exitErr):
		rec.Status = StatusGuestError
		if state.Aborted != nil {
			rec.ErrDesc = state.Aborted.Error()
			var abortErr *faasmerrors.Error
			if errors.As(state.Aborted, &abortErr) && abortErr.Kind == faasmerrors.KindUnimplemented {
				rec.Status = StatusUnimplementedIntrinsic
			}
		} else {
			rec.ErrDesc = exitErr.Error()
		}
	default:
		rec.Status = StatusHostError
		rec.ErrDesc = callErr.Error()
		return callErr
	}

	var outputLen uint32
	if len(results) > 0 {
		outputLen = uint32(results[0])
	}
	output, err := readOutput(mod, outputLen)
	if err != nil {
		rec.Status = StatusHostError
		rec.ErrDesc = err.Error()
		return err
	}
	rec.Output = output

	rec.Chains = make([]ChainResult, 0, len(state.Chains))
	for _, c := range state.Chains {
		rec.Chains = append(rec.Chains, ChainResult{Name: c.Name, Input: c.Input})
	}

	return nil
}

func writeInput(mod api.Module, input []byte) error {
	if len(input) == 0 {
		return nil
	}
	view := memview.New(mod.Memory())
	return view.Write(InputRegionStart, input)
}

func readOutput(mod api.Module, length uint32) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	if length > OutputRegionSize {
		length = OutputRegionSize
	}
	view := memview.New(mod.Memory())
	return view.ReadCopy(OutputRegionStart, length)
}
