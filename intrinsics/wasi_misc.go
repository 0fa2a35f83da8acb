package intrinsics

import (
	"context"
	"crypto/rand"

	"github.com/tetratelabs/wazero/api"

	"github.com/ardhipoetra/faasm/memview"
	"github.com/ardhipoetra/faasm/wasierrno"
)

// clockTimeGet ignores clockId and precision: the only clock this runtime
// exposes is the fake monotonic counter, per the resolved open question on
// determinism. The configuration has no real-time switch.
func clockTimeGet(ctx context.Context, mod api.Module, clockID uint32, precision uint64, resPtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	now := st.Clock.Now()
	if err := view.WriteU64(resPtr, now); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

func clockResGet(ctx context.Context, mod api.Module, clockID uint32, resPtr uint32) uint32 {
	view := memview.New(mod.Memory())
	if err := view.WriteU64(resPtr, 1); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

// argsSizesGet / argsGet report zero CLI arguments: the guest is driven by
// the chaining protocol's input region, not argv.
func argsSizesGet(ctx context.Context, mod api.Module, argcPtr, argvBufSizePtr uint32) uint32 {
	view := memview.New(mod.Memory())
	if err := view.WriteU32(argcPtr, 0); err != nil {
		return wasierrno.Fault
	}
	if err := view.WriteU32(argvBufSizePtr, 0); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

func argsGet(ctx context.Context, mod api.Module, argvPtr, argvBufPtr uint32) uint32 {
	return wasierrno.Success
}

func environSizesGet(ctx context.Context, mod api.Module, countPtr, bufSizePtr uint32) uint32 {
	view := memview.New(mod.Memory())
	if err := view.WriteU32(countPtr, 0); err != nil {
		return wasierrno.Fault
	}
	if err := view.WriteU32(bufSizePtr, 0); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

func environGet(ctx context.Context, mod api.Module, environPtr, environBufPtr uint32) uint32 {
	return wasierrno.Success
}

func randomGet(ctx context.Context, mod api.Module, bufPtr, bufLen uint32) uint32 {
	view := memview.New(mod.Memory())
	b := make([]byte, bufLen)
	if _, err := rand.Read(b); err != nil {
		return wasierrno.Io
	}
	if err := view.Write(bufPtr, b); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

// procExit records the guest's requested exit code on the call state, then
// closes the module with that exit code. wazero turns the in-flight
// ExportedFunction.Call into a *sys.ExitError carrying the same code, which
// the executor checks to distinguish a clean exit from a trap.
func procExit(ctx context.Context, mod api.Module, code uint32) {
	st := FromContext(ctx)
	st.Exited = true
	st.ExitCode = code
	_ = mod.CloseWithExitCode(ctx, code)
}

func schedYield(ctx context.Context, mod api.Module) uint32 {
	return wasierrno.Success
}

// pollOneoff is deliberately unsupported: blocking I/O multiplexing is out
// of scope. It aborts the call the same way an unimplemented env intrinsic
// does.
func pollOneoff(ctx context.Context, mod api.Module, inPtr, outPtr, nsubscriptions, resSizePtr uint32) uint32 {
	abortUnimplemented(ctx, mod, "poll_oneoff")
	return wasierrno.Nosys
}

func sockRecv(ctx context.Context, mod api.Module, fd, riPtr, riCount, flags, roDataLenPtr, roFlagsPtr uint32) uint32 {
	abortUnimplemented(ctx, mod, "sock_recv")
	return wasierrno.Notsock
}

func sockSend(ctx context.Context, mod api.Module, fd, siPtr, siCount, flags, soDataLenPtr uint32) uint32 {
	abortUnimplemented(ctx, mod, "sock_send")
	return wasierrno.Notsock
}

func sockShutdown(ctx context.Context, mod api.Module, fd, how uint32) uint32 {
	abortUnimplemented(ctx, mod, "sock_shutdown")
	return wasierrno.Notsock
}
