package intrinsics

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/ardhipoetra/faasm/memview"
	"github.com/ardhipoetra/faasm/wasierrno"
)

// envDup duplicates a native FD the way dup(2) does, sharing the underlying
// handle rather than the table entry.
func envDup(ctx context.Context, mod api.Module, fd uint32) uint32 {
	st := FromContext(ctx)
	newFd, errno := st.Table.Dup(fd)
	if errno != wasierrno.Success {
		return ^uint32(0)
	}
	return newFd
}

// envPuts writes a NUL-terminated guest string to fd 1, bypassing the
// iovec-based fd_write path used by the real WASI ABI. Legacy guests linked
// against an emscripten-style libc still call into this directly.
func envPuts(ctx context.Context, mod api.Module, strPtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	s, err := view.ReadString(strPtr)
	if err != nil {
		return wasierrno.Fault
	}
	b := append([]byte(s), '\n')
	if st.Capture != nil && st.Capture.Enabled() {
		st.Capture.Write(b)
	}
	_, errno := st.Table.Write(1, [][]byte{b}, nil)
	if errno != wasierrno.Success {
		return errno
	}
	return wasierrno.Success
}

func envPutc(ctx context.Context, mod api.Module, c uint32) uint32 {
	st := FromContext(ctx)
	b := []byte{byte(c)}
	if st.Capture != nil && st.Capture.Enabled() {
		st.Capture.Write(b)
	}
	_, errno := st.Table.Write(1, [][]byte{b}, nil)
	return errno
}

// envVfprintf is not format-string-aware on the host side: it writes the
// guest's format string to fd 1 as-is, without walking the varargs at
// argsPtr, so conversion specifiers are printed literally.
func envVfprintf(ctx context.Context, mod api.Module, filePtr, fmtPtr, argsPtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	s, err := view.ReadString(fmtPtr)
	if err != nil {
		return wasierrno.Fault
	}
	b := []byte(s)
	if st.Capture != nil && st.Capture.Enabled() {
		st.Capture.Write(b)
	}
	_, errno := st.Table.Write(1, [][]byte{b}, nil)
	return errno
}

// envBzero zeroes length bytes of guest memory starting at ptr.
func envBzero(ctx context.Context, mod api.Module, ptr, length uint32) {
	view := memview.New(mod.Memory())
	zeros := make([]byte, length)
	_ = view.Write(ptr, zeros)
}

// The functions below are legacy emscripten syscall shims. A handful are
// real no-ops on this host (the guest never needs an actual ioctl/poll
// against a masked VFS); the rest are classified unimplemented because
// nothing in this runtime's scope ever exercises sockets, threads, or
// signals from a guest.

func syscallIoctl(ctx context.Context, mod api.Module, fd, request, argp uint32) uint32 {
	return 0
}

func syscallLlseek(ctx context.Context, mod api.Module, fd, offsetHigh, offsetLow, resultPtr, whence uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	offset := int64(offsetLow)
	pos, errno := st.Table.Seek(fd, offset, int(whence))
	if errno != wasierrno.Success {
		return ^uint32(0)
	}
	if err := view.WriteU32(resultPtr, uint32(pos)); err != nil {
		return ^uint32(0)
	}
	return 0
}

func syscallWritev(ctx context.Context, mod api.Module, fd, iov, iovcnt uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	bufs, err := view.ReadIovecs(iov, iovcnt)
	if err != nil {
		return ^uint32(0)
	}
	var capture func([]byte)
	if st.Capture != nil && st.Capture.Enabled() {
		capture = st.Capture.Write
	}
	n, errno := st.Table.Write(fd, bufs, capture)
	if errno != wasierrno.Success {
		return ^uint32(0)
	}
	return n
}

func syscallPoll(ctx context.Context, mod api.Module, fds, nfds, timeout uint32) uint32 {
	abortUnimplemented(ctx, mod, "__syscall_poll")
	return ^uint32(0)
}

func syscallOpen(ctx context.Context, mod api.Module, pathPtr, flags, mode uint32) uint32 {
	abortUnimplemented(ctx, mod, "__syscall_open")
	return ^uint32(0)
}

func syscallClose(ctx context.Context, mod api.Module, fd uint32) uint32 {
	abortUnimplemented(ctx, mod, "__syscall_close")
	return ^uint32(0)
}

func syscallFutex(ctx context.Context, mod api.Module, uaddr, op, val, timeout, uaddr2, val3 uint32) uint32 {
	abortUnimplemented(ctx, mod, "__syscall_futex")
	return ^uint32(0)
}

func syscallSocketcall(ctx context.Context, mod api.Module, call, args uint32) uint32 {
	abortUnimplemented(ctx, mod, "__syscall_socketcall")
	return ^uint32(0)
}

func gethostbyname(ctx context.Context, mod api.Module, namePtr uint32) uint32 {
	abortUnimplemented(ctx, mod, "_gethostbyname")
	return 0
}

func syscallExitGroup(ctx context.Context, mod api.Module, code uint32) {
	procExit(ctx, mod, code)
}

func syscallExit(ctx context.Context, mod api.Module, code uint32) {
	procExit(ctx, mod, code)
}

func syscallGettid(ctx context.Context, mod api.Module) uint32 {
	return 1
}

func syscallTkill(ctx context.Context, mod api.Module, tid, sig uint32) uint32 {
	abortUnimplemented(ctx, mod, "__syscall_tkill")
	return ^uint32(0)
}

func syscallRtSigprocmask(ctx context.Context, mod api.Module, how, set, oldset uint32) uint32 {
	return 0
}

// The __wavix_* intrinsics expose a second, unrelated argv surface some
// legacy guests probe for even though this runtime never populates one.
func wavixGetNumArgs(ctx context.Context, mod api.Module) uint32 {
	return 0
}

func wavixGetArgLength(ctx context.Context, mod api.Module, index uint32) uint32 {
	return 0
}

func wavixGetArg(ctx context.Context, mod api.Module, index, bufPtr, bufLen uint32) uint32 {
	return 0
}
