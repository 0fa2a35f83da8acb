package intrinsics

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/ardhipoetra/faasm/memview"
	"github.com/ardhipoetra/faasm/vfs"
	"github.com/ardhipoetra/faasm/wasierrno"
)

// The direct-result convention used throughout this file: every function
// returns a single i32 Errno; any additional output is written through an
// out-pointer the guest supplied, per the WASI snapshot-preview1 ABI notes
// on translating multi-result functions into parameters.

const (
	prestatDir = 0 // __wasi_preopentype_t::DIR
)

func fdPrestatGet(ctx context.Context, mod api.Module, fd, resPtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	entry := st.Table.Get(fd)
	if entry == nil || !entry.Preopen {
		return wasierrno.Badf
	}

	buf := make([]byte, 8)
	buf[0] = prestatDir
	memview.PutU32(buf[4:8], uint32(len(entry.VirtualPath)))
	if err := view.Write(resPtr, buf); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

func fdPrestatDirName(ctx context.Context, mod api.Module, fd, bufPtr, bufLen uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	entry := st.Table.Get(fd)
	if entry == nil || !entry.Preopen {
		return wasierrno.Badf
	}

	name := []byte(entry.VirtualPath)
	if uint32(len(name)) > bufLen {
		return wasierrno.Nametoolong
	}
	if err := view.Write(bufPtr, name); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

func fdClose(ctx context.Context, mod api.Module, fd uint32) uint32 {
	st := FromContext(ctx)
	return st.Table.Close(fd)
}

func fdRead(ctx context.Context, mod api.Module, fd, iovecsPtr, iovecCount, resBytesPtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	iovs, err := view.ReadIovecsMut(iovecsPtr, iovecCount)
	if err != nil {
		return wasierrno.Fault
	}

	bufs := make([][]byte, len(iovs))
	for i, iov := range iovs {
		b, err := view.Read(iov.Base, iov.Len)
		if err != nil {
			return wasierrno.Fault
		}
		bufs[i] = b
	}

	n, errno := st.Table.Read(fd, bufs)
	if errno != wasierrno.Success {
		return errno
	}
	if err := view.WriteU32(resBytesPtr, n); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

func fdWrite(ctx context.Context, mod api.Module, fd, iovecsPtr, iovecCount, resBytesPtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	bufs, err := view.ReadIovecs(iovecsPtr, iovecCount)
	if err != nil {
		return wasierrno.Fault
	}

	var capture func([]byte)
	if st.Capture != nil && st.Capture.Enabled() {
		capture = st.Capture.Write
	}

	n, errno := st.Table.Write(fd, bufs, capture)
	if errno != wasierrno.Success {
		return errno
	}
	if err := view.WriteU32(resBytesPtr, n); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

func fdSeek(ctx context.Context, mod api.Module, fd uint32, offset uint64, whence uint32, resPtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	pos, errno := st.Table.Seek(fd, int64(offset), int(whence))
	if errno != wasierrno.Success {
		return errno
	}
	if err := view.WriteU64(resPtr, pos); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

func fdTell(ctx context.Context, mod api.Module, fd, resPtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	pos, errno := st.Table.Tell(fd)
	if errno != wasierrno.Success {
		return errno
	}
	if err := view.WriteU64(resPtr, pos); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

// fdstat layout: fs_filetype (1B) + fs_flags (2B) + 5 pad + fs_rights_base
// (8B) + fs_rights_inheriting (8B) = 24 bytes.
func fdFdstatGet(ctx context.Context, mod api.Module, fd, resPtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	entry := st.Table.Get(fd)
	if entry == nil {
		return wasierrno.Badf
	}

	buf := make([]byte, 24)
	if entry.IsDir {
		buf[0] = byte(vfs.FileTypeDirectory)
	} else {
		buf[0] = byte(vfs.FileTypeRegularFile)
	}
	buf[2] = byte(entry.FDFlags)
	buf[3] = byte(entry.FDFlags >> 8)
	memview.PutU64(buf[8:16], uint64(entry.RightsBase))
	memview.PutU64(buf[16:24], uint64(entry.RightsInheriting))

	if err := view.Write(resPtr, buf); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

func fdFdstatSetFlags(ctx context.Context, mod api.Module, fd, flags uint32) uint32 {
	st := FromContext(ctx)
	entry := st.Table.Get(fd)
	if entry == nil {
		return wasierrno.Badf
	}
	entry.FDFlags = flags
	return wasierrno.Success
}

// filestat layout: st_dev(8) st_ino(8) filetype(1)+7pad st_nlink(8)
// st_size(8) st_atim(8) st_mtim(8) st_ctim(8) = 64 bytes.
func fdFilestatGet(ctx context.Context, mod api.Module, fd, resPtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	rec, errno := st.Table.Stat(fd, "")
	if errno != wasierrno.Success {
		return errno
	}
	return writeFilestat(view, resPtr, rec)
}

func writeFilestat(view *memview.View, ptr uint32, rec vfs.StatRecord) uint32 {
	buf := make([]byte, 64)
	memview.PutU64(buf[0:8], rec.Dev)
	memview.PutU64(buf[8:16], rec.Ino)
	buf[16] = byte(rec.Filetype)
	memview.PutU64(buf[24:32], rec.Nlink)
	memview.PutU64(buf[32:40], rec.Size)
	memview.PutU64(buf[40:48], rec.Atim)
	memview.PutU64(buf[48:56], rec.Mtim)
	memview.PutU64(buf[56:64], rec.Ctim)
	if err := view.Write(ptr, buf); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

// fdAdvise is a harmless no-op per the stub policy: advisory hints about
// future access patterns have no effect on a masked, synchronous VFS.
func fdAdvise(ctx context.Context, mod api.Module, fd uint32, offset, length uint64, advice uint32) uint32 {
	st := FromContext(ctx)
	if st.Table.Get(fd) == nil {
		return wasierrno.Badf
	}
	return wasierrno.Success
}

func fdReaddir(ctx context.Context, mod api.Module, fd, bufPtr, bufLen uint32, cookie uint64, resSizePtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	data, _, errno := st.Table.ReadDir(fd, cookie, bufLen)
	if errno != wasierrno.Success {
		return errno
	}
	if len(data) > 0 {
		if err := view.Write(bufPtr, data); err != nil {
			return wasierrno.Fault
		}
	}
	if err := view.WriteU32(resSizePtr, uint32(len(data))); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}
