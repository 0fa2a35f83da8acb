package intrinsics

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/ardhipoetra/faasm/memview"
	"github.com/ardhipoetra/faasm/vfs"
	"github.com/ardhipoetra/faasm/wasierrno"
)

func pathOpen(ctx context.Context, mod api.Module, rootFd, lookupFlags, pathPtr, pathLen, openFlags uint32,
	rightsBase, rightsInheriting uint64, fdFlags, resFdPtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	path, err := view.Read(pathPtr, pathLen)
	if err != nil {
		return wasierrno.Fault
	}

	fd, errno := st.Table.Open(rootFd, string(path), vfs.Rights(rightsBase), vfs.Rights(rightsInheriting), openFlags, fdFlags)
	if errno != wasierrno.Success {
		return errno
	}
	if err := view.WriteU32(resFdPtr, fd); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

func pathCreateDirectory(ctx context.Context, mod api.Module, fd, pathPtr, pathLen uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	path, err := view.Read(pathPtr, pathLen)
	if err != nil {
		return wasierrno.Fault
	}
	return st.Table.Mkdir(fd, string(path))
}

func pathUnlinkFile(ctx context.Context, mod api.Module, fd, pathPtr, pathLen uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	path, err := view.Read(pathPtr, pathLen)
	if err != nil {
		return wasierrno.Fault
	}
	return st.Table.Unlink(fd, string(path))
}

func pathRemoveDirectory(ctx context.Context, mod api.Module, fd, pathPtr, pathLen uint32) uint32 {
	// A directory and a file are unlinked the same way in this VFS: both
	// resolve to a single masked os.Remove, which refuses a non-empty
	// directory on its own (ENOTEMPTY), matching native semantics.
	return pathUnlinkFile(ctx, mod, fd, pathPtr, pathLen)
}

func pathRename(ctx context.Context, mod api.Module, oldFd, oldPathPtr, oldPathLen, newFd, newPathPtr, newPathLen uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	oldPath, err := view.Read(oldPathPtr, oldPathLen)
	if err != nil {
		return wasierrno.Fault
	}
	newPath, err := view.Read(newPathPtr, newPathLen)
	if err != nil {
		return wasierrno.Fault
	}
	return st.Table.Rename(oldFd, string(oldPath), newFd, string(newPath))
}

func pathReadlink(ctx context.Context, mod api.Module, fd, pathPtr, pathLen, bufPtr, bufLen, resSizePtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	path, err := view.Read(pathPtr, pathLen)
	if err != nil {
		return wasierrno.Fault
	}

	target, errno := st.Table.Readlink(fd, string(path), bufLen)
	if errno != wasierrno.Success {
		return errno
	}
	if len(target) > 0 {
		if err := view.Write(bufPtr, target); err != nil {
			return wasierrno.Fault
		}
	}
	if err := view.WriteU32(resSizePtr, uint32(len(target))); err != nil {
		return wasierrno.Fault
	}
	return wasierrno.Success
}

func pathFilestatGet(ctx context.Context, mod api.Module, fd, lookupFlags, pathPtr, pathLen, resPtr uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	path, err := view.Read(pathPtr, pathLen)
	if err != nil {
		return wasierrno.Fault
	}

	rec, errno := st.Table.Stat(fd, string(path))
	if errno != wasierrno.Success {
		return errno
	}
	return writeFilestat(view, resPtr, rec)
}
