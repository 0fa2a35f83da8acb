package vfs

import (
	"io"
	"os"

	"github.com/ardhipoetra/faasm/wasierrno"
)

// Table is a per-module-instance file descriptor table. It is not
// synchronised: a Module Instance is never re-entered concurrently, so the
// table is accessed by exactly one goroutine for the lifetime of one call.
type Table struct {
	entries map[uint32]*FD
	nextID  uint32
	vfs     *VFS
}

// NewTable creates a Table seeded with one preopened directory FD per entry
// in preopens (guest-visible path -> host path), discoverable by the guest
// via fd_prestat_get starting at FD 3.
func NewTable(v *VFS, preopens map[string]string) *Table {
	t := &Table{
		entries: make(map[uint32]*FD),
		nextID:  3,
		vfs:     v,
	}
	for virtual, host := range preopens {
		fd := t.allocID()
		t.entries[fd] = &FD{
			ID:               fd,
			VirtualPath:      virtual,
			HostPath:         host,
			RightsBase:       RightsAll,
			RightsInheriting: RightsAll,
			Preopen:          true,
			IsDir:            true,
		}
	}
	return t
}

func (t *Table) allocID() uint32 {
	for {
		id := t.nextID
		t.nextID++
		if _, exists := t.entries[id]; !exists {
			return id
		}
	}
}

// Get returns the FD entry for id, or nil if it is not present.
func (t *Table) Get(id uint32) *FD {
	return t.entries[id]
}

// Preopens returns the preopened FD entries in ascending ID order, which is
// exactly the order fd_prestat_get's linear scan expects.
func (t *Table) Preopens() []*FD {
	var out []*FD
	for id := uint32(0); id < t.nextID; id++ {
		if fd, ok := t.entries[id]; ok && fd.Preopen {
			out = append(out, fd)
		}
	}
	return out
}

// Open resolves relPath under rootFd, applies masking, opens the native
// file honouring openFlags/fdFlags, and allocates a fresh FD. Rights
// requested are clamped to rootFd's rights-inheriting mask.
func (t *Table) Open(rootFd uint32, relPath string, rightsBase, rightsInheriting Rights, openFlags, fdFlags uint32) (uint32, wasierrno.Errno) {
	root := t.Get(rootFd)
	if root == nil {
		return 0, wasierrno.Badf
	}
	if !root.IsDir {
		return 0, wasierrno.Notdir
	}
	if !root.RightsBase.Has(RightPathOpen) {
		return 0, wasierrno.Notcapable
	}

	hostPath, virtualPath, err := maskPath(t.vfs.SharedRoot, root.VirtualPath, relPath)
	if err != nil {
		return 0, wasierrno.Notcapable
	}

	if err := t.vfs.materializeBlob(virtualPath, hostPath); err != nil {
		return 0, wasierrno.FromError(err)
	}

	clampedBase := rightsBase.Clamp(root.RightsInheriting)
	clampedInheriting := rightsInheriting.Clamp(root.RightsInheriting)

	flags := translateOpenFlags(openFlags)
	f, openErr := os.OpenFile(hostPath, flags, 0o644)
	if openErr != nil && wasierrno.FromError(openErr) == wasierrno.Isdir {
		f, openErr = os.Open(hostPath)
	}
	if openErr != nil {
		return 0, wasierrno.FromError(openErr)
	}

	info, statErr := f.Stat()
	isDir := statErr == nil && info.IsDir()
	if isDir {
		clampedBase |= RightsDirectory & root.RightsInheriting
	} else {
		clampedBase |= RightsRegularFile & root.RightsInheriting
	}

	id := t.allocID()
	t.entries[id] = &FD{
		ID:               id,
		VirtualPath:      virtualPath,
		HostPath:         hostPath,
		RightsBase:       clampedBase,
		RightsInheriting: clampedInheriting,
		FDFlags:          fdFlags,
		IsDir:            isDir,
		handle:           newHandle(f),
	}
	return id, wasierrno.Success
}

func translateOpenFlags(openFlags uint32) int {
	const (
		oflagsCreat    = 1 << 0
		oflagsDirectory = 1 << 1
		oflagsExcl     = 1 << 2
		oflagsTrunc    = 1 << 3
	)
	flags := os.O_RDWR
	if openFlags&oflagsCreat != 0 {
		flags |= os.O_CREATE
	}
	if openFlags&oflagsExcl != 0 {
		flags |= os.O_EXCL
	}
	if openFlags&oflagsTrunc != 0 {
		flags |= os.O_TRUNC
	}
	return flags
}

// Dup creates a new FD entry referencing fd's native handle, incrementing
// its shared reference count.
func (t *Table) Dup(fd uint32) (uint32, wasierrno.Errno) {
	src := t.Get(fd)
	if src == nil {
		return 0, wasierrno.Badf
	}
	if src.handle != nil {
		src.handle.retain()
	}
	id := t.allocID()
	t.entries[id] = &FD{
		ID:               id,
		VirtualPath:      src.VirtualPath,
		HostPath:         src.HostPath,
		RightsBase:       src.RightsBase,
		RightsInheriting: src.RightsInheriting,
		FDFlags:          src.FDFlags,
		IsDir:            src.IsDir,
		handle:           src.handle,
	}
	return id, wasierrno.Success
}

// Close releases fd. Preopens are immortal: closing one is a no-op that
// returns success, per the open question resolved in §9 of the governing
// document. Regular FDs release their native handle, decrementing the
// shared refcount, and the entry is removed either way.
func (t *Table) Close(fd uint32) wasierrno.Errno {
	entry := t.Get(fd)
	if entry == nil {
		return wasierrno.Badf
	}
	if entry.Preopen {
		return wasierrno.Success
	}
	var errno wasierrno.Errno
	if entry.handle != nil {
		if err := entry.handle.release(); err != nil {
			errno = wasierrno.FromError(err)
		}
	}
	delete(t.entries, fd)
	return errno
}

// CloseAll releases every non-preopen native handle, used at call teardown
// regardless of whether the call succeeded, failed, or was cancelled.
func (t *Table) CloseAll() {
	for id, entry := range t.entries {
		if entry.Preopen {
			continue
		}
		if entry.handle != nil {
			_ = entry.handle.release()
		}
		delete(t.entries, id)
	}
}

// Read performs a scatter read into bufs using fd's native handle.
func (t *Table) Read(fd uint32, bufs [][]byte) (uint32, wasierrno.Errno) {
	entry := t.Get(fd)
	if entry == nil {
		return 0, wasierrno.Badf
	}
	if !entry.RightsBase.Has(RightFDRead) {
		return 0, wasierrno.Notcapable
	}
	if entry.handle == nil {
		return 0, wasierrno.Badf
	}
	var total uint32
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		n, err := entry.handle.file.Read(b)
		total += uint32(n)
		if err != nil {
			if err == io.EOF {
				break
			}
			return total, wasierrno.FromError(err)
		}
		if n < len(b) {
			break
		}
	}
	return total, wasierrno.Success
}

// Write performs a gather write from bufs to fd's native handle, optionally
// mirroring into captureFn for FDs 0-2 when stdout capture is enabled. FDs 1
// and 2 have no table entry and write to the host's stdout and stderr.
func (t *Table) Write(fd uint32, bufs [][]byte, captureFn func([]byte)) (uint32, wasierrno.Errno) {
	entry := t.Get(fd)
	if entry == nil && (fd == 1 || fd == 2) {
		entry = &FD{ID: fd, RightsBase: RightFDWrite, handle: &handle{file: os.Stdout, refs: 1}}
		if fd == 2 {
			entry.handle.file = os.Stderr
		}
	}
	if entry == nil {
		return 0, wasierrno.Badf
	}
	if !entry.RightsBase.Has(RightFDWrite) {
		return 0, wasierrno.Notcapable
	}
	if entry.handle == nil {
		return 0, wasierrno.Badf
	}
	var total uint32
	for _, b := range bufs {
		n, err := entry.handle.file.Write(b)
		total += uint32(n)
		if captureFn != nil && fd <= 2 {
			captureFn(b[:n])
		}
		if err != nil {
			return total, wasierrno.FromError(err)
		}
	}
	return total, wasierrno.Success
}

// Seek updates fd's cursor. whence: 0=set, 1=cur, 2=end.
func (t *Table) Seek(fd uint32, offset int64, whence int) (uint64, wasierrno.Errno) {
	entry := t.Get(fd)
	if entry == nil {
		return 0, wasierrno.Badf
	}
	if !entry.RightsBase.Has(RightFDSeek) {
		return 0, wasierrno.Notcapable
	}
	if entry.handle == nil {
		return 0, wasierrno.Badf
	}
	pos, err := entry.handle.file.Seek(offset, whence)
	if err != nil {
		return 0, wasierrno.FromError(err)
	}
	return uint64(pos), wasierrno.Success
}

// Tell returns fd's current cursor without moving it.
func (t *Table) Tell(fd uint32) (uint64, wasierrno.Errno) {
	return t.Seek(fd, 0, io.SeekCurrent)
}

// Stat fills a StatRecord for fd itself (relPath empty) or for a path
// resolved relative to fd when relPath is non-empty.
func (t *Table) Stat(fd uint32, relPath string) (StatRecord, wasierrno.Errno) {
	entry := t.Get(fd)
	if entry == nil {
		return StatRecord{}, wasierrno.Badf
	}

	hostPath := entry.HostPath
	if relPath != "" {
		if !entry.RightsBase.Has(RightPathFilestatGet) {
			return StatRecord{}, wasierrno.Notcapable
		}
		resolved, _, err := maskPath(t.vfs.SharedRoot, entry.VirtualPath, relPath)
		if err != nil {
			return StatRecord{}, wasierrno.Notcapable
		}
		hostPath = resolved
	} else if !entry.RightsBase.Has(RightFDFilestatGet) {
		return StatRecord{}, wasierrno.Notcapable
	}

	info, err := os.Stat(hostPath)
	if err != nil {
		return StatRecord{}, wasierrno.FromError(err)
	}
	sys := statFromInfo(info)
	return sys, wasierrno.Success
}

func statFromInfo(info os.FileInfo) StatRecord {
	return StatRecord{
		Filetype: fileTypeOf(info),
		Size:     uint64(info.Size()),
		Mtim:     uint64(info.ModTime().UnixNano()),
		Nlink:    1,
	}
}

// Mkdir creates a directory relPath below fd.
func (t *Table) Mkdir(fd uint32, relPath string) wasierrno.Errno {
	entry := t.Get(fd)
	if entry == nil {
		return wasierrno.Badf
	}
	if !entry.RightsBase.Has(RightPathCreateDirectory) {
		return wasierrno.Notcapable
	}
	hostPath, _, err := maskPath(t.vfs.SharedRoot, entry.VirtualPath, relPath)
	if err != nil {
		return wasierrno.Notcapable
	}
	if mkErr := os.Mkdir(hostPath, 0o755); mkErr != nil {
		return wasierrno.FromError(mkErr)
	}
	return wasierrno.Success
}

// Unlink removes relPath below fd.
func (t *Table) Unlink(fd uint32, relPath string) wasierrno.Errno {
	entry := t.Get(fd)
	if entry == nil {
		return wasierrno.Badf
	}
	if !entry.RightsBase.Has(RightPathUnlinkFile) {
		return wasierrno.Notcapable
	}
	hostPath, _, err := maskPath(t.vfs.SharedRoot, entry.VirtualPath, relPath)
	if err != nil {
		return wasierrno.Notcapable
	}
	if rmErr := os.Remove(hostPath); rmErr != nil {
		return wasierrno.FromError(rmErr)
	}
	return wasierrno.Success
}

// Rename moves oldPath (below oldFd) to newPath (below newFd).
func (t *Table) Rename(oldFd uint32, oldPath string, newFd uint32, newPath string) wasierrno.Errno {
	src := t.Get(oldFd)
	dst := t.Get(newFd)
	if src == nil || dst == nil {
		return wasierrno.Badf
	}
	if !src.RightsBase.Has(RightPathRenameSource) || !dst.RightsBase.Has(RightPathRenameTarget) {
		return wasierrno.Notcapable
	}
	oldHost, _, err := maskPath(t.vfs.SharedRoot, src.VirtualPath, oldPath)
	if err != nil {
		return wasierrno.Notcapable
	}
	newHost, _, err := maskPath(t.vfs.SharedRoot, dst.VirtualPath, newPath)
	if err != nil {
		return wasierrno.Notcapable
	}
	if rnErr := os.Rename(oldHost, newHost); rnErr != nil {
		return wasierrno.FromError(rnErr)
	}
	return wasierrno.Success
}

// Readlink reads the symlink target below fd into a byte count bounded by
// bufLen, matching the guest-buffer convention used by fd_readdir.
func (t *Table) Readlink(fd uint32, relPath string, bufLen uint32) ([]byte, wasierrno.Errno) {
	entry := t.Get(fd)
	if entry == nil {
		return nil, wasierrno.Badf
	}
	if !entry.RightsBase.Has(RightPathReadlink) {
		return nil, wasierrno.Notcapable
	}
	hostPath, _, err := maskPath(t.vfs.SharedRoot, entry.VirtualPath, relPath)
	if err != nil {
		return nil, wasierrno.Notcapable
	}
	target, rlErr := os.Readlink(hostPath)
	if rlErr != nil {
		return nil, wasierrno.FromError(rlErr)
	}
	b := []byte(target)
	if uint32(len(b)) > bufLen {
		b = b[:bufLen]
	}
	return b, wasierrno.Success
}
