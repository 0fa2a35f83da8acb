package vfs

import (
	"os"
	"sync/atomic"
)

// FileType is the WASI filetype tag.
type FileType uint8

const (
	FileTypeUnknown FileType = iota
	FileTypeBlockDevice
	FileTypeCharacterDevice
	FileTypeDirectory
	FileTypeRegularFile
	FileTypeSocketDgram
	FileTypeSocketStream
	FileTypeSymbolicLink
)

func fileTypeOf(info os.FileInfo) FileType {
	switch {
	case info.IsDir():
		return FileTypeDirectory
	case info.Mode()&os.ModeSymlink != 0:
		return FileTypeSymbolicLink
	case info.Mode()&os.ModeDevice != 0:
		if info.Mode()&os.ModeCharDevice != 0 {
			return FileTypeCharacterDevice
		}
		return FileTypeBlockDevice
	case info.Mode()&os.ModeSocket != 0:
		return FileTypeSocketStream
	default:
		return FileTypeRegularFile
	}
}

// StatRecord mirrors a POSIX stat plus the WASI filetype tag and a failure
// flag, so a VFS lookup failure can be round-tripped through the same type
// the caller serialises into the guest ABI.
type StatRecord struct {
	Dev      uint64
	Ino      uint64
	Filetype FileType
	Nlink    uint64
	Size     uint64
	Atim     uint64 // nanoseconds since epoch
	Mtim     uint64
	Ctim     uint64
	Failed   bool
	Errno    uint32
}

// handle is the native OS handle shared by every FD entry that refers to the
// same open file, per the dup() contract: duplicating an entry does not
// duplicate the native descriptor, it increments a reference count, and the
// handle is released only when the count reaches zero.
type handle struct {
	file *os.File
	refs int32
}

func newHandle(f *os.File) *handle {
	return &handle{file: f, refs: 1}
}

func (h *handle) retain() {
	atomic.AddInt32(&h.refs, 1)
}

// release decrements the refcount and closes the native file once it drops
// to zero. Returns the close error, if any.
func (h *handle) release() error {
	if atomic.AddInt32(&h.refs, -1) > 0 {
		return nil
	}
	return h.file.Close()
}

// dirCursor tracks directory-iteration progress across successive
// fd_readdir calls as an explicit, opaque position token rather than a
// generator: it is just the index into a cached, sorted entry list taken on
// first access.
type dirCursor struct {
	entries []os.DirEntry
	started bool
}

// FD is one entry in a Table: a guest-visible integer mapped to VFS state.
type FD struct {
	ID uint32

	VirtualPath string
	HostPath    string

	RightsBase       Rights
	RightsInheriting Rights

	FDFlags uint32

	Preopen  bool
	IsDir    bool
	handle   *handle
	cursor   *dirCursor
	LastErrno uint32
}
