package vfs

import (
	"os"

	"github.com/ardhipoetra/faasm/memview"
	"github.com/ardhipoetra/faasm/wasierrno"
)

// startCookie is the reserved cursor value a guest must pass to begin a
// fresh directory iteration.
const startCookie uint64 = 0

// direntHeaderSize is the WASI dirent header: d_next (u64) + d_ino (u64) +
// d_namlen (u32) + d_type (u8, padded to 4 bytes).
const direntHeaderSize = 24

// ReadDir streams directory entries for fd into a buffer of at most maxBytes,
// starting from cookie. It enforces the iteration invariants from the
// governing document: a non-start cookie on a fresh iterator fails, and a
// start cookie on an already-started iterator returns Inval. The returned
// cookie is fed back into the next call to continue the total order.
func (t *Table) ReadDir(fd uint32, cookie uint64, maxBytes uint32) ([]byte, uint64, wasierrno.Errno) {
	entry := t.Get(fd)
	if entry == nil {
		return nil, 0, wasierrno.Badf
	}
	if !entry.IsDir {
		return nil, 0, wasierrno.Notdir
	}
	if !entry.RightsBase.Has(RightFDReaddir) {
		return nil, 0, wasierrno.Notcapable
	}

	if entry.cursor == nil {
		if cookie != startCookie {
			return nil, 0, wasierrno.Inval
		}
		ents, err := os.ReadDir(entry.HostPath)
		if err != nil {
			return nil, 0, wasierrno.FromError(err)
		}
		entry.cursor = &dirCursor{entries: ents}
	} else if cookie == startCookie && entry.cursor.started {
		return nil, 0, wasierrno.Inval
	}
	entry.cursor.started = true

	idx := int(cookie)
	if idx > len(entry.cursor.entries) {
		idx = len(entry.cursor.entries)
	}

	buf := make([]byte, 0, maxBytes)
	next := uint64(idx)
	for i := idx; i < len(entry.cursor.entries); i++ {
		de := entry.cursor.entries[i]
		name := de.Name()
		size := direntHeaderSize + len(name)
		if len(buf)+size > int(maxBytes) {
			break
		}

		hdr := make([]byte, direntHeaderSize)
		memview.PutU64(hdr[0:8], uint64(i+1))
		memview.PutU64(hdr[8:16], uint64(i+1)) // synthetic inode: position-derived, stable within one iteration
		memview.PutU32(hdr[16:20], uint32(len(name)))
		hdr[20] = byte(directoryEntryFiletype(de))

		buf = append(buf, hdr...)
		buf = append(buf, []byte(name)...)
		next = uint64(i + 1)
	}

	return buf, next, wasierrno.Success
}

func directoryEntryFiletype(de os.DirEntry) FileType {
	if de.IsDir() {
		return FileTypeDirectory
	}
	if de.Type()&os.ModeSymlink != 0 {
		return FileTypeSymbolicLink
	}
	return FileTypeRegularFile
}
