// Package memview implements the bounds-checked guest-memory accessor
// contract: every intrinsic reaches the active wazero module's linear memory
// only through a View, never through api.Memory directly, so that a bad
// guest offset turns into a WASI errno instead of a host panic.
package memview

import (
	"encoding/binary"

	"github.com/tetratelabs/wazero/api"

	"github.com/ardhipoetra/faasm/errors"
)

// maxCStringScan bounds how far ReadString will scan for a NUL terminator
// before giving up, so a guest can never force the host into an unbounded
// scan over its whole address space.
const maxCStringScan = 16 * 1024

// View wraps a single call's api.Memory with the bounds-checking contract.
// A View must not be retained across guest re-entry: if the guest grows its
// memory mid-call, the underlying api.Memory is still valid (wazero tracks
// growth internally) but any byte slice previously borrowed from it may have
// been invalidated by reallocation.
type View struct {
	mem api.Memory
}

// New wraps mem in a View.
func New(mem api.Memory) *View {
	return &View{mem: mem}
}

// Size returns the current memory size in bytes.
func (v *View) Size() uint32 {
	return v.mem.Size()
}

// Read returns a borrowed slice covering guest memory [offset, offset+length).
// The slice aliases the guest's linear memory; callers that need to retain
// data past the current intrinsic call must copy it.
func (v *View) Read(offset, length uint32) ([]byte, error) {
	if overflows(offset, length) {
		return nil, errors.OutOfBounds(errors.PhaseMemory, offset, length)
	}
	b, ok := v.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, offset, length)
	}
	return b, nil
}

// ReadCopy is Read but returns an owned copy, safe to retain past the call.
func (v *View) ReadCopy(offset, length uint32) ([]byte, error) {
	b, err := v.Read(offset, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// Write copies data into guest memory starting at offset.
func (v *View) Write(offset uint32, data []byte) error {
	if overflows(offset, uint32(len(data))) {
		return errors.OutOfBounds(errors.PhaseMemory, offset, uint32(len(data)))
	}
	if !v.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseMemory, offset, uint32(len(data)))
	}
	return nil
}

// ReadU32 reads a little-endian, 4-byte-aligned uint32 at offset.
func (v *View) ReadU32(offset uint32) (uint32, error) {
	if offset%4 != 0 {
		return 0, errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
			Detail("unaligned u32 read at offset %d", offset).Build()
	}
	val, ok := v.mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, offset, 4)
	}
	return val, nil
}

// WriteU32 writes a little-endian, 4-byte-aligned uint32 at offset.
func (v *View) WriteU32(offset, val uint32) error {
	if offset%4 != 0 {
		return errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
			Detail("unaligned u32 write at offset %d", offset).Build()
	}
	if !v.mem.WriteUint32Le(offset, val) {
		return errors.OutOfBounds(errors.PhaseMemory, offset, 4)
	}
	return nil
}

// ReadU64 reads a little-endian, 8-byte-aligned uint64 at offset.
func (v *View) ReadU64(offset uint32) (uint64, error) {
	if offset%8 != 0 {
		return 0, errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
			Detail("unaligned u64 read at offset %d", offset).Build()
	}
	val, ok := v.mem.ReadUint64Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, offset, 8)
	}
	return val, nil
}

// WriteU64 writes a little-endian, 8-byte-aligned uint64 at offset.
func (v *View) WriteU64(offset uint32, val uint64) error {
	if offset%8 != 0 {
		return errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
			Detail("unaligned u64 write at offset %d", offset).Build()
	}
	if !v.mem.WriteUint64Le(offset, val) {
		return errors.OutOfBounds(errors.PhaseMemory, offset, 8)
	}
	return nil
}

// WriteByte writes a single byte at offset.
func (v *View) WriteByte(offset uint32, b byte) error {
	if !v.mem.WriteByte(offset, b) {
		return errors.OutOfBounds(errors.PhaseMemory, offset, 1)
	}
	return nil
}

// ReadString scans forward from offset for a NUL terminator, bounded by
// maxCStringScan, and returns the string without the terminator.
func (v *View) ReadString(offset uint32) (string, error) {
	limit := maxCStringScan
	if remaining := int(v.Size()) - int(offset); remaining < limit {
		limit = remaining
	}
	if limit <= 0 {
		return "", errors.OutOfBounds(errors.PhaseMemory, offset, 0)
	}
	raw, ok := v.mem.Read(offset, uint32(limit))
	if !ok {
		return "", errors.OutOfBounds(errors.PhaseMemory, offset, uint32(limit))
	}
	idx := indexByte(raw, 0)
	if idx < 0 {
		return "", errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Detail("no NUL terminator within %d bytes of offset %d", maxCStringScan, offset).Build()
	}
	return string(raw[:idx]), nil
}

// Iovec is a guest (base, len) pair as used by fd_read/fd_write.
type Iovec struct {
	Base uint32
	Len  uint32
}

// ReadIovecs reads count iovec pairs starting at offset and returns the
// host slices they describe, in order. Any single failure aborts the whole
// translation, matching the "any failure aborts the translation" contract.
func (v *View) ReadIovecs(offset, count uint32) ([][]byte, error) {
	out := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		base, err := v.ReadU32(offset + i*8)
		if err != nil {
			return nil, err
		}
		length, err := v.ReadU32(offset + i*8 + 4)
		if err != nil {
			return nil, err
		}
		b, err := v.Read(base, length)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// ReadIovecsMut is ReadIovecs but returns the (base, len) pairs themselves,
// checked only for 32-bit overflow; the caller resolves each pair to a guest
// slice (used by fd_read to fill buffers in place).
func (v *View) ReadIovecsMut(offset, count uint32) ([]Iovec, error) {
	out := make([]Iovec, 0, count)
	for i := uint32(0); i < count; i++ {
		base, err := v.ReadU32(offset + i*8)
		if err != nil {
			return nil, err
		}
		length, err := v.ReadU32(offset + i*8 + 4)
		if err != nil {
			return nil, err
		}
		if overflows(base, length) {
			return nil, errors.OutOfBounds(errors.PhaseMemory, base, length)
		}
		out = append(out, Iovec{Base: base, Len: length})
	}
	return out, nil
}

func overflows(offset, length uint32) bool {
	end := uint64(offset) + uint64(length)
	return end > 0xFFFFFFFF
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

// le is kept for symmetry with Read/Write helpers that deal with raw byte
// order outside of the aligned accessors above (e.g. dirent encoding).
var le = binary.LittleEndian

// PutU32 and PutU64 expose the little-endian byte order used by the rest of
// the package to callers building wire structures (dirent, fdstat, filestat)
// directly into a []byte buffer before a single Write.
func PutU32(b []byte, v uint32) { le.PutUint32(b, v) }
func PutU64(b []byte, v uint64) { le.PutUint64(b, v) }
