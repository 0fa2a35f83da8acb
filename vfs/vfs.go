// Package vfs implements the virtual filesystem and per-module file
// descriptor table: path masking, rights enforcement, and the open/read/
// write/seek/stat/readdir/rename/unlink/mkdir operations a WASI guest
// drives through its imported intrinsics.
package vfs

import (
	"os"

	"github.com/ardhipoetra/faasm/errors"
)

// BlobStore is the narrow interface the VFS needs from the object store:
// materialise a blob-backed virtual path into a host-filesystem location on
// first access. A real client (objectstore.Client) implements this; tests
// can supply a fake.
type BlobStore interface {
	// Materialize downloads the object named by virtualPath into hostPath,
	// creating parent directories as needed. Implementations should be a
	// no-op (nil error) if hostPath already exists and is up to date.
	Materialize(virtualPath, hostPath string) error
}

// VFS holds the process-wide, read-only masking configuration and an
// optional blob store. It has no mutable state of its own; everything
// mutable lives on a per-call Table.
type VFS struct {
	SharedRoot string
	Blobs      BlobStore
}

// New creates a VFS rooted at sharedRoot. blobs may be nil if no
// object-store backing is configured.
func New(sharedRoot string, blobs BlobStore) *VFS {
	return &VFS{SharedRoot: sharedRoot, Blobs: blobs}
}

// Preopens builds the preopen map (virtual path -> host path) for the
// configured shared root, exposing it as a single "/" preopen the way the
// guest SDK expects to discover it via fd_prestat_get.
func (v *VFS) Preopens() map[string]string {
	return map[string]string{"/": v.SharedRoot}
}

// materializeBlob is called from Table.Open before the native os.OpenFile,
// giving blob-backed paths one chance to be pulled down from the object
// store. It is the only place the core talks to the object store, per the
// VFS policy.
func (v *VFS) materializeBlob(virtualPath, hostPath string) error {
	if v.Blobs == nil {
		return nil
	}
	if _, err := os.Stat(hostPath); err == nil {
		return nil
	}
	if err := v.Blobs.Materialize(virtualPath, hostPath); err != nil {
		return errors.IO(errors.PhaseObjectStore, "materialize "+virtualPath, err)
	}
	return nil
}
