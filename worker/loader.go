package worker

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ardhipoetra/faasm/errors"
	"github.com/ardhipoetra/faasm/objectstore"
)

// Loader fetches a function's compiled WASM binary by name.
type Loader interface {
	Load(ctx context.Context, function string) ([]byte, error)
}

// FileLoader reads function binaries from a local directory, named
// "<function>.wasm". Used by the single-shot CLI path and tests where
// there's no object store deployment.
type FileLoader struct {
	Dir string
}

func (l FileLoader) Load(ctx context.Context, function string) ([]byte, error) {
	path := filepath.Join(l.Dir, function+".wasm")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseWorker, "read function binary "+path, err)
	}
	return data, nil
}

// ObjectStoreLoader fetches function binaries from the object store under a
// "functions/<function>.wasm" key, mirroring how the VFS materialises
// blob-backed paths from the same store.
type ObjectStoreLoader struct {
	Client *objectstore.Client
}

func (l ObjectStoreLoader) Load(ctx context.Context, function string) ([]byte, error) {
	return l.Client.Get(ctx, "functions/"+function+".wasm")
}
