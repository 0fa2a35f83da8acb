package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ardhipoetra/faasm/engine"
	"github.com/ardhipoetra/faasm/intrinsics"
	"github.com/ardhipoetra/faasm/vfs"
)

func newTestExecutor(t *testing.T) (*Executor, func()) {
	t.Helper()
	ctx := context.Background()

	eng, err := engine.New(ctx, engine.Config{MemoryLimitPages: 256})
	require.NoError(t, err)
	require.NoError(t, intrinsics.Register(ctx, eng.Runtime()))

	root := t.TempDir()
	v := vfs.New(root, nil)

	funcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(funcDir, "echo.wasm"), echoWasm, 0o644))

	exec := &Executor{
		Engine: eng,
		VFS:    v,
		Loader: FileLoader{Dir: funcDir},
	}
	return exec, func() { eng.Close(ctx) }
}

func TestExecutorEchoesInputToOutput(t *testing.T) {
	exec, cleanup := newTestExecutor(t)
	defer cleanup()

	rec := &CallRecord{CallID: "1", Function: "echo", Input: []byte("hello world")}
	err := exec.Run(context.Background(), rec)
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, rec.Status)
	require.Equal(t, []byte("hello world"), rec.Output)
	require.Empty(t, rec.Chains)
}

func TestExecutorRejectsOversizedInput(t *testing.T) {
	exec, cleanup := newTestExecutor(t)
	defer cleanup()

	rec := &CallRecord{CallID: "2", Function: "echo", Input: make([]byte, maxInputBytes+1)}
	err := exec.Run(context.Background(), rec)
	require.Error(t, err)
}

func TestExecutorRejectsMissingFunction(t *testing.T) {
	exec, cleanup := newTestExecutor(t)
	defer cleanup()

	rec := &CallRecord{CallID: "3", Function: "does-not-exist"}
	err := exec.Run(context.Background(), rec)
	require.Error(t, err)
	require.Equal(t, StatusHostError, rec.Status)
}
