package intrinsics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"

	"github.com/ardhipoetra/faasm/clock"
	"github.com/ardhipoetra/faasm/vfs"
)

func newTestState(t *testing.T) (context.Context, *State) {
	t.Helper()
	root := t.TempDir()
	v := vfs.New(root, nil)
	table := vfs.NewTable(v, v.Preopens())
	st := &State{Table: table, Clock: clock.NewFakeClock(), Capture: clock.NewCapture(false)}
	return WithState(context.Background(), st), st
}

func TestRegisterBuildsBothHostModules(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)
	require.NoError(t, Register(ctx, rt))
}

func TestChainFunctionEndToEnd(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)
	require.NoError(t, Register(ctx, rt))

	compiled, err := rt.CompileModule(ctx, chainCallerWasm)
	require.NoError(t, err)

	callCtx, st := newTestState(t)

	mod, err := rt.InstantiateModule(callCtx, compiled, wazero.NewModuleConfig())
	require.NoError(t, err)
	defer mod.Close(callCtx)

	results, err := mod.ExportedFunction("invoke").Call(callCtx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), results[0])

	require.Len(t, st.Chains, 1)
	require.Equal(t, "next", st.Chains[0].Name)
	require.Equal(t, "payload", string(st.Chains[0].Input))
}

func TestAddChainEnforcesLimits(t *testing.T) {
	st := &State{}

	require.False(t, st.addChain("", []byte("x")))
	require.False(t, st.addChain("this-name-is-way-too-long-for-the-abi", []byte("x")))
	require.True(t, st.addChain("ok", []byte("x")))
	require.Len(t, st.Chains, 1)

	oversized := make([]byte, maxInputBytes+1)
	require.False(t, st.addChain("ok2", oversized))

	for i := 0; i < maxChains-1; i++ {
		require.True(t, st.addChain("ok", nil))
	}
	require.Len(t, st.Chains, maxChains)
	require.False(t, st.addChain("one-too-many", nil))
}
