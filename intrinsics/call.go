package intrinsics

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/ardhipoetra/faasm/clock"
	"github.com/ardhipoetra/faasm/errors"
	"github.com/ardhipoetra/faasm/vfs"
)

// ChainRecord is one nested invocation the guest requested via
// chainFunction, kept in invocation order on the parent's State.
type ChainRecord struct {
	Name  string
	Input []byte
}

// State carries everything an intrinsic handler needs that isn't part of
// the guest ABI call itself: the call's FD table, clock, stdout capture
// buffer, and accumulated chain list. It is attached to the context passed
// into the guest's exported function and retrieved by each handler via
// FromContext, since wazero host functions are registered once per process
// but must act on per-call state.
type State struct {
	Table   *vfs.Table
	Clock   *clock.FakeClock
	Capture *clock.Capture

	Chains []ChainRecord

	// Exited and ExitCode are set by proc_exit. The executor classifies the
	// outcome from the *sys.ExitError exit code and Aborted, not from these
	// fields.
	Exited   bool
	ExitCode uint32

	// Aborted carries the reason the call was aborted by an intrinsic
	// (unimplemented, cancelled, fault); nil means no abort occurred.
	Aborted error
}

type ctxKey struct{}

// WithState attaches st to ctx for the duration of one guest call.
func WithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, st)
}

// FromContext retrieves the State attached by WithState. It panics if none
// is present, since that indicates a host module registered outside of a
// call's lifecycle — a programming error, not a guest-triggerable fault.
func FromContext(ctx context.Context) *State {
	st, ok := ctx.Value(ctxKey{}).(*State)
	if !ok {
		panic("intrinsics: no call state in context")
	}
	return st
}

const maxChainNameBytes = 20
const maxChains = 100
const maxInputBytes = 1024 * 1024

// addChain appends a validated chain record to the state's chain list,
// enforcing the resource limits the governing document names: at most 100
// chains per call, each name at most 20 bytes, each input at most 1 MiB.
func (st *State) addChain(name string, input []byte) bool {
	if name == "" || len(name) > maxChainNameBytes {
		return false
	}
	if len(input) > maxInputBytes {
		return false
	}
	if len(st.Chains) >= maxChains {
		return false
	}
	st.Chains = append(st.Chains, ChainRecord{Name: name, Input: input})
	return true
}

// abortUnimplemented records why a call is being aborted and closes mod with
// a non-zero exit code. wazero surfaces this to the pending
// ExportedFunction.Call as a *sys.ExitError, the same path a guest-initiated
// proc_exit takes, so the executor has one place to check the outcome
// instead of distinguishing a trap from a deliberate abort.
func abortUnimplemented(ctx context.Context, mod api.Module, name string) {
	st := FromContext(ctx)
	st.Aborted = errors.Unimplemented(name)
	_ = mod.CloseWithExitCode(ctx, 1)
}
