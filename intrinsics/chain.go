package intrinsics

import (
	"context"
	"unicode/utf8"

	"github.com/tetratelabs/wazero/api"

	"github.com/ardhipoetra/faasm/memview"
)

// chainFunction records a nested invocation request on the call's State; it
// does not publish anything itself. The host validates eagerly (name length,
// UTF-8, input size, and the per-call chain count) so a guest that floods
// chain requests fails fast rather than accumulating unbounded state that
// the executor would have to reject after the fact. It returns a 1-based
// call id on success, 0 if the request was rejected.
func chainFunction(ctx context.Context, mod api.Module, namePtr, nameLen, inputPtr, inputLen uint32) uint32 {
	st := FromContext(ctx)
	view := memview.New(mod.Memory())

	nameBytes, err := view.Read(namePtr, nameLen)
	if err != nil {
		return 0
	}
	if !utf8.Valid(nameBytes) {
		return 0
	}

	input, err := view.ReadCopy(inputPtr, inputLen)
	if err != nil {
		return 0
	}

	if !st.addChain(string(nameBytes), input) {
		return 0
	}
	return uint32(len(st.Chains))
}
