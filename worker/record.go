package worker

import "github.com/ardhipoetra/faasm/errors"

const (
	maxNameBytes   = 20
	maxInputBytes  = 1024 * 1024
	maxOutputBytes = 1024 * 1024
	maxChains      = 100
)

// Guest memory layout, fixed by convention between the host and every guest
// SDK: input at offset 0, output one MiB later.
const (
	InputRegionStart  uint32 = 0
	InputRegionSize   uint32 = maxInputBytes
	OutputRegionStart uint32 = InputRegionStart + InputRegionSize
	OutputRegionSize  uint32 = maxOutputBytes
)

// Status is the terminal outcome of one call.
type Status int

const (
	StatusSuccess Status = iota
	StatusGuestError
	StatusHostError
	StatusUnimplementedIntrinsic
)

// ChainResult is one chained invocation a call requested, ready to publish.
type ChainResult struct {
	Name  string
	Input []byte
}

// CallRecord is one function invocation, from request through to result.
// UserID and Function are bounded the same way at ingress (request
// validation) and egress (result published downstream): both limits come
// from the same MAX_NAME_LENGTH convention the guest ABI uses for chained
// call names.
type CallRecord struct {
	CallID   string
	UserID   string
	Function string
	Input    []byte

	Output  []byte
	Chains  []ChainResult
	Status  Status
	ErrDesc string
}

// Validate enforces the Call Record's size invariants before the record
// reaches an executor.
func (r *CallRecord) Validate() error {
	if len(r.UserID) > maxNameBytes {
		return errors.ResourceLimit(errors.PhaseWorker, "user id exceeds 20 bytes")
	}
	if len(r.Function) == 0 || len(r.Function) > maxNameBytes {
		return errors.ResourceLimit(errors.PhaseWorker, "function name must be 1-20 bytes")
	}
	if len(r.Input) > maxInputBytes {
		return errors.ResourceLimit(errors.PhaseWorker, "input exceeds 1 MiB")
	}
	return nil
}
