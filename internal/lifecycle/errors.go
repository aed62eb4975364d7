package lifecycle

import "errors"

// Local failure taxonomy. Ledger rejections and transport failures are not
// here — they surface as *gateway.LedgerError and gateway.ErrUnavailable
// after the call settles.
var (
	// ErrNotAuthenticated: no identity is connected.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrPermissionDenied: the actor may not perform this transition.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidState: the task is not in the state the transition needs.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrBusy: a transition for this task is already in flight. The second
	// request is rejected, not queued — the ledger defines no resolution
	// order for concurrent conflicting writes from one client.
	ErrBusy = errors.New("a transition for this task is already in flight")

	// ErrNotFound: the task is in neither the cache nor the ledger.
	ErrNotFound = errors.New("task not found")
)
