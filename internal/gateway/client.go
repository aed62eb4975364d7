// Package gateway is the typed boundary to the external task ledger. It is
// the only package that performs network I/O for task data: reads go
// straight to the ledger RPC node, writes go through the wallet signer.
package gateway

import (
	"context"
	"errors"

	"github.com/neartasks/platform/internal/wallet"
)

// ErrUnavailable wraps transport-level failures: the call never reached the
// ledger, or no response arrived. Cached state must not change on these.
var ErrUnavailable = errors.New("ledger unreachable")

// LedgerError is the ledger's own rejection of a call (authorization or
// validation). The reason is passed through verbatim, never reinterpreted.
type LedgerError struct {
	Reason string
}

func (e *LedgerError) Error() string { return "ledger rejected call: " + e.Reason }

// CreateTaskFields are the author-supplied fields of add_task. RewardYocto
// is the reward alone; the escrow deposit attached on top is the caller's
// concern.
type CreateTaskFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TaskType    string `json:"task_type"`
	RewardYocto string `json:"reward"`
}

// Reader is the side-effect-free ledger surface. Any identity may call it.
type Reader interface {
	FetchAllTasks(ctx context.Context) ([]TaskRecord, error)
	FetchTask(ctx context.Context, id uint64) (*TaskRecord, error)
	FetchPlatformFeePercentage(ctx context.Context) (uint8, error)
	FetchRating(ctx context.Context, accountID string) (uint8, error)
}

// Writer is the mutating surface. Every method submits one signed
// transaction and waits for it to settle; nothing is retried implicitly.
// A *LedgerError return carries the ledger's rejection reason.
type Writer interface {
	CreateTask(ctx context.Context, fields CreateTaskFields, escrowYocto string) (*wallet.Outcome, error)
	ApplyForTask(ctx context.Context, id uint64) (*wallet.Outcome, error)
	AssignTask(ctx context.Context, id uint64, candidateAccount string) (*wallet.Outcome, error)
	UnassignTask(ctx context.Context, id uint64) (*wallet.Outcome, error)
	SubmitResult(ctx context.Context, id uint64, result string) (*wallet.Outcome, error)
	CompleteTask(ctx context.Context, id uint64, rating uint8) (*wallet.Outcome, error)
	DeleteTask(ctx context.Context, id uint64) (*wallet.Outcome, error)
}

// Client is the full gateway surface.
type Client interface {
	Reader
	Writer
}
