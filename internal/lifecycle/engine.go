// Package lifecycle implements the task state machine: it validates and
// executes transitions against the ledger and reconciles the session cache
// afterwards. The visible state never advances ahead of the ledger — there
// is no optimistic local mutation.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/neartasks/platform/internal/cache"
	"github.com/neartasks/platform/internal/gateway"
	"github.com/neartasks/platform/internal/models"
	"github.com/neartasks/platform/internal/services"
	"github.com/neartasks/platform/internal/wallet"
)

// Engine executes lifecycle transitions for one connected identity. Every
// transition runs permission and state checks locally first — the ledger
// enforces them authoritatively anyway, but checking here avoids submitting
// doomed transactions and gives a precise reason instead of an opaque
// rejection.
type Engine struct {
	gw     gateway.Client
	signer wallet.Signer
	store  *cache.Store
	log    *slog.Logger

	mu       sync.Mutex
	inflight map[uint64]struct{}
}

// NewEngine returns an engine bound to one gateway, signer, and cache.
func NewEngine(gw gateway.Client, signer wallet.Signer, store *cache.Store, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		gw:       gw,
		signer:   signer,
		store:    store,
		log:      log,
		inflight: make(map[uint64]struct{}),
	}
}

// CreateInput are the author-supplied fields of a new task. RewardYocto is
// the reward alone; the engine computes the fee-inclusive escrow deposit.
type CreateInput struct {
	Title       string
	Description string
	TaskType    models.TaskType
	RewardYocto string
}

// --- bulk loads ---

// LoadTasks refetches the full listing and replaces the cached list.
func (e *Engine) LoadTasks(ctx context.Context) ([]models.Task, error) {
	records, err := e.gw.FetchAllTasks(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := models.TasksFromRecords(records)
	if err != nil {
		return nil, err
	}
	e.store.SetAll(tasks)
	return tasks, nil
}

// LoadTask refetches one task and replaces the focused copy.
func (e *Engine) LoadTask(ctx context.Context, id uint64) (*models.Task, error) {
	rec, err := e.gw.FetchTask(ctx, id)
	if err != nil {
		return nil, err
	}
	task, err := models.TaskFromRecord(*rec)
	if err != nil {
		return nil, err
	}
	e.store.SetFocused(task)
	return &task, nil
}

// --- transitions ---

// Create validates the fields, computes the fee-inclusive escrow amount,
// and submits add_task. On success the listing is refreshed.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*wallet.Outcome, error) {
	actor, err := e.identity()
	if err != nil {
		return nil, err
	}
	if err := services.ValidateNewTask(in.Title, in.Description, in.TaskType, in.RewardYocto); err != nil {
		return nil, err
	}

	feePct, err := e.gw.FetchPlatformFeePercentage(ctx)
	if err != nil {
		return nil, err
	}
	escrow, err := services.EscrowTotal(in.RewardYocto, feePct)
	if err != nil {
		return nil, err
	}

	out, err := e.gw.CreateTask(ctx, gateway.CreateTaskFields{
		Title:       in.Title,
		Description: in.Description,
		TaskType:    string(in.TaskType),
		RewardYocto: in.RewardYocto,
	}, escrow)
	if err != nil {
		return nil, err
	}

	e.log.Info("task created", "author", actor, "reward_yocto", in.RewardYocto, "tx", out.Reference)
	e.refreshList(ctx)
	return out, nil
}

// Apply adds the actor to the task's candidates.
func (e *Engine) Apply(ctx context.Context, id uint64) (*wallet.Outcome, error) {
	return e.transition(ctx, id, func(actor string, t *models.Task) error {
		if t.State() != models.StateOpen {
			return fmt.Errorf("%w: task %d is not open", ErrInvalidState, id)
		}
		if actor == t.Author {
			return fmt.Errorf("%w: authors cannot apply to their own task", ErrPermissionDenied)
		}
		if t.IsCandidate(actor) {
			return fmt.Errorf("%w: already applied to task %d", ErrPermissionDenied, id)
		}
		return nil
	}, func(ctx context.Context) (*wallet.Outcome, error) {
		return e.gw.ApplyForTask(ctx, id)
	}, refreshTask)
}

// Assign sets the assignee. In FCFS mode the only valid target is the first
// applicant (an empty candidate defaults to it); in SelectedByAuthor mode
// the target must be among the candidates.
func (e *Engine) Assign(ctx context.Context, id uint64, candidate string) (*wallet.Outcome, error) {
	return e.transition(ctx, id, func(actor string, t *models.Task) error {
		if actor != t.Author {
			return fmt.Errorf("%w: only the author may assign", ErrPermissionDenied)
		}
		if t.State() != models.StateOpen {
			return fmt.Errorf("%w: task %d is not open", ErrInvalidState, id)
		}
		if len(t.Candidates) == 0 {
			return fmt.Errorf("%w: task %d has no candidates", ErrInvalidState, id)
		}
		switch t.TaskType {
		case models.TaskTypeFCFS:
			if candidate == "" {
				candidate = t.Candidates[0]
			}
			if candidate != t.Candidates[0] {
				return fmt.Errorf("%w: first-come-first-serve tasks assign the first applicant", ErrInvalidState)
			}
		case models.TaskTypeSelectedByAuthor:
			if candidate == "" {
				return fmt.Errorf("%w: a candidate account is required", ErrInvalidState)
			}
			if !t.IsCandidate(candidate) {
				return fmt.Errorf("%w: %s did not apply to task %d", ErrInvalidState, candidate, id)
			}
		}
		return nil
	}, func(ctx context.Context) (*wallet.Outcome, error) {
		return e.gw.AssignTask(ctx, id, candidate)
	}, refreshTask|refreshList)
}

// Unassign clears the assignee, reopening the task. The author or the
// current assignee may do this.
func (e *Engine) Unassign(ctx context.Context, id uint64) (*wallet.Outcome, error) {
	return e.transition(ctx, id, func(actor string, t *models.Task) error {
		if t.State() != models.StateAssigned {
			return fmt.Errorf("%w: task %d is not assigned", ErrInvalidState, id)
		}
		if actor != t.Author && actor != t.Assignee {
			return fmt.Errorf("%w: only the author or the assignee may unassign", ErrPermissionDenied)
		}
		return nil
	}, func(ctx context.Context) (*wallet.Outcome, error) {
		return e.gw.UnassignTask(ctx, id)
	}, refreshTask|refreshList)
}

// SubmitResult records the assignee's result text.
func (e *Engine) SubmitResult(ctx context.Context, id uint64, result string) (*wallet.Outcome, error) {
	return e.transition(ctx, id, func(actor string, t *models.Task) error {
		if t.State() != models.StateAssigned {
			return fmt.Errorf("%w: task %d is not assigned", ErrInvalidState, id)
		}
		if actor != t.Assignee {
			return fmt.Errorf("%w: only the assignee may submit a result", ErrPermissionDenied)
		}
		if result == "" {
			return fmt.Errorf("%w: result cannot be empty", ErrInvalidState)
		}
		return nil
	}, func(ctx context.Context) (*wallet.Outcome, error) {
		return e.gw.SubmitResult(ctx, id, result)
	}, refreshTask)
}

// Complete records the author's rating of the assignee and closes the task.
// It requires a previously submitted result.
func (e *Engine) Complete(ctx context.Context, id uint64, rating uint8) (*wallet.Outcome, error) {
	return e.transition(ctx, id, func(actor string, t *models.Task) error {
		if actor != t.Author {
			return fmt.Errorf("%w: only the author may complete", ErrPermissionDenied)
		}
		if t.State() != models.StateAssigned {
			return fmt.Errorf("%w: task %d is not assigned", ErrInvalidState, id)
		}
		if t.Result == "" {
			return fmt.Errorf("%w: no result has been submitted for task %d", ErrInvalidState, id)
		}
		return services.ValidateRating(rating)
	}, func(ctx context.Context) (*wallet.Outcome, error) {
		return e.gw.CompleteTask(ctx, id, rating)
	}, refreshTask)
}

// Delete removes a task that has not completed. Author only.
func (e *Engine) Delete(ctx context.Context, id uint64) (*wallet.Outcome, error) {
	out, err := e.transition(ctx, id, func(actor string, t *models.Task) error {
		if actor != t.Author {
			return fmt.Errorf("%w: only the author may delete", ErrPermissionDenied)
		}
		if t.State() == models.StateCompleted {
			return fmt.Errorf("%w: task %d is already completed", ErrInvalidState, id)
		}
		return nil
	}, func(ctx context.Context) (*wallet.Outcome, error) {
		return e.gw.DeleteTask(ctx, id)
	}, 0)
	if err != nil {
		return nil, err
	}
	e.store.Drop(id)
	e.refreshList(ctx)
	return out, nil
}

// --- transition plumbing ---

type refreshScope int

const (
	refreshTask refreshScope = 1 << iota
	refreshList
)

// transition runs one guarded ledger write: resolve actor → reject if a
// write for this task is already in flight → pre-check against the current
// task → submit → reconcile. On any failure the cache is left untouched.
func (e *Engine) transition(
	ctx context.Context,
	id uint64,
	check func(actor string, t *models.Task) error,
	submit func(ctx context.Context) (*wallet.Outcome, error),
	scope refreshScope,
) (*wallet.Outcome, error) {
	actor, err := e.identity()
	if err != nil {
		return nil, err
	}

	if !e.acquire(id) {
		return nil, fmt.Errorf("%w: task %d", ErrBusy, id)
	}
	defer e.release(id)

	task, err := e.currentTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := check(actor, task); err != nil {
		return nil, err
	}

	out, err := submit(ctx)
	if err != nil {
		return nil, err
	}

	if scope&refreshTask != 0 {
		if _, err := e.LoadTask(ctx, id); err != nil {
			e.log.Warn("post-transition task refresh failed", "task_id", id, "error", err)
		}
	}
	if scope&refreshList != 0 {
		e.refreshList(ctx)
	}
	return out, nil
}

func (e *Engine) identity() (string, error) {
	id := e.signer.CurrentIdentity()
	if id == "" {
		return "", ErrNotAuthenticated
	}
	return id, nil
}

func (e *Engine) acquire(id uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inflight[id]; busy {
		return false
	}
	e.inflight[id] = struct{}{}
	return true
}

func (e *Engine) release(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, id)
}

// currentTask reads the task from the cache, falling back to a fresh ledger
// read when the session has not seen it yet.
func (e *Engine) currentTask(ctx context.Context, id uint64) (*models.Task, error) {
	if t, ok := e.store.Get(id); ok {
		return &t, nil
	}
	rec, err := e.gw.FetchTask(ctx, id)
	if err != nil {
		var lerr *gateway.LedgerError
		if errors.As(err, &lerr) {
			return nil, fmt.Errorf("%w: task %d: %s", ErrNotFound, id, lerr.Reason)
		}
		return nil, err
	}
	task, err := models.TaskFromRecord(*rec)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// refreshList refetches the listing after a mutation that can change task
// visibility. A failed refresh only leaves the cache stale — the next
// successful load heals it.
func (e *Engine) refreshList(ctx context.Context) {
	if _, err := e.LoadTasks(ctx); err != nil {
		e.log.Warn("post-transition list refresh failed", "error", err)
	}
}
