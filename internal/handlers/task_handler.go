package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/neartasks/platform/internal/gateway"
	"github.com/neartasks/platform/internal/lifecycle"
	"github.com/neartasks/platform/internal/middleware"
	"github.com/neartasks/platform/internal/models"
	"github.com/neartasks/platform/internal/services"
	"github.com/neartasks/platform/internal/session"
	"github.com/neartasks/platform/internal/view"
	"github.com/neartasks/platform/internal/wallet"
)

// TaskHandler serves the task endpoints. All durable state lives in the
// ledger; responses come from the session cache after reconciliation.
type TaskHandler struct {
	Sessions *session.Manager
	Logger   *slog.Logger
}

// taskResponse is the canonical task plus the fields the presentation layer
// derives per viewer.
type taskResponse struct {
	models.Task
	TaskTypeLabel   string       `json:"task_type_label"`
	State           models.State `json:"state"`
	AvailableAction view.Action  `json:"available_action"`
}

func toTaskResponse(t models.Task, viewer string) taskResponse {
	return taskResponse{
		Task:            t,
		TaskTypeLabel:   t.TaskType.Label(),
		State:           t.State(),
		AvailableAction: view.For(&t, viewer),
	}
}

// mutationResponse reports a settled transition, with the transaction
// reference for explorer links.
type mutationResponse struct {
	TaskID      uint64 `json:"task_id,omitempty"`
	Transaction string `json:"transaction"`
}

// --- GET /api/v1/tasks ---

// ListTasks returns the cached listing, loading it on first use. ?refresh=true
// forces a ledger refetch; ?mine=true keeps only tasks the viewer authored,
// holds, or applied to.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	tasks, loaded := sess.Cache.All()
	if !loaded || r.URL.Query().Get("refresh") == "true" {
		var err error
		tasks, err = sess.Engine.LoadTasks(r.Context())
		if err != nil {
			h.writeErr(w, "list tasks", err)
			return
		}
	}

	mine := r.URL.Query().Get("mine") == "true"
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		if mine && t.Author != sess.Identity && t.Assignee != sess.Identity && !t.IsCandidate(sess.Identity) {
			continue
		}
		out = append(out, toTaskResponse(t, sess.Identity))
	}
	writeJSON(w, http.StatusOK, out)
}

// --- GET /api/v1/tasks/{id} ---

// GetTask refetches the task from the ledger and focuses it.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	id, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}
	task, err := sess.Engine.LoadTask(r.Context(), id)
	if err != nil {
		h.writeErr(w, "get task", err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(*task, sess.Identity))
}

// --- POST /api/v1/tasks ---

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TaskType    string `json:"task_type"`
	RewardNEAR  string `json:"reward_near"`
}

// CreateTask posts a new task; the attached deposit is reward plus the
// platform fee, computed by the engine.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	rewardYocto, err := models.ParseNEAR(req.RewardNEAR)
	if err != nil {
		h.writeErr(w, "create task", err)
		return
	}

	out, err := sess.Engine.Create(r.Context(), lifecycle.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		TaskType:    models.TaskType(req.TaskType),
		RewardYocto: rewardYocto,
	})
	if err != nil {
		h.writeErr(w, "create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{Transaction: out.Reference})
}

// --- transition endpoints ---

// Apply handles POST /api/v1/tasks/{id}/apply.
func (h *TaskHandler) Apply(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "apply", func(sess *session.Session, id uint64) (*wallet.Outcome, error) {
		return sess.Engine.Apply(r.Context(), id)
	})
}

type assignRequest struct {
	CandidateAccount string `json:"candidate_account"`
}

// Assign handles POST /api/v1/tasks/{id}/assign. The body is optional for
// first-come-first-serve tasks, where the target is implied.
func (h *TaskHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
			return
		}
	}
	h.mutate(w, r, "assign", func(sess *session.Session, id uint64) (*wallet.Outcome, error) {
		return sess.Engine.Assign(r.Context(), id, req.CandidateAccount)
	})
}

// Unassign handles POST /api/v1/tasks/{id}/unassign.
func (h *TaskHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "unassign", func(sess *session.Session, id uint64) (*wallet.Outcome, error) {
		return sess.Engine.Unassign(r.Context(), id)
	})
}

type submitResultRequest struct {
	Result string `json:"result"`
}

// SubmitResult handles POST /api/v1/tasks/{id}/result.
func (h *TaskHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	var req submitResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	h.mutate(w, r, "submit result", func(sess *session.Session, id uint64) (*wallet.Outcome, error) {
		return sess.Engine.SubmitResult(r.Context(), id, req.Result)
	})
}

type completeRequest struct {
	Rating uint8 `json:"rating"`
}

// Complete handles POST /api/v1/tasks/{id}/complete.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	h.mutate(w, r, "complete", func(sess *session.Session, id uint64) (*wallet.Outcome, error) {
		return sess.Engine.Complete(r.Context(), id, req.Rating)
	})
}

// Delete handles DELETE /api/v1/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "delete", func(sess *session.Session, id uint64) (*wallet.Outcome, error) {
		return sess.Engine.Delete(r.Context(), id)
	})
}

// --- helpers ---

func (h *TaskHandler) mutate(w http.ResponseWriter, r *http.Request, op string, fn func(*session.Session, uint64) (*wallet.Outcome, error)) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	id, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}
	out, err := fn(sess, id)
	if err != nil {
		h.writeErr(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{TaskID: id, Transaction: out.Reference})
}

func (h *TaskHandler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	identity := middleware.IdentityFromCtx(r.Context())
	if identity == "" {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return nil
	}
	return h.Sessions.Get(identity)
}

// writeErr maps the failure taxonomy onto HTTP statuses. Ledger rejections
// keep their reason verbatim; nothing is swallowed.
func (h *TaskHandler) writeErr(w http.ResponseWriter, op string, err error) {
	writeTaxonomyErr(w, h.Logger, op, err)
}

func writeTaxonomyErr(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	var lerr *gateway.LedgerError
	var serr *gateway.SchemaError
	switch {
	case errors.Is(err, lifecycle.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrInvalidState):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrBusy):
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrValidation), errors.Is(err, models.ErrBadAmount):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &lerr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "ledger rejected call", "reason": lerr.Reason})
	case errors.As(err, &serr):
		logger.Error(op, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "ledger returned malformed data"})
	case errors.Is(err, gateway.ErrUnavailable):
		logger.Error(op, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "ledger unreachable"})
	default:
		logger.Error(op, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func taskIDFromPath(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid task id"}`, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
