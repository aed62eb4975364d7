// Package models holds the canonical in-memory task shape, independent of
// the ledger's wire representation.
package models

import "time"

// TaskType governs how the assignee may be chosen.
type TaskType string

const (
	// TaskTypeFCFS assigns the first applicant: the only valid assign
	// target is the head of the candidate list.
	TaskTypeFCFS TaskType = "FCFS"
	// TaskTypeSelectedByAuthor lets the author pick any applied candidate.
	TaskTypeSelectedByAuthor TaskType = "SelectedByAuthor"
)

// Label returns the human-readable form shown in listings.
func (t TaskType) Label() string {
	switch t {
	case TaskTypeFCFS:
		return "First Come First Serve"
	case TaskTypeSelectedByAuthor:
		return "Selected By Author"
	}
	return string(t)
}

// Unassigned is the assignee sentinel for tasks nobody has claimed.
const Unassigned = "Unassigned"

// State is the lifecycle position of a task. Deleted tasks do not appear in
// ledger reads, so no state value exists for them.
type State string

const (
	StateOpen      State = "open"
	StateAssigned  State = "assigned"
	StateCompleted State = "completed"
)

// Task is the canonical normalized task. Reward is the exact yoctoNEAR
// amount; RewardNEAR is the display decimal derived from it.
type Task struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TaskType    TaskType   `json:"task_type"`
	Author      string     `json:"author"`
	Reward      string     `json:"reward"`
	RewardNEAR  string     `json:"reward_near"`
	Candidates  []string   `json:"candidates"`
	Assignee    string     `json:"assignee"`
	Result      string     `json:"result,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// State derives the lifecycle state from the assignee and completion fields.
func (t *Task) State() State {
	switch {
	case t.CompletedAt != nil:
		return StateCompleted
	case t.Assignee != Unassigned:
		return StateAssigned
	default:
		return StateOpen
	}
}

// HasAssignee reports whether someone currently holds the task.
func (t *Task) HasAssignee() bool { return t.Assignee != Unassigned }

// IsCandidate reports whether the identity has applied to the task.
func (t *Task) IsCandidate(identity string) bool {
	for _, c := range t.Candidates {
		if c == identity {
			return true
		}
	}
	return false
}
