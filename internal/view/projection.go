// Package view derives, for one viewer, the single action a task currently
// offers. It is a pure function of (task, viewer) and performs no I/O.
package view

import "github.com/neartasks/platform/internal/models"

// Action is the one operation the viewer may take next, or ActionNone.
type Action string

const (
	ActionNone         Action = ""
	ActionApply        Action = "apply"
	ActionAssign       Action = "assign"
	ActionSubmitResult Action = "submit_result"
	ActionUnassign     Action = "unassign"
	ActionComplete     Action = "rate_and_complete"
	ActionDelete       Action = "delete"
)

// For resolves the available action. The author check comes first: even if
// an author somehow appeared among candidates or as assignee, author-scoped
// controls win. Order below must not change.
func For(t *models.Task, viewer string) Action {
	switch {
	case viewer == t.Author:
		return authorAction(t)
	case t.HasAssignee() && t.Assignee != viewer:
		// Claimed by someone else; nothing to offer.
		return ActionNone
	case t.Assignee == viewer:
		return assigneeAction(t)
	case t.IsCandidate(viewer):
		// Applied and waiting; the ledger has no withdraw operation.
		return ActionNone
	default:
		if t.State() == models.StateOpen {
			return ActionApply
		}
		return ActionNone
	}
}

func authorAction(t *models.Task) Action {
	switch t.State() {
	case models.StateOpen:
		if len(t.Candidates) > 0 {
			return ActionAssign
		}
		return ActionDelete
	case models.StateAssigned:
		if t.Result != "" {
			return ActionComplete
		}
		return ActionDelete
	}
	return ActionNone
}

func assigneeAction(t *models.Task) Action {
	if t.State() != models.StateAssigned {
		return ActionNone
	}
	if t.Result == "" {
		return ActionSubmitResult
	}
	// Result handed in; the task is in the author's hands now.
	return ActionNone
}
