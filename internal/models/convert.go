package models

import (
	"fmt"
	"time"

	"github.com/neartasks/platform/internal/gateway"
)

// TaskFromRecord translates a validated ledger record into the canonical
// Task: reward units become a display decimal, nanosecond timestamps become
// time.Time, a missing assignee becomes the Unassigned sentinel. The
// translation is deterministic — the same record always yields the same
// task.
func TaskFromRecord(rec gateway.TaskRecord) (Task, error) {
	if err := rec.Validate(); err != nil {
		return Task{}, err
	}

	rewardNEAR, err := FormatNEAR(string(rec.Reward))
	if err != nil {
		return Task{}, fmt.Errorf("task %d: %w", rec.ID, err)
	}

	t := Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		TaskType:    TaskType(rec.TaskType),
		Author:      rec.Author,
		Reward:      string(rec.Reward),
		RewardNEAR:  rewardNEAR,
		Candidates:  append([]string(nil), rec.Candidates...),
		Assignee:    Unassigned,
		CreatedAt:   time.Unix(0, int64(rec.CreatedAt)).UTC(),
	}
	if rec.Assignee != nil && *rec.Assignee != "" {
		t.Assignee = *rec.Assignee
	}
	if rec.Result != nil {
		t.Result = *rec.Result
	}
	if rec.CompletedAt != nil && *rec.CompletedAt > 0 {
		at := time.Unix(0, int64(*rec.CompletedAt)).UTC()
		t.CompletedAt = &at
	}
	return t, nil
}

// TasksFromRecords translates a full ledger listing, preserving order.
func TasksFromRecords(recs []gateway.TaskRecord) ([]Task, error) {
	tasks := make([]Task, 0, len(recs))
	for _, rec := range recs {
		t, err := TaskFromRecord(rec)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
