package models

import (
	"reflect"
	"testing"
	"time"

	"github.com/neartasks/platform/internal/gateway"
)

func sampleRecord() gateway.TaskRecord {
	return gateway.TaskRecord{
		ID:          7,
		Title:       "Translate docs",
		Description: "English to Spanish",
		TaskType:    "FCFS",
		Author:      "author.near",
		Candidates:  []string{"alice.near", "bob.near"},
		CreatedAt:   1700000000000000000,
		Reward:      gateway.U128("2500000000000000000000000"),
	}
}

func TestTaskFromRecord(t *testing.T) {
	task, err := TaskFromRecord(sampleRecord())
	if err != nil {
		t.Fatalf("TaskFromRecord: %v", err)
	}

	if task.Assignee != Unassigned {
		t.Errorf("nil assignee should map to the sentinel, got %q", task.Assignee)
	}
	if task.State() != StateOpen {
		t.Errorf("state: got %q, want open", task.State())
	}
	if task.Reward != "2500000000000000000000000" {
		t.Errorf("reward must keep exact units, got %q", task.Reward)
	}
	if task.RewardNEAR != "2.50" {
		t.Errorf("display reward: got %q, want 2.50", task.RewardNEAR)
	}
	if want := time.Unix(0, 1700000000000000000).UTC(); !task.CreatedAt.Equal(want) {
		t.Errorf("created_at: got %v, want %v", task.CreatedAt, want)
	}
	if task.CompletedAt != nil {
		t.Error("completed_at should be nil for open tasks")
	}
}

func TestTaskFromRecordAssignedAndCompleted(t *testing.T) {
	rec := sampleRecord()
	assignee := "alice.near"
	result := "https://example.test/result"
	completedAt := uint64(1700000500000000000)
	rec.Assignee = &assignee
	rec.Result = &result
	rec.CompletedAt = &completedAt

	task, err := TaskFromRecord(rec)
	if err != nil {
		t.Fatalf("TaskFromRecord: %v", err)
	}
	if task.State() != StateCompleted {
		t.Errorf("state: got %q, want completed", task.State())
	}
	if task.Assignee != "alice.near" || task.Result != result {
		t.Errorf("assignee/result not carried over: %q %q", task.Assignee, task.Result)
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(time.Unix(0, int64(completedAt)).UTC()) {
		t.Errorf("completed_at: got %v", task.CompletedAt)
	}
}

// The same record always yields the same task, and the task owns its own
// candidate slice.
func TestTaskFromRecordDeterministicAndDetached(t *testing.T) {
	rec := sampleRecord()
	a, err := TaskFromRecord(rec)
	if err != nil {
		t.Fatal(err)
	}
	b, err := TaskFromRecord(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("conversion is not deterministic")
	}

	rec.Candidates[0] = "mutated.near"
	if a.Candidates[0] != "alice.near" {
		t.Error("task shares the record's candidate slice")
	}
}

func TestTaskFromRecordRejectsMalformed(t *testing.T) {
	t.Run("unknown task type", func(t *testing.T) {
		rec := sampleRecord()
		rec.TaskType = "Negotiated"
		if _, err := TaskFromRecord(rec); err == nil {
			t.Fatal("expected a schema error")
		}
	})
	t.Run("missing author", func(t *testing.T) {
		rec := sampleRecord()
		rec.Author = ""
		if _, err := TaskFromRecord(rec); err == nil {
			t.Fatal("expected a schema error")
		}
	})
	t.Run("garbage reward", func(t *testing.T) {
		rec := sampleRecord()
		rec.Reward = gateway.U128("not-a-number")
		if _, err := TaskFromRecord(rec); err == nil {
			t.Fatal("expected a schema error")
		}
	})
}

func TestTasksFromRecordsPreservesOrder(t *testing.T) {
	first := sampleRecord()
	second := sampleRecord()
	second.ID = 9
	second.Title = "Another"

	tasks, err := TasksFromRecords([]gateway.TaskRecord{first, second})
	if err != nil {
		t.Fatalf("TasksFromRecords: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != 7 || tasks[1].ID != 9 {
		t.Errorf("order not preserved: %+v", tasks)
	}
}
