package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Task type codes as the contract stores them. Anything else is a schema
// mismatch and fails the decode.
const (
	RecordTypeFCFS             = "FCFS"
	RecordTypeSelectedByAuthor = "SelectedByAuthor"
)

// SchemaError marks a ledger record that does not match the expected shape.
// The gateway fails fast on these instead of propagating half-decoded data.
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string { return "ledger record schema mismatch: " + e.Detail }

// U128 is a 128-bit unsigned amount as the ledger serializes it: a JSON
// number on reads (serde u128), a decimal string on writes (json_types).
// It is kept as its canonical decimal-string form.
type U128 string

func (u *U128) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &SchemaError{Detail: "empty amount"}
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &SchemaError{Detail: "malformed amount string"}
		}
		data = []byte(s)
	}
	if len(data) == 0 {
		return &SchemaError{Detail: "empty amount"}
	}
	for _, c := range data {
		if c < '0' || c > '9' {
			return &SchemaError{Detail: fmt.Sprintf("amount %q is not a decimal integer", data)}
		}
	}
	*u = U128(data)
	return nil
}

func (u U128) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(u))
}

// TaskRecord is the raw task exactly as the contract returns it. One schema,
// snake_case, optionals as pointers; unknown fields are rejected.
type TaskRecord struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TaskType    string   `json:"task_type"`
	Author      string   `json:"author"`
	Assignee    *string  `json:"assignee"`
	Candidates  []string `json:"candidates"`
	CreatedAt   uint64   `json:"created_at"`
	CompletedAt *uint64  `json:"completed_at"`
	Reward      U128     `json:"reward"`
	Result      *string  `json:"result"`
}

// Validate checks the invariants the translation layer relies on.
func (r *TaskRecord) Validate() error {
	if r.TaskType != RecordTypeFCFS && r.TaskType != RecordTypeSelectedByAuthor {
		return &SchemaError{Detail: fmt.Sprintf("task %d has unknown task_type %q", r.ID, r.TaskType)}
	}
	if r.Author == "" {
		return &SchemaError{Detail: fmt.Sprintf("task %d has no author", r.ID)}
	}
	if r.Reward == "" {
		return &SchemaError{Detail: fmt.Sprintf("task %d has no reward", r.ID)}
	}
	return nil
}

// decodeRecord strictly decodes a single task record.
func decodeRecord(data []byte) (*TaskRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var rec TaskRecord
	if err := dec.Decode(&rec); err != nil {
		return nil, &SchemaError{Detail: err.Error()}
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// decodeRecordList decodes the get_tasks return shape: a list of
// (id, record) pairs. The pair id must agree with the embedded record id.
func decodeRecordList(data []byte) ([]TaskRecord, error) {
	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, &SchemaError{Detail: "task list is not a list of (id, task) pairs: " + err.Error()}
	}
	records := make([]TaskRecord, 0, len(pairs))
	for _, pair := range pairs {
		var id uint64
		if err := json.Unmarshal(pair[0], &id); err != nil {
			return nil, &SchemaError{Detail: "task pair key is not an integer id"}
		}
		rec, err := decodeRecord(pair[1])
		if err != nil {
			return nil, err
		}
		if rec.ID != id {
			return nil, &SchemaError{Detail: fmt.Sprintf("task pair key %d does not match record id %d", id, rec.ID)}
		}
		records = append(records, *rec)
	}
	return records, nil
}
