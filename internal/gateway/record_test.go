package gateway

import (
	"encoding/json"
	"errors"
	"testing"
)

const recordJSON = `{
	"id": 3,
	"title": "Design a logo",
	"description": "SVG preferred",
	"task_type": "SelectedByAuthor",
	"author": "author.near",
	"assignee": null,
	"candidates": ["alice.near"],
	"created_at": 1700000000000000000,
	"completed_at": null,
	"reward": 5000000000000000000000000,
	"result": null
}`

func TestDecodeRecord(t *testing.T) {
	rec, err := decodeRecord([]byte(recordJSON))
	if err != nil {
		t.Fatalf("decodeRecord: %v", err)
	}
	if rec.ID != 3 || rec.Author != "author.near" {
		t.Errorf("decoded record: %+v", rec)
	}
	if rec.Assignee != nil {
		t.Error("null assignee should decode to nil")
	}
	if rec.Reward != "5000000000000000000000000" {
		t.Errorf("reward: got %q", rec.Reward)
	}
}

func TestDecodeRecordRejectsUnknownFields(t *testing.T) {
	withExtra := `{"id":1,"title":"t","description":"d","task_type":"FCFS","author":"a.near",` +
		`"assignee":null,"candidates":[],"created_at":1,"completed_at":null,"reward":"2",` +
		`"result":null,"escrow":"2"}`
	_, err := decodeRecord([]byte(withExtra))
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestDecodeRecordValidates(t *testing.T) {
	bad := `{"id":1,"title":"t","description":"d","task_type":"Negotiated","author":"a.near",` +
		`"assignee":null,"candidates":[],"created_at":1,"completed_at":null,"reward":"2","result":null}`
	var serr *SchemaError
	if _, err := decodeRecord([]byte(bad)); !errors.As(err, &serr) {
		t.Fatalf("unknown task_type should fail fast, got %v", err)
	}
}

func TestU128AcceptsNumberAndString(t *testing.T) {
	var fromNumber, fromString U128
	if err := json.Unmarshal([]byte(`340282366920938463463374607431768211455`), &fromNumber); err != nil {
		t.Fatalf("number form: %v", err)
	}
	if err := json.Unmarshal([]byte(`"340282366920938463463374607431768211455"`), &fromString); err != nil {
		t.Fatalf("string form: %v", err)
	}
	if fromNumber != fromString {
		t.Errorf("forms disagree: %q vs %q", fromNumber, fromString)
	}
}

func TestU128RejectsNonDecimal(t *testing.T) {
	for _, raw := range []string{`""`, `"-1"`, `"1.5"`, `"1e24"`, `true`} {
		var u U128
		err := json.Unmarshal([]byte(raw), &u)
		var serr *SchemaError
		if !errors.As(err, &serr) {
			t.Errorf("U128(%s): expected SchemaError, got %v", raw, err)
		}
	}
}

func TestU128MarshalsAsString(t *testing.T) {
	out, err := json.Marshal(U128("5000000000000000000000000"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"5000000000000000000000000"` {
		t.Errorf("writes must use the string form, got %s", out)
	}
}

func TestDecodeRecordList(t *testing.T) {
	list := `[[3,` + recordJSON + `]]`
	records, err := decodeRecordList([]byte(list))
	if err != nil {
		t.Fatalf("decodeRecordList: %v", err)
	}
	if len(records) != 1 || records[0].ID != 3 {
		t.Errorf("records: %+v", records)
	}
}

func TestDecodeRecordListKeyMismatch(t *testing.T) {
	list := `[[99,` + recordJSON + `]]`
	var serr *SchemaError
	if _, err := decodeRecordList([]byte(list)); !errors.As(err, &serr) {
		t.Fatalf("expected SchemaError on key mismatch, got %v", err)
	}
}

func TestDecodeRecordListNotPairs(t *testing.T) {
	var serr *SchemaError
	if _, err := decodeRecordList([]byte(`[` + recordJSON + `]`)); !errors.As(err, &serr) {
		t.Fatalf("a plain record list is a schema mismatch, got %v", err)
	}
}
