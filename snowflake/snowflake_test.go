package snowflake

import "testing"

func TestTimestampDecoding(t *testing.T) {
	// 175928847299117063 is Discord's own documented example ID.
	id := New(175928847299117063)

	if got := id.Timestamp(); got != 1462015105796 {
		t.Errorf("Timestamp = %d, want 1462015105796", got)
	}
	if got := id.InternalWorkerID(); got != 1 {
		t.Errorf("InternalWorkerID = %d, want 1", got)
	}
	if got := id.InternalProcessID(); got != 0 {
		t.Errorf("InternalProcessID = %d, want 0", got)
	}
	if got := id.Increment(); got != 7 {
		t.Errorf("Increment = %d, want 7", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	id, err := Parse("175928847299117063")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id.String() != "175928847299117063" {
		t.Errorf("String = %q", id.String())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	id := New(175928847299117063)

	data, err := id.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != `"175928847299117063"` {
		t.Fatalf("MarshalJSON = %s", data)
	}

	var decoded ID
	if err := decoded.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if decoded != id {
		t.Errorf("decoded = %d, want %d", decoded, id)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("not-a-number"); err == nil {
		t.Fatal("expected an error for a non-numeric string")
	}
}
