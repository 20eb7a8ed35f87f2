package activity

import (
	"testing"
)

type fixture struct {
	Title    string `json:"title"`
	Count    int    `json:"count"`
	Optional *int64 `json:"optional"`
}

func TestDiffNoChanges(t *testing.T) {
	current, err := EntityFields(&fixture{Title: "hello", Count: 3})
	if err != nil {
		t.Fatal(err)
	}

	patch := map[string]any{"title": "hello", "count": 3}
	if changes := Diff(current, patch); len(changes) != 0 {
		t.Fatalf("expected no changes, got %v", changes)
	}
}

func TestDiffChangedFields(t *testing.T) {
	current, err := EntityFields(&fixture{Title: "hello", Count: 3})
	if err != nil {
		t.Fatal(err)
	}

	patch := map[string]any{"title": "goodbye", "count": 3, "optional": 9}
	changes := Diff(current, patch)
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %v", changes)
	}
	// changes come back sorted by field name
	if changes[0].Field != "optional" || changes[1].Field != "title" {
		t.Fatalf("unexpected order: %v", changes)
	}
	if changes[1].Previous != "hello" || changes[1].New != "goodbye" {
		t.Fatalf("title change = %+v", changes[1])
	}
}

func TestDiffNilAgainstValue(t *testing.T) {
	n := int64(5)
	current, err := EntityFields(&fixture{Optional: &n})
	if err != nil {
		t.Fatal(err)
	}

	changes := Diff(current, map[string]any{"optional": nil})
	if len(changes) != 1 || changes[0].Field != "optional" {
		t.Fatalf("expected optional change, got %v", changes)
	}
}

func TestDecodeValue(t *testing.T) {
	if got := DecodeValue([]byte(`"active"`)); got != "active" {
		t.Fatalf("DecodeValue = %v", got)
	}
	if got := DecodeValue(nil); got != nil {
		t.Fatalf("DecodeValue(nil) = %v", got)
	}
	if got := DecodeValue([]byte("{broken")); got != nil {
		t.Fatalf("malformed input should decode to nil, got %v", got)
	}
}

func TestEncodeValueRoundTrip(t *testing.T) {
	raw := EncodeValue(map[string]any{"amountCents": 100})
	if raw == nil {
		t.Fatal("EncodeValue returned nil")
	}
	decoded, ok := DecodeValue(raw).(map[string]any)
	if !ok {
		t.Fatalf("round trip lost the type: %v", decoded)
	}
	if decoded["amountCents"] != float64(100) {
		t.Fatalf("amountCents = %v", decoded["amountCents"])
	}
}
