package labelmap

import "testing"

func TestParsePairForm(t *testing.T) {
	data := []byte(`{"0": ["n01440764", "tench"], "1": ["n01443537", "goldfish"], "2": ["n01484850", "great white shark"]}`)

	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3", m.Len())
	}

	name, ok := m.Name(1)
	if !ok || name != "goldfish" {
		t.Fatalf("Name(1) = %q, %v; want goldfish, true", name, ok)
	}
}

func TestParsePlainForm(t *testing.T) {
	m, err := Parse([]byte(`{"0": "cat", "1": "dog"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	name, ok := m.Name(0)
	if !ok || name != "cat" {
		t.Fatalf("Name(0) = %q, %v; want cat, true", name, ok)
	}
}

func TestParseRejectsGaps(t *testing.T) {
	if _, err := Parse([]byte(`{"0": "cat", "2": "dog"}`)); err == nil {
		t.Fatal("expected error for non-contiguous indices")
	}
}

func TestParseRejectsNonInteger(t *testing.T) {
	if _, err := Parse([]byte(`{"zero": "cat"}`)); err == nil {
		t.Fatal("expected error for non-integer index")
	}
}

func TestParseRejectsEmpty(t *testing.T) {
	if _, err := Parse([]byte(`{}`)); err == nil {
		t.Fatal("expected error for empty mapping")
	}
	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestNameOutOfRange(t *testing.T) {
	m, err := Parse([]byte(`{"0": "cat"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if _, ok := m.Name(5); ok {
		t.Fatal("Name(5) should report not found")
	}
	if _, ok := m.Name(-1); ok {
		t.Fatal("Name(-1) should report not found")
	}
}
