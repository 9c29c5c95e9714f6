package dataType

import "testing"

func TestTrafficCounter_Window(t *testing.T) {
	tc := NewTrafficCounter(4, 10)
	tc.Add("A", 1, 1)
	tc.Add("A", 1.5, 1)
	tc.Add("A", 5, 2)
	tc.Add("B", 5, 7)

	if got := tc.Query("A", 5, 10); got != 4 {
		t.Errorf("Expected 4 for A over 10s, got %d", got)
	}
	if got := tc.Query("A", 5, 2); got != 2 {
		t.Errorf("Expected 2 for A over 2s, got %d", got)
	}
	if got := tc.Query("missing", 5, 10); got != 0 {
		t.Errorf("Expected 0 for unknown key, got %d", got)
	}

	totals := tc.Totals()
	if totals["A"] != 4 || totals["B"] != 7 {
		t.Errorf("Unexpected totals %v", totals)
	}
}

func TestTrafficCounter_GC(t *testing.T) {
	tc := NewTrafficCounter(2, 10)
	tc.Add("old", 0, 1)
	tc.Add("new", 30, 1)
	if removed := tc.GC(30); removed != 1 {
		t.Errorf("Expected 1 key collected, got %d", removed)
	}
	if _, ok := tc.Totals()["old"]; ok {
		t.Error("Expected old key to be gone")
	}
}
