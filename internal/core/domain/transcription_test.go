package domain

import "testing"

func TestRowMarshalPreservesColumnOrder(t *testing.T) {
	row := Row{
		Columns: []string{"zeta", "alpha", "count"},
		Values:  map[string]any{"zeta": "z", "alpha": "a", "count": 2},
	}

	got, err := row.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	want := `{"zeta":"z","alpha":"a","count":2}`
	if string(got) != want {
		t.Fatalf("MarshalJSON() = %s, want %s", got, want)
	}
}

func TestWrapErrorKeepsKind(t *testing.T) {
	err := WrapError(ErrInvalidInput, "analyze", ErrNotFound)
	if !IsKind(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput kind, got %v", err)
	}
	if WrapError(ErrInvalidInput, "analyze", nil) != nil {
		t.Fatalf("wrapping nil should stay nil")
	}
}
