package cellref_test

import (
	"testing"

	"github.com/gosheets/xl/cellref"
)

func TestSplit(t *testing.T) {
	letters, digits := cellref.Split("AB17")
	if letters != "AB" || digits != "17" {
		t.Errorf("Split(AB17) = (%q, %q), want (AB, 17)", letters, digits)
	}
}

func TestCoordinates(t *testing.T) {
	col, row, err := cellref.Coordinates("AB17")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if col != 28 || row != 17 {
		t.Errorf("Coordinates(AB17) = (%d, %d), want (28, 17)", col, row)
	}
}

func TestCoordinatesMalformed(t *testing.T) {
	for _, ref := range []string{"17", "AB", "", "A0"} {
		if _, _, err := cellref.Coordinates(ref); err == nil {
			t.Errorf("Coordinates(%q): expected error, got nil", ref)
		}
	}
}

func TestJoin(t *testing.T) {
	if got := cellref.Join(28, 17); got != "AB17" {
		t.Errorf("Join(28, 17) = %q, want AB17", got)
	}
}

func TestUsedArea(t *testing.T) {
	cols, rows := cellref.UsedArea("A1:D9")
	if cols != 4 || rows != 9 {
		t.Errorf("UsedArea(A1:D9) = (%d, %d), want (4, 9)", cols, rows)
	}
}

func TestUsedAreaNoRange(t *testing.T) {
	cols, rows := cellref.UsedArea("A1")
	if cols != 0 || rows != 0 {
		t.Errorf("UsedArea(A1) = (%d, %d), want (0, 0)", cols, rows)
	}
}
