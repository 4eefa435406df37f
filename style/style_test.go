package style_test

import (
	"strings"
	"testing"

	"github.com/gosheets/xl/style"
)

func TestIsDate(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"d", true},
		{"dd/mm/yyyy", true},
		{"mm-dd-yy", true},
		{"m/d/yy h:mm", true},
		{"0.00", false},
		{"General", false},
		{"@", false},
		{`[Red]0.00`, false},
		{"0%", false},
	}
	for _, c := range cases {
		if got := style.IsDate(c.code); got != c.want {
			t.Errorf("IsDate(%q) = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestParse(t *testing.T) {
	doc := `<?xml version="1.0"?>
<styleSheet>
  <numFmts>
    <numFmt numFmtId="164" formatCode="yyyy-mm-dd"/>
  </numFmts>
  <cellXfs count="3">
    <xf numFmtId="0"/>
    <xf numFmtId="14"/>
    <xf numFmtId="164"/>
  </cellXfs>
</styleSheet>`
	table, err := style.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("len(table) = %d, want 3", len(table))
	}
	if table.Resolve(0) != "General" {
		t.Errorf("Resolve(0) = %q, want General", table.Resolve(0))
	}
	if table.Resolve(1) != "mm-dd-yy" {
		t.Errorf("Resolve(1) = %q, want mm-dd-yy", table.Resolve(1))
	}
	if table.Resolve(2) != "yyyy-mm-dd" {
		t.Errorf("Resolve(2) = %q, want yyyy-mm-dd", table.Resolve(2))
	}
	if !table.IsDateStyle(1) || !table.IsDateStyle(2) {
		t.Errorf("expected styles 1 and 2 to be dates")
	}
	if table.IsDateStyle(0) {
		t.Errorf("expected style 0 (General) to not be a date")
	}
}

func TestResolveOutOfRange(t *testing.T) {
	var table style.Table
	if table.Resolve(5) != "General" {
		t.Errorf("Resolve on empty table should fall back to General")
	}
}
