package sharedstrings_test

import (
	"strings"
	"testing"

	"github.com/gosheets/xl/sharedstrings"
)

func TestParse(t *testing.T) {
	doc := `<?xml version="1.0"?>
<sst count="3" uniqueCount="3">
  <si><t>Hello</t></si>
  <si><r><t>Rich </t></r><r><t>Text</t></r></si>
  <si><t xml:space="preserve"> padded </t></si>
</sst>`
	table, err := sharedstrings.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}
	cases := []struct {
		idx  int
		want string
	}{
		{0, "Hello"},
		{1, "Rich Text"},
		{2, " padded "},
	}
	for _, c := range cases {
		got, ok := table.Get(c.idx)
		if !ok {
			t.Fatalf("Get(%d): not found", c.idx)
		}
		if got != c.want {
			t.Errorf("Get(%d) = %q, want %q", c.idx, got, c.want)
		}
	}
}

func TestGetOutOfRange(t *testing.T) {
	table, err := sharedstrings.Parse(strings.NewReader(`<sst></sst>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := table.Get(9999); ok {
		t.Errorf("Get(9999) on empty table: expected ok=false")
	}
}

func TestNilTable(t *testing.T) {
	var table *sharedstrings.Table
	if table.Len() != 0 {
		t.Errorf("Len() on nil table = %d, want 0", table.Len())
	}
	if _, ok := table.Get(0); ok {
		t.Errorf("Get(0) on nil table: expected ok=false")
	}
}
