package main

import (
	"strings"
	"testing"
)

func TestRenderTableRightAlignsNamedColumns(t *testing.T) {
	out := renderTable(
		[]string{"A", "B"},
		[][]string{{"x", "1"}, {"y", "100"}},
		1,
	)
	if !strings.Contains(out, "│ x │   1 │") {
		t.Fatalf("expected column B right-aligned:\n%s", out)
	}
	if !strings.Contains(out, "│ y │ 100 │") {
		t.Fatalf("expected full-width cell untouched:\n%s", out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"Name", "Detail"}, [][]string{{"only"}})
	if !strings.Contains(out, "only") {
		t.Fatalf("row content missing:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "only") && strings.Count(line, "│") != 3 {
			t.Fatalf("short row not padded to the header width: %q", line)
		}
	}
}

func TestRenderTableNoHeaders(t *testing.T) {
	if out := renderTable(nil, nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
