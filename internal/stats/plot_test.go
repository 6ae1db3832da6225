package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 10, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "scaled to its own range") {
		t.Fatalf("expected scale note in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	if !strings.Contains(out, "A: min=") || !strings.Contains(out, "B: min=") {
		t.Fatalf("expected per-series ranges in output:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 2 + 1 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", nil, 10, 4); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("empty series should produce no output, got %q", buf.String())
	}
}

func TestBrailleDotsCoverCell(t *testing.T) {
	var mask uint8
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			mask |= brailleDots[y][x]
		}
	}
	if mask != 0xFF {
		t.Fatalf("dot masks cover %#x, want 0xFF", mask)
	}
	if brailleRune(0xFF) != '⣿' {
		t.Fatalf("full cell rune = %q", brailleRune(0xFF))
	}
}
