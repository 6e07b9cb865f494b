package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/analysis"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/generator"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %f, got %f", i, want[i], got[i])
		}
	}
	in := []float64{1, 2}
	out := MovingAverage(in, 1)
	out[0] = 9
	if in[0] != 1 {
		t.Fatalf("expected a copy for window 1")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	if got := Sparkline([]float64{0, 100}); got != " @" {
		t.Fatalf("expected extremes, got %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); got != "+++" {
		t.Fatalf("expected flat line, got %q", got)
	}
}

func TestFocusMovements(t *testing.T) {
	ms := []model.DanceMovement{
		{Name: "a", Confidence: 0.9, StartFrame: 1},
		{Name: "b", Confidence: 0.5, StartFrame: 2},
		{Name: "c", Confidence: 0.5, StartFrame: 0},
	}
	got := FocusMovements(ms, 2)
	if len(got) != 2 || got[0].Name != "c" || got[1].Name != "b" {
		t.Fatalf("unexpected focus %+v", got)
	}
	if ms[0].Name != "a" {
		t.Fatalf("expected input untouched")
	}
}

func TestRenderAnalysis(t *testing.T) {
	seq := generator.New(5, 0.003).Routine("demo")
	res := analysis.New(analysis.DefaultOptions()).Analyze(seq.VideoID, seq.Frames)

	var buf bytes.Buffer
	if err := RenderAnalysis(&buf, res, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Analysis: demo", "Quality", "Movements", "Style Distribution", "Recommendations"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI codes without color")
	}
	for _, m := range res.DetectedMovements {
		if !strings.Contains(out, m.Name) {
			t.Fatalf("expected movement %q in report", m.Name)
		}
	}
}

func TestRenderAnalysisEmpty(t *testing.T) {
	res := analysis.New(analysis.DefaultOptions()).Analyze("empty", nil)
	var buf bytes.Buffer
	if err := RenderAnalysis(&buf, res, true); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No movements detected.") || !strings.Contains(out, analysis.RecNoMovement) {
		t.Fatalf("unexpected empty report:\n%s", out)
	}
	if strings.Contains(out, "Style Distribution") {
		t.Fatalf("expected no distribution section")
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, Report{}, 5); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No analyses found." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
