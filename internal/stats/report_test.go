package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/analysis"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/generator"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "movemint.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	a := analysis.New(analysis.DefaultOptions())
	var ids []string
	for i := 0; i < 3; i++ {
		seq := generator.New(int64(i+1), 0.003).Routine("routine")
		res := a.Analyze(seq.VideoID, seq.Frames)
		id, err := st.InsertAnalysis(ctx, "routine.json", time.Unix(0, 0).Add(time.Duration(i)*time.Minute), res)
		if err != nil {
			t.Fatalf("insert analysis: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.HistoryConfig{Last: 2, TrendWindow: 1})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Analyses) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(report.Analyses))
	}
	if report.Analyses[0].ID != ids[1] || report.Analyses[1].ID != ids[2] {
		t.Fatalf("unexpected analysis ids: %+v", report.Analyses)
	}
	if len(report.WindowIDs) != 1 || report.WindowIDs[0] != ids[2] {
		t.Fatalf("expected window to hold the latest analysis, got %v", report.WindowIDs)
	}
	if len(report.StylesAll) == 0 || len(report.StylesWindow) == 0 {
		t.Fatalf("expected style totals")
	}
	total := 0
	for _, s := range report.StylesAll {
		total += s.Count
	}
	if want := report.Analyses[0].MovementCount + report.Analyses[1].MovementCount; total != want {
		t.Fatalf("expected %d movements across styles, got %d", want, total)
	}
}
