package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "movemint.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return st
}

func sampleResult(videoID string, styles ...model.Style) model.AnalysisResult {
	res := model.AnalysisResult{
		VideoID:         videoID,
		Duration:        9.5,
		Quality:         model.QualityMetrics{Overall: 80, Technique: 76, Timing: 72, Expression: 68, Clarity: 80},
		PrimaryStyle:    model.StyleFreestyle,
		Recommendations: []string{"Keep practicing to refine your technique."},
	}
	if len(styles) > 0 {
		res.PrimaryStyle = styles[0]
	}
	seen := map[model.Style]bool{}
	for i, st := range styles {
		res.DetectedMovements = append(res.DetectedMovements, model.DanceMovement{
			ID:         videoID + "-" + string(st),
			Name:       "Move",
			Movement:   "Jump",
			Style:      st,
			Difficulty: model.Intermediate,
			Confidence: 0.8,
			StartFrame: i * 20,
			EndFrame:   i*20 + 10,
		})
		seen[st] = true
	}
	res.Metrics = model.DanceMetrics{TotalMovements: len(styles), UniqueStyles: len(seen), AverageDifficulty: 2}
	return res
}

func TestInsertAndGetAnalysis(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := st.InsertAnalysis(ctx, "/tmp/clip.json", created, sampleResult("clip", model.StyleBallet, model.StyleJazz))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	sum, res, err := st.GetAnalysis(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sum.VideoID != "clip" || sum.SourcePath != "/tmp/clip.json" {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if !sum.CreatedAt.Equal(created) {
		t.Fatalf("expected created %v, got %v", created, sum.CreatedAt)
	}
	if sum.MovementCount != 2 || sum.PrimaryStyle != model.StyleBallet {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if len(res.DetectedMovements) != 2 || res.DetectedMovements[1].Style != model.StyleJazz {
		t.Fatalf("unexpected stored result %+v", res.DetectedMovements)
	}
	if res.DetectedMovements[0].Difficulty != model.Intermediate {
		t.Fatalf("expected difficulty to round trip, got %v", res.DetectedMovements[0].Difficulty)
	}

	sum2, _, err := st.GetAnalysis(ctx, id[:8])
	if err != nil {
		t.Fatalf("get by prefix: %v", err)
	}
	if sum2.ID != id {
		t.Fatalf("expected prefix lookup to find %s, got %s", id, sum2.ID)
	}
}

func TestGetAnalysisNotFound(t *testing.T) {
	st := openTestStore(t)
	if _, _, err := st.GetAnalysis(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAnalysesFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	styles := []model.Style{model.StyleBallet, model.StyleHipHop, model.StyleBallet, model.StyleJazz}
	for i, style := range styles {
		if _, err := st.InsertAnalysis(ctx, "", base.Add(time.Duration(i)*time.Hour), sampleResult("v", style)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	all, err := st.ListAnalyses(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 analyses, got %d", len(all))
	}
	if !all[0].CreatedAt.Before(all[3].CreatedAt) {
		t.Fatalf("expected oldest first")
	}

	ballet, err := st.ListAnalyses(ctx, model.HistoryConfig{Style: "ballet"})
	if err != nil {
		t.Fatalf("list ballet: %v", err)
	}
	if len(ballet) != 2 {
		t.Fatalf("expected 2 ballet analyses, got %d", len(ballet))
	}

	since := base.Add(90 * time.Minute)
	recent, err := st.ListAnalyses(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 analyses since %v, got %d", since, len(recent))
	}

	last, err := st.ListAnalyses(ctx, model.HistoryConfig{Last: 3})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 3 || last[2].PrimaryStyle != model.StyleJazz || last[0].PrimaryStyle != model.StyleHipHop {
		t.Fatalf("expected the three most recent, got %+v", last)
	}
}

func TestStyleTotals(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now()
	a, err := st.InsertAnalysis(ctx, "", now, sampleResult("a", model.StyleBallet, model.StyleBallet, model.StyleJazz))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	b, err := st.InsertAnalysis(ctx, "", now, sampleResult("b", model.StyleLatin))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	totals, err := st.StyleTotals(ctx, []string{a})
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 2 || totals[0].Style != model.StyleBallet || totals[0].Count != 2 {
		t.Fatalf("unexpected totals %+v", totals)
	}
	if totals[0].AverageDifficulty != 2 {
		t.Fatalf("expected average difficulty 2, got %f", totals[0].AverageDifficulty)
	}

	both, err := st.StyleTotals(ctx, []string{a, b})
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(both) != 3 {
		t.Fatalf("expected 3 styles, got %+v", both)
	}

	none, err := st.StyleTotals(ctx, nil)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no totals, got %v %v", none, err)
	}
}

func TestDeleteAnalysis(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id, err := st.InsertAnalysis(ctx, "", time.Now(), sampleResult("gone", model.StyleJazz))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.DeleteAnalysis(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := st.GetAnalysis(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted analysis to be gone, got %v", err)
	}
	totals, err := st.StyleTotals(ctx, []string{id})
	if err != nil || len(totals) != 0 {
		t.Fatalf("expected movements deleted, got %v %v", totals, err)
	}
	if err := st.DeleteAnalysis(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
