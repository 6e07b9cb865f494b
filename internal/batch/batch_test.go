package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/analysis"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/generator"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/pose"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/store"
)

func writeRoutines(t *testing.T, dir string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		seq := generator.New(int64(i+1), 0.002).Routine("routine")
		seq.VideoID = ""
		name := filepath.Join(dir, string(rune('a'+i))+".json")
		if err := pose.WriteSequence(name, seq); err != nil {
			t.Fatalf("write sequence: %v", err)
		}
	}
}

func TestRunAnalyzesEveryFile(t *testing.T) {
	dir := t.TempDir()
	writeRoutines(t, dir, 3)
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var progress bytes.Buffer
	results, err := Run(context.Background(), dir, Options{
		Analysis: analysis.DefaultOptions(),
		Workers:  2,
		Progress: &progress,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if Failed(results) != 1 {
		t.Fatalf("expected one failure, got %d", Failed(results))
	}
	for _, r := range results {
		if filepath.Base(r.Path) == "broken.json" {
			if r.Err == nil {
				t.Fatalf("expected decode error for broken.json")
			}
			continue
		}
		if r.Err != nil {
			t.Fatalf("%s: %v", r.Path, r.Err)
		}
		want := string(filepath.Base(r.Path)[0])
		if r.Analysis.VideoID != want {
			t.Fatalf("expected video id %q from file name, got %q", want, r.Analysis.VideoID)
		}
		if len(r.Analysis.DetectedMovements) == 0 {
			t.Fatalf("%s: expected movements", r.Path)
		}
	}
}

func TestRunMatchesSingleAnalysis(t *testing.T) {
	dir := t.TempDir()
	writeRoutines(t, dir, 2)
	results, err := Run(context.Background(), dir, Options{Analysis: analysis.DefaultOptions(), Workers: 4})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	analyzer := analysis.New(analysis.DefaultOptions())
	for _, r := range results {
		seq, err := pose.LoadSequence(r.Path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if want := analyzer.Analyze(seq.VideoID, seq.Frames); !reflect.DeepEqual(want, r.Analysis) {
			t.Fatalf("%s: batch result differs from single analysis", r.Path)
		}
	}
}

func TestRunStoresResults(t *testing.T) {
	dir := t.TempDir()
	writeRoutines(t, dir, 2)
	st, err := store.Open(filepath.Join(t.TempDir(), "movemint.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})

	results, err := Run(context.Background(), dir, Options{Analysis: analysis.DefaultOptions(), Store: st})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, r := range results {
		if r.ID == "" {
			t.Fatalf("%s: expected stored id", r.Path)
		}
	}
	stored, err := st.ListAnalyses(context.Background(), model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored analyses, got %d", len(stored))
	}
}

func TestRunEmptyDir(t *testing.T) {
	if _, err := Run(context.Background(), t.TempDir(), Options{}); !errors.Is(err, ErrNoSequences) {
		t.Fatalf("expected ErrNoSequences, got %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	writeRoutines(t, dir, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, dir, Options{Workers: 1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
