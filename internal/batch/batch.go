// Package batch analyzes every sequence file in a directory.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/analysis"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/pose"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/store"
)

const barTemplate = `{{ string . "prefix" }} {{counters . }} {{bar . }} {{percent . }} {{etime . "%s elapsed"}}`

// ErrNoSequences is returned when the directory holds no sequence files.
var ErrNoSequences = errors.New("no sequence files found")

// Options configures a batch run.
type Options struct {
	Analysis analysis.Options
	// Workers <= 0 uses GOMAXPROCS.
	Workers int
	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
	// Store, when set, persists each successful result.
	Store *store.Store
	Now   func() time.Time
}

// Result is the outcome for one file. Err is set when the file could not be
// loaded or stored; other files are unaffected.
type Result struct {
	Path     string
	ID       string
	Analysis model.AnalysisResult
	Err      error
}

// Run analyzes the sequence files in dir. Results are in file-name order.
func Run(ctx context.Context, dir string, opts Options) ([]Result, error) {
	paths, err := pose.ListSequenceFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoSequences)
	}
	return RunFiles(ctx, paths, opts)
}

// RunFiles analyzes the given sequence files concurrently.
func RunFiles(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	analyzer := analysis.New(opts.Analysis)

	var bar *pb.ProgressBar
	if opts.Progress != nil {
		bar = pb.ProgressBarTemplate(barTemplate).New(len(paths))
		bar.Set("prefix", "analyzing")
		bar.SetWriter(opts.Progress)
		bar.Start()
		defer bar.Finish()
	}

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = analyzeFile(gctx, analyzer, path, opts.Store, now)
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("batch canceled: %w", err)
	}
	return results, nil
}

func analyzeFile(ctx context.Context, analyzer *analysis.Analyzer, path string, st *store.Store, now func() time.Time) Result {
	res := Result{Path: path}
	seq, err := pose.LoadSequence(path)
	if err != nil {
		res.Err = err
		return res
	}
	if err := pose.Validate(seq); err != nil && !errors.Is(err, pose.ErrEmptySequence) {
		res.Err = fmt.Errorf("%s: %w", filepath.Base(path), err)
		return res
	}
	res.Analysis = analyzer.Analyze(seq.VideoID, seq.Frames)
	if st == nil {
		return res
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	id, err := st.InsertAnalysis(ctx, abs, now(), res.Analysis)
	if err != nil {
		res.Err = fmt.Errorf("failed to store %s: %w", filepath.Base(path), err)
		return res
	}
	res.ID = id
	return res
}

// Failed counts results with errors.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
