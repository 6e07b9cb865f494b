package stats

import (
	"context"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Analyses     []model.AnalysisSummary
	WindowIDs    []string
	StylesAll    []model.StyleAggregate
	StylesWindow []model.StyleAggregate
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	analyses, err := st.ListAnalyses(ctx, cfg)
	if err != nil {
		return Report{}, err
	}

	windowIDs := lastAnalysisIDs(analyses, cfg.TrendWindow)
	stylesAll, err := st.StyleTotals(ctx, analysisIDs(analyses))
	if err != nil {
		return Report{}, err
	}
	stylesWindow, err := st.StyleTotals(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Analyses:     analyses,
		WindowIDs:    windowIDs,
		StylesAll:    stylesAll,
		StylesWindow: stylesWindow,
	}, nil
}

func analysisIDs(analyses []model.AnalysisSummary) []string {
	ids := make([]string, len(analyses))
	for i, a := range analyses {
		ids[i] = a.ID
	}
	return ids
}

func lastAnalysisIDs(analyses []model.AnalysisSummary, window int) []string {
	if window <= 0 || len(analyses) <= window {
		return analysisIDs(analyses)
	}
	return analysisIDs(analyses[len(analyses)-window:])
}
