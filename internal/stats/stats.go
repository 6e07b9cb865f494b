// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	for i := range values {
		from := i - window + 1
		if from < 0 {
			from = 0
		}
		out[i] = stat.Mean(values[from:i+1], nil)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := floats.Min(values), floats.Max(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// QualitySeries extracts the overall quality of each summary in order.
func QualitySeries(analyses []model.AnalysisSummary) []float64 {
	out := make([]float64, len(analyses))
	for i, a := range analyses {
		out[i] = a.Quality.Overall
	}
	return out
}

// RenderHistory prints a summary and a quality trend for stored analyses.
func RenderHistory(w io.Writer, report Report, window int) error {
	if len(report.Analyses) == 0 {
		_, err := fmt.Fprintln(w, "No analyses found.")
		return err
	}
	quality := QualitySeries(report.Analyses)
	movements := 0
	for _, a := range report.Analyses {
		movements += a.MovementCount
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Analyses: %d", len(report.Analyses)),
		fmt.Sprintf("Movements: %d", movements),
		fmt.Sprintf("Avg Quality: %.1f", stat.Mean(quality, nil)),
		fmt.Sprintf("Best Quality: %.1f", floats.Max(quality)),
		fmt.Sprintf("Quality Trend: %s", Sparkline(MovingAverage(quality, window))),
	}
	if top := TopStyles(report.StylesAll, 3); len(top) > 0 {
		names := make([]string, len(top))
		for i, s := range top {
			names[i] = string(s)
		}
		lines = append(lines, "Top Styles: "+strings.Join(names, ", "))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return RenderStyleTable(w, report.StylesAll)
}

// RenderAnalysisTable prints one row per stored analysis.
func RenderAnalysisTable(w io.Writer, analyses []model.AnalysisSummary) error {
	headers := []string{"ID", "Date", "Video", "Style", "Moves", "Quality", "Duration"}
	rows := make([][]string, 0, len(analyses))
	for _, a := range analyses {
		rows = append(rows, []string{
			shortID(a.ID),
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			truncate(a.VideoID, 24),
			string(a.PrimaryStyle),
			fmt.Sprintf("%d", a.MovementCount),
			fmt.Sprintf("%.1f", a.Quality.Overall),
			fmt.Sprintf("%.1fs", a.Duration),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{4: true, 5: true, 6: true}))
}

// RenderStyleTable prints stored style totals.
func RenderStyleTable(w io.Writer, aggs []model.StyleAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No movements found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Styles"); err != nil {
		return err
	}
	headers := []string{"Style", "Movements", "Avg Confidence", "Avg Difficulty"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, []string{
			string(agg.Style),
			fmt.Sprintf("%d", agg.Count),
			fmt.Sprintf("%.0f%%", agg.AverageConfidence*100),
			fmt.Sprintf("%.2f", agg.AverageDifficulty),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
