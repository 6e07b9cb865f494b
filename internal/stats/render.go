package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/terms"
)

const focusCount = 3

// RenderAnalysis prints a text report for one analysis result.
func RenderAnalysis(w io.Writer, res model.AnalysisResult, useColor bool) error {
	p := painter(useColor)
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}
	heading := func(title string) {
		lines = append(lines, p.paint(colorBold, title))
	}

	add("%s %s", p.paint(colorBold, "Analysis:"), res.VideoID)
	add("Duration: %.1fs", res.Duration)
	add("Primary Style: %s", terms.Title(string(res.PrimaryStyle)))
	add("")

	heading("Quality")
	q := res.Quality
	qualityRows := [][]string{
		{"Overall", p.score(q.Overall, fmt.Sprintf("%.1f", q.Overall))},
		{"Technique", fmt.Sprintf("%.1f", q.Technique)},
		{"Timing", fmt.Sprintf("%.1f", q.Timing)},
		{"Expression", fmt.Sprintf("%.1f", q.Expression)},
		{"Clarity", fmt.Sprintf("%.1f", q.Clarity)},
	}
	if len(res.DetectedMovements) > 0 {
		conf := make([]float64, len(res.DetectedMovements))
		for i, m := range res.DetectedMovements {
			conf[i] = m.Confidence
		}
		qualityRows = append(qualityRows, []string{"Confidence", p.paint(colorCyan, Sparkline(conf))})
	}
	lines = append(lines, formatTable(nil, qualityRows, nil)...)
	add("")

	heading("Movements")
	if len(res.DetectedMovements) == 0 {
		add("No movements detected.")
	} else {
		headers := []string{"#", "Move", "Style", "Difficulty", "Confidence", "Time", "Body Parts"}
		rows := make([][]string, 0, len(res.DetectedMovements))
		for i, m := range res.DetectedMovements {
			rows = append(rows, []string{
				fmt.Sprintf("%d", i+1),
				m.Name,
				string(m.Style),
				m.Difficulty.String(),
				fmt.Sprintf("%.0f%%", m.Confidence*100),
				fmt.Sprintf("%.1f-%.1fs", m.StartTime, m.EndTime),
				truncate(strings.Join(m.BodyParts, ", "), 40),
			})
		}
		lines = append(lines, formatTable(headers, rows, map[int]bool{0: true, 4: true, 5: true})...)
	}
	add("")

	if len(res.StyleDistribution) > 0 {
		heading("Style Distribution")
		headers := []string{"Style", "Count", "Share", "Avg Difficulty"}
		rows := make([][]string, 0, len(res.StyleDistribution))
		for _, s := range res.StyleDistribution {
			rows = append(rows, []string{
				string(s.Style),
				fmt.Sprintf("%d", s.Count),
				fmt.Sprintf("%.1f%%", s.Percentage),
				fmt.Sprintf("%.2f", s.AverageDifficulty),
			})
		}
		lines = append(lines, formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true})...)
		add("Complexity: %.2f  Expression: %.2f", res.Metrics.ComplexityScore, res.Metrics.ExpressionScore)
		add("")
	}

	if focus := FocusMovements(res.DetectedMovements, focusCount); len(focus) > 1 {
		heading("Focus")
		for _, m := range focus {
			add("- %s at %.1fs (%.0f%%): %s", m.Name, m.StartTime, m.Confidence*100, m.Technique)
		}
		add("")
	}

	heading("Recommendations")
	for _, rec := range res.Recommendations {
		add("- %s", rec)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
