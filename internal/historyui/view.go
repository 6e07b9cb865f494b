package historyui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"gonum.org/v1/gonum/stat"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/stats"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#7A5CC8"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	trendStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7A5CC8"))
	tableMuted     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return m.renderTabs() + "\n" + m.renderFilterSummary()
}

func (m *Model) renderFilterSummary() string {
	style := m.cfg.Style
	if style == "" {
		style = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Filters: style=%s  since=%s  last=%s  window=%d", style, since, last, m.cfg.TrendWindow)
	return headerStyle.Render(runewidth.Truncate(summary, m.width, "..."))
}

func (m *Model) renderFooter() string {
	var help string
	switch {
	case m.filterMode:
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	case m.confirmDelete != "":
		help = fmt.Sprintf("Delete analysis %s? y/n", shortID(m.confirmDelete))
	case m.detail:
		help = "Scroll: up/down/pgup/pgdn  Back: esc  Quit: q"
	case m.activeTab == tabAnalyses:
		help = "Nav: left/right  Select: up/down  Open: enter  Delete: x  Filters: /  Quit: q"
	default:
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filters: /  Quit: q"
	}
	help = headerStyle.Render(help)
	if m.errMsg != "" {
		help += "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filters (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	switch {
	case m.filterMode:
		return fitLines(m.renderFilterForm(), m.width, height)
	case m.detail:
		return fitLines(m.detailVP.View(), m.width, height)
	case m.activeTab == tabAnalyses:
		if len(m.report.Analyses) == 0 {
			return fitLines("No analyses found.", m.width, height)
		}
		return fitLines(tableMuted.Render(m.analyses.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Analyses) == 0 {
		return "No analyses found."
	}
	quality := stats.QualitySeries(report.Analyses)
	movements := 0
	for _, a := range report.Analyses {
		movements += a.MovementCount
	}
	favorite := "-"
	if top := stats.TopStyles(report.StylesAll, 1); len(top) > 0 {
		favorite = string(top[0])
	}
	cards := []string{
		metricCard("Analyses", strconv.Itoa(len(report.Analyses))),
		metricCard("Movements", strconv.Itoa(movements)),
		metricCard("Avg Quality", fmt.Sprintf("%.1f", stat.Mean(quality, nil))),
		metricCard("Latest", fmt.Sprintf("%.1f", quality[len(quality)-1])),
		metricCard("Top Style", favorite),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	trend := stats.MovingAverage(quality, window)
	if maxLen := width - 2; maxLen > 0 && len(trend) > maxLen {
		trend = trend[len(trend)-maxLen:]
	}
	lines := []string{
		summary,
		"",
		cardTitleStyle.Render(fmt.Sprintf("Quality trend (window %d)", window)),
		trendStyle.Render(stats.Sparkline(trend)),
	}
	if len(report.StylesWindow) > 0 {
		recent := stats.TopStyles(report.StylesWindow, 3)
		names := make([]string, len(recent))
		for i, s := range recent {
			names[i] = string(s)
		}
		lines = append(lines, "", cardTitleStyle.Render("Recent styles: ")+strings.Join(names, ", "))
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderStyles(report stats.Report) string {
	var b strings.Builder
	if err := stats.RenderStyleTable(&b, report.StylesAll); err != nil {
		return fmt.Sprintf("Failed to render styles: %v", err)
	}
	if len(report.StylesWindow) > 0 && len(report.WindowIDs) < len(report.Analyses) {
		fmt.Fprintf(&b, "Last %d analyses\n", len(report.WindowIDs))
		if err := stats.RenderStyleTable(&b, report.StylesWindow); err != nil {
			return fmt.Sprintf("Failed to render styles: %v", err)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func newAnalysisTable() table.Model {
	t := table.New(
		table.WithColumns(analysisColumns(80)),
		table.WithHeight(1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	return t
}

// analysisColumns gives the video column whatever width is left over.
func analysisColumns(width int) []table.Column {
	cols := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Date", Width: 16},
		{Title: "Video", Width: 0},
		{Title: "Style", Width: 12},
		{Title: "Moves", Width: 5},
		{Title: "Quality", Width: 7},
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 1
	}
	cols[2].Width = max(8, width-used-1)
	return cols
}

// analysisRows lists the newest analysis first.
func analysisRows(analyses []model.AnalysisSummary) []table.Row {
	rows := make([]table.Row, 0, len(analyses))
	for i := len(analyses) - 1; i >= 0; i-- {
		a := analyses[i]
		rows = append(rows, table.Row{
			shortID(a.ID),
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			a.VideoID,
			string(a.PrimaryStyle),
			strconv.Itoa(a.MovementCount),
			fmt.Sprintf("%.1f", a.Quality.Overall),
		})
	}
	return rows
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
