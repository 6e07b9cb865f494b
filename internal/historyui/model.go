// Package historyui provides the Bubble Tea history browser.
package historyui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/stats"
	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/store"
)

const (
	tabOverview = iota
	tabAnalyses
	tabStyles
)

const (
	filterStyle = iota
	filterSince
	filterLast
	filterWindow
)

// Model implements the Bubble Tea history UI.
type Model struct {
	store *store.Store
	cfg   model.HistoryConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	analyses  table.Model

	// detail shows one stored analysis over the Analyses tab.
	detail     bool
	detailVP   viewport.Model
	detailText string

	confirmDelete string

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a history UI model.
func NewModel(st *store.Store, cfg model.HistoryConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Analyses", "Styles"},
	}
	m.initInputs()
	m.analyses = newAnalysisTable()
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.confirmDelete != "" {
			return m.updateConfirm(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.detail {
			return m.updateDetail(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "=":
		m.cfg.TrendWindow = nextTrendWindow(m.cfg.TrendWindow)
		m.refreshReport()
		return m, nil
	case "-":
		m.cfg.TrendWindow = prevTrendWindow(m.cfg.TrendWindow)
		m.refreshReport()
		return m, nil
	case "/":
		return m.startFilter()
	}

	if m.activeTab == tabAnalyses {
		switch msg.String() {
		case "enter":
			m.openDetail()
			return m, nil
		case "x":
			if id := m.selectedID(); id != "" {
				m.confirmDelete = id
			}
			return m, nil
		case "g", "home":
			m.analyses.GotoTop()
			return m, nil
		case "G", "end":
			m.analyses.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.analyses, cmd = m.analyses.Update(msg)
		return m, cmd
	}

	vp := m.viewports[m.activeTab]
	switch msg.String() {
	case "g", "home":
		vp.GotoTop()
	case "G", "end":
		vp.GotoBottom()
	default:
		var cmd tea.Cmd
		vp, cmd = vp.Update(msg)
		m.viewports[m.activeTab] = vp
		return m, cmd
	}
	m.viewports[m.activeTab] = vp
	return m, nil
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyBackspace:
		m.detail = false
		return m, tea.ClearScreen
	}
	var cmd tea.Cmd
	m.detailVP, cmd = m.detailVP.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirmDelete
	m.confirmDelete = ""
	if msg.String() != "y" {
		return m, nil
	}
	if err := m.store.DeleteAnalysis(context.Background(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
		m.errMsg = fmt.Sprintf("failed to delete analysis: %v", err)
		return m, nil
	}
	m.refreshReport()
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.detailVP = viewport.New(0, 0)
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Style: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Trend window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[filterStyle].SetValue(m.cfg.Style)
	since := ""
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	m.filterInputs[filterSince].SetValue(since)
	last := ""
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	m.filterInputs[filterLast].SetValue(last)
	m.filterInputs[filterWindow].SetValue(strconv.Itoa(m.cfg.TrendWindow))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.detailVP.Width = m.width
	m.detailVP.Height = bodyHeight
	if m.detail {
		m.detailVP.SetContent(wrapDetail(m.detailText, m.width))
	}
	m.analyses.SetWidth(m.width)
	m.analyses.SetHeight(max(1, bodyHeight-1))
	m.analyses.SetColumns(analysisColumns(m.width))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabAnalyses {
		m.analyses.Focus()
	} else {
		m.analyses.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load history.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.analyses.SetRows(analysisRows(report.Analyses))
	if m.analyses.Cursor() >= len(report.Analyses) {
		m.analyses.SetCursor(max(0, len(report.Analyses)-1))
	}
	m.updateLayout()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.cfg.TrendWindow, width))
	m.viewports[tabStyles].SetContent(renderStyles(m.report))
}

// selectedID returns the id under the table cursor. Rows are newest first.
func (m *Model) selectedID() string {
	idx := m.analyses.Cursor()
	if idx < 0 || idx >= len(m.report.Analyses) {
		return ""
	}
	return m.report.Analyses[len(m.report.Analyses)-1-idx].ID
}

func (m *Model) openDetail() {
	id := m.selectedID()
	if id == "" {
		return
	}
	_, res, err := m.store.GetAnalysis(context.Background(), id)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load analysis: %v", err)
		return
	}
	var buf bytes.Buffer
	if err := stats.RenderAnalysis(&buf, res, true); err != nil {
		m.errMsg = fmt.Sprintf("failed to render analysis: %v", err)
		return
	}
	m.detailText = strings.TrimRight(buf.String(), "\n")
	m.detailVP.SetContent(wrapDetail(m.detailText, m.width))
	m.detailVP.GotoTop()
	m.detail = true
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := parseFilter(m.filterInputs)
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func parseFilter(inputs []textinput.Model) (model.HistoryConfig, error) {
	var cfg model.HistoryConfig
	if raw := strings.TrimSpace(inputs[filterStyle].Value()); raw != "" {
		style, err := model.ParseStyle(raw)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid style %q", raw)
		}
		cfg.Style = string(style)
	}
	if raw := strings.TrimSpace(inputs[filterSince].Value()); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	if raw := strings.TrimSpace(inputs[filterLast].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return model.HistoryConfig{}, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = parsed
	}
	cfg.TrendWindow = 1
	if raw := strings.TrimSpace(inputs[filterWindow].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return model.HistoryConfig{}, fmt.Errorf("invalid trend window (use integer >= 1)")
		}
		cfg.TrendWindow = parsed
	}
	return cfg, nil
}

func nextTrendWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevTrendWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}
