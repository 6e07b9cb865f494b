package historyui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const bulletPrefix = "- "

type cell struct {
	s       string
	width   int
	isSpace bool
}

func cellsOf(s string) []cell {
	out := make([]cell, 0, len(s))
	for _, r := range s {
		out = append(out, cell{s: string(r), width: runewidth.RuneWidth(r), isSpace: r == ' '})
	}
	return out
}

func renderCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.s)
	}
	return b.String()
}

// wrapCells breaks at the last space that fits, or mid-word when a word is
// wider than the line. A space that overflows is dropped.
func wrapCells(cells []cell, width int) []string {
	if width <= 0 {
		return []string{renderCells(cells)}
	}
	var lines []string
	line := make([]cell, 0, len(cells))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(cells); {
		item := cells[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if item.isSpace {
				lines = append(lines, renderCells(line))
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
				i++
				continue
			}
			if lastSpaceIdx >= 0 {
				lines = append(lines, renderCells(line[:lastSpaceIdx]))
				line = append([]cell{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				lines = append(lines, renderCells(line))
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	return append(lines, renderCells(line))
}

func lineWidthOf(line []cell) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []cell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// wrapDetail wraps over-long plain lines of a rendered analysis. Bullets get
// a hanging indent. Lines carrying ANSI styling (table rows, headings) are
// left for the viewport to clip.
func wrapDetail(content string, width int) string {
	if width <= 0 {
		return content
	}
	var out []string
	for _, line := range strings.Split(content, "\n") {
		if lipgloss.Width(line) <= width || strings.Contains(line, "\x1b") {
			out = append(out, line)
			continue
		}
		body, bullet := strings.CutPrefix(line, bulletPrefix)
		if !bullet || width <= len(bulletPrefix) {
			out = append(out, wrapCells(cellsOf(line), width)...)
			continue
		}
		indent := strings.Repeat(" ", len(bulletPrefix))
		for i, part := range wrapCells(cellsOf(body), width-len(bulletPrefix)) {
			if i == 0 {
				out = append(out, bulletPrefix+part)
			} else {
				out = append(out, indent+part)
			}
		}
	}
	return strings.Join(out, "\n")
}
