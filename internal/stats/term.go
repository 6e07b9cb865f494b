package stats

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	terminalWidthBackup = 80
	colorReset          = "\x1b[0m"
	colorBold           = "\x1b[1m"
	colorGreen          = "\x1b[32m"
	colorYellow         = "\x1b[33m"
	colorRed            = "\x1b[31m"
	colorCyan           = "\x1b[36m"
)

// TerminalWidth returns the width of stdout or a fallback when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether ANSI colors should be written to w.
// NO_COLOR always wins over force.
func ShouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

type painter bool

func (p painter) paint(code, s string) string {
	if !p || s == "" {
		return s
	}
	return code + s + colorReset
}

// score colors a 0-100 score by band.
func (p painter) score(v float64, s string) string {
	switch {
	case v >= 80:
		return p.paint(colorGreen, s)
	case v >= 60:
		return p.paint(colorYellow, s)
	default:
		return p.paint(colorRed, s)
	}
}
