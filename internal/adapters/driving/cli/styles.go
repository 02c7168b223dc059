package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 80

// theme is the colour palette for terminal output.
type theme struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
}

func defaultTheme() theme {
	return theme{
		Primary: lipgloss.Color("#7C3AED"), // Purple
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Success: lipgloss.Color("#A6E3A1"), // Green
		Error:   lipgloss.Color("#F38BA8"), // Red
	}
}

// styles renders for one writer. Colour is only emitted when the writer
// is a terminal that supports it.
type styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Body    lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	t := defaultTheme()
	width := outputWidth(w)

	return &styles{
		Title:   r.NewStyle().Bold(true).Foreground(t.Primary),
		Label:   r.NewStyle().Bold(true).Width(12),
		Muted:   r.NewStyle().Foreground(t.Muted),
		Success: r.NewStyle().Foreground(t.Success),
		Error:   r.NewStyle().Foreground(t.Error),
		Body:    r.NewStyle().Width(width - 4).PaddingLeft(4),
	}
}

// outputWidth is the terminal width of w, or defaultWidth.
func outputWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < 40 {
		return defaultWidth
	}
	return width
}
