package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPanel  = lipgloss.Color("#38bdf8")
	colorBorder = lipgloss.Color("#4b5563")

	stylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Foreground(colorPanel).
			Padding(0, 1)
)

// Terminal is a host-side Surface that mirrors the panel as a bordered text
// block. Nothing is written until Flush.
type Terminal struct {
	out    io.Writer
	rows   [Rows]string
	dirty  bool
	frames int
	err    error
}

// NewTerminal returns a terminal surface writing frames to out.
func NewTerminal(out io.Writer) *Terminal {
	t := &Terminal{out: out}
	for i := range t.rows {
		t.rows[i] = Fit("", Columns)
	}
	return t
}

// Clear blanks every row.
func (t *Terminal) Clear() {
	for i := range t.rows {
		t.rows[i] = Fit("", Columns)
	}
	t.dirty = true
}

// WriteRow replaces row with text.
func (t *Terminal) WriteRow(text string, row int) {
	if row < 0 || row >= Rows {
		return
	}
	t.rows[row] = Fit(text, Columns)
	t.dirty = true
}

// Render returns the current frame.
func (t *Terminal) Render() string {
	return stylePanel.Render(strings.Join(t.rows[:], "\n"))
}

// Flush writes the frame if anything changed since the last Flush.
func (t *Terminal) Flush() error {
	if !t.dirty {
		return nil
	}
	t.dirty = false
	t.frames++
	if _, err := fmt.Fprintln(t.out, t.Render()); err != nil {
		t.err = fmt.Errorf("write frame: %w", err)
		return t.err
	}
	return nil
}

// Err returns the last write error, if any.
func (t *Terminal) Err() error {
	return t.err
}

// Frames returns the number of frames written so far.
func (t *Terminal) Frames() int {
	return t.frames
}
