// Package termview draws a fretboard as text for terminals.
package termview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chase3718/fretnotes/internal/fretboard"
)

const cellWidth = 5

// colors maps mark colour names to terminal colours.
var colors = map[string]lipgloss.Color{
	"red":       lipgloss.Color("#ff5f5f"),
	"green":     lipgloss.Color("#5fd75f"),
	"blue":      lipgloss.Color("#5f87ff"),
	"black":     lipgloss.Color("#d0d0d0"),
	"purple":    lipgloss.Color("#af5fff"),
	"gray":      lipgloss.Color("#8a8a8a"),
	"orange":    lipgloss.Color("#ffaf00"),
	"lightgray": lipgloss.Color("#585858"),
	"navy":      lipgloss.Color("#5f5fd7"),
}

// Options controls rendering.
type Options struct {
	// Color enables lipgloss styling. Without it the output is plain text.
	Color bool
}

// Styles holds the lipgloss styles used for marks.
type Styles struct {
	Frame    lipgloss.Style
	Dim      lipgloss.Style
	Active   lipgloss.Style
	Selected lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Frame:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")),
		Dim:      lipgloss.NewStyle().Faint(true),
		Active:   lipgloss.NewStyle().Bold(true).Reverse(true),
		Selected: lipgloss.NewStyle().Underline(true),
	}
}

// Render draws b: one row per string with string 1 on top, then fret numbers
// and inlay dots.
func Render(b *fretboard.Board, opts Options) string {
	cfg := b.Config()
	st := DefaultStyles()

	byPos := make(map[[2]int]fretboard.Mark)
	for _, m := range b.Marks() {
		byPos[[2]int{m.String, m.Fret}] = m
	}

	var sb strings.Builder
	for s, open := range b.OpenNotes() {
		sb.WriteString(fmt.Sprintf("%-4s", strings.ToUpper(open)))
		for f := cfg.StartFret; f <= cfg.Frets; f++ {
			sep := "|"
			if f == 0 {
				sep = "‖"
			}
			m, ok := byPos[[2]int{s + 1, f}]
			if !ok {
				sb.WriteString(paint(opts, st.Frame, strings.Repeat("-", cellWidth-1)) + paint(opts, st.Frame, sep))
				continue
			}
			sb.WriteString(paint(opts, markStyle(st, m), center(m.Label, cellWidth-1)) + paint(opts, st.Frame, sep))
		}
		sb.WriteByte('\n')
	}

	sb.WriteString(strings.Repeat(" ", 4))
	for f := cfg.StartFret; f <= cfg.Frets; f++ {
		sb.WriteString(center(fmt.Sprint(f), cellWidth))
	}
	sb.WriteByte('\n')

	dots := make(map[int]string)
	for _, f := range b.Inlays() {
		dots[f] = "•"
	}
	for _, f := range b.DoubleInlays() {
		dots[f] = "••"
	}
	sb.WriteString(strings.Repeat(" ", 4))
	for f := cfg.StartFret; f <= cfg.Frets; f++ {
		sb.WriteString(center(dots[f], cellWidth))
	}
	return strings.TrimRight(sb.String(), " ") + "\n"
}

func markStyle(st Styles, m fretboard.Mark) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c, ok := colors[m.Color]; ok {
		s = s.Foreground(c)
	}
	if m.Color == "lightgray" {
		s = s.Inherit(st.Dim)
	}
	if m.Emphasized {
		s = s.Bold(true)
	}
	if m.Selected {
		s = s.Inherit(st.Selected)
	}
	if m.Active {
		s = s.Inherit(st.Active)
	}
	return s
}

func paint(opts Options, s lipgloss.Style, text string) string {
	if !opts.Color {
		return text
	}
	return s.Render(text)
}

func center(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
