package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
)

// Catppuccin Mocha subset.
const (
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
)

const (
	colorAccent  = colorMauve
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
	colorAmount  = colorPeach
)

// theme holds the styles for one output stream.
type theme struct {
	r       *lipgloss.Renderer
	color   bool
	title   lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	amount  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	errorS  lipgloss.Style
	info    lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
}

func newTheme(w io.Writer, color bool) theme {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return theme{
		r:       r,
		color:   color && r.ColorProfile() != termenv.Ascii,
		title:   r.NewStyle().Bold(true).Foreground(colorAccent),
		label:   r.NewStyle().Foreground(colorOverlay1),
		muted:   r.NewStyle().Foreground(colorOverlay1).Italic(true),
		amount:  r.NewStyle().Foreground(colorAmount),
		success: r.NewStyle().Foreground(colorSuccess),
		warning: r.NewStyle().Bold(true).Foreground(colorWarning),
		errorS:  r.NewStyle().Bold(true).Foreground(colorError),
		info:    r.NewStyle().Foreground(colorInfo),
		header:  r.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1),
		cell:    r.NewStyle().Foreground(colorText).Padding(0, 1),
		border:  r.NewStyle().Foreground(colorSurface1),
	}
}

// table builds a bordered table. Columns listed in right are right-aligned.
func (th theme) table(headers []string, rows [][]string, right ...int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(th.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return th.header
			}
			for _, c := range right {
				if c == col {
					return th.cell.Align(lipgloss.Right)
				}
			}
			return th.cell
		})
	return t.String()
}
