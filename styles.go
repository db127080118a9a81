package main

import (
	"github.com/charmbracelet/lipgloss"
)

// Color constants for consistent theming
var (
	colorBlue = lipgloss.Color("33") // Banner blue

	// Gray scale (for subtle elements)
	colorGray244 = lipgloss.Color("244") // Subtle gray
	colorGray245 = lipgloss.Color("245") // Light gray

	// Diff colors
	colorGreen142 = lipgloss.Color("142") // Soft green (diff content)
	colorGreen86  = lipgloss.Color("86")  // Bright green (added lines)
	colorRed203   = lipgloss.Color("203") // Soft red (diff content)
	colorRed196   = lipgloss.Color("196") // Bright red (removed lines)

	colorSoftBlue75 = lipgloss.Color("75")  // Soft blue (file headers)
	colorSoftYellow = lipgloss.Color("229") // Soft warm yellow
)

// diffStyles holds the styles of one renderer
type diffStyles struct {
	fileHeader    lipgloss.Style
	index         lipgloss.Style
	hunk          lipgloss.Style
	added         lipgloss.Style
	removed       lipgloss.Style
	addedPrefix   lipgloss.Style
	removedPrefix lipgloss.Style
	context       lipgloss.Style
	statAdded     lipgloss.Style
	statRemoved   lipgloss.Style
	statPath      lipgloss.Style
	summary       lipgloss.Style
	banner        lipgloss.Style
}

func newDiffStyles(r *lipgloss.Renderer) diffStyles {
	return diffStyles{
		fileHeader: r.NewStyle().
			Foreground(colorSoftBlue75).
			Bold(true),
		index: r.NewStyle().
			Foreground(colorGray244),
		hunk: r.NewStyle().
			Foreground(colorGray244),
		added: r.NewStyle().
			Foreground(colorGreen142),
		removed: r.NewStyle().
			Foreground(colorRed203),
		addedPrefix: r.NewStyle().
			Foreground(lipgloss.Color("46")). // Vibrant bright green for + prefix
			Bold(true),
		removedPrefix: r.NewStyle().
			Foreground(colorRed196).
			Bold(true),
		context: r.NewStyle().
			Foreground(colorGray245),
		statAdded: r.NewStyle().
			Foreground(colorGreen86),
		statRemoved: r.NewStyle().
			Foreground(colorRed196),
		statPath: r.NewStyle().
			Foreground(colorSoftYellow),
		summary: r.NewStyle().
			Foreground(colorGray244),
		banner: r.NewStyle().
			Foreground(colorBlue).
			Bold(true),
	}
}
