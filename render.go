package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// DiffPrinter writes diff records as unified text, optionally styled
type DiffPrinter struct {
	out         io.Writer
	color       bool
	styles      diffStyles
	highlighter *SyntaxHighlighter
}

// NewDiffPrinter creates a printer for out. Highlighting only applies when color is on.
func NewDiffPrinter(out io.Writer, mode ColorMode, highlight bool) *DiffPrinter {
	renderer := lipgloss.NewRenderer(out)
	renderer.SetColorProfile(termenv.ANSI256)

	p := &DiffPrinter{
		out:    out,
		color:  shouldColor(mode, out),
		styles: newDiffStyles(renderer),
	}
	if p.color && highlight {
		p.highlighter = NewSyntaxHighlighter(renderer)
	}
	return p
}

// shouldColor resolves a color mode against the output writer
func shouldColor(mode ColorMode, out io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *DiffPrinter) paint(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

// PrintRecords writes every record with its header lines and hunks
func (p *DiffPrinter) PrintRecords(records []DiffRecord) error {
	var b strings.Builder
	for _, record := range records {
		p.writeRecord(&b, record)
	}
	_, err := io.WriteString(p.out, b.String())
	return err
}

func (p *DiffPrinter) writeRecord(b *strings.Builder, record DiffRecord) {
	b.WriteString(p.paint(p.styles.fileHeader, record.Header))
	b.WriteByte('\n')
	b.WriteString(p.paint(p.styles.index, record.Index))
	b.WriteByte('\n')

	for _, hunk := range record.Hunks {
		b.WriteString(p.paint(p.styles.hunk, hunk.Header))
		b.WriteByte('\n')
		for _, line := range hunk.Lines {
			b.WriteString(p.renderHunkLine(line, record.DestPath))
			b.WriteByte('\n')
		}
	}
}

// renderHunkLine styles the marker and the content of one hunk line
func (p *DiffPrinter) renderHunkLine(line, path string) string {
	if !p.color || line == "" {
		return line
	}

	marker, content := line[:1], line[1:]
	var prefixStyle, contentStyle lipgloss.Style
	switch marker {
	case "+":
		prefixStyle, contentStyle = p.styles.addedPrefix, p.styles.added
	case "-":
		prefixStyle, contentStyle = p.styles.removedPrefix, p.styles.removed
	default:
		prefixStyle, contentStyle = p.styles.context, p.styles.context
	}

	if p.highlighter != nil {
		return prefixStyle.Render(marker) + p.highlighter.Highlight(content, path)
	}
	return prefixStyle.Render(marker) + contentStyle.Render(content)
}

// PrintStat writes one "path | +added -removed" line per record and a summary
func (p *DiffPrinter) PrintStat(records []DiffRecord) error {
	width := 0
	for _, record := range records {
		width = max(width, len(record.DestPath))
	}

	var b strings.Builder
	totalAdded, totalRemoved := 0, 0
	for _, record := range records {
		added, removed := record.LineStats()
		totalAdded += added
		totalRemoved += removed

		fmt.Fprintf(&b, " %s%s | %s %s\n",
			p.paint(p.styles.statPath, record.DestPath),
			strings.Repeat(" ", width-len(record.DestPath)),
			p.paint(p.styles.statAdded, fmt.Sprintf("+%d", added)),
			p.paint(p.styles.statRemoved, fmt.Sprintf("-%d", removed)),
		)
	}
	b.WriteString(p.paint(p.styles.summary, formatStatSummary(len(records), totalAdded, totalRemoved)))
	b.WriteByte('\n')

	_, err := io.WriteString(p.out, b.String())
	return err
}

func formatStatSummary(files, added, removed int) string {
	return fmt.Sprintf("%d %s changed, %d %s(+), %d %s(-)",
		files, plural(files, "file", "files"),
		added, plural(added, "insertion", "insertions"),
		removed, plural(removed, "deletion", "deletions"),
	)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// PrintBanner writes a styled one-line banner
func (p *DiffPrinter) PrintBanner(text string) error {
	_, err := fmt.Fprintln(p.out, p.paint(p.styles.banner, text))
	return err
}
