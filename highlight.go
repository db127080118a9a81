package main

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// SyntaxHighlighter handles syntax highlighting for diff content
type SyntaxHighlighter struct {
	style    *chroma.Style
	renderer *lipgloss.Renderer
	lexers   map[string]chroma.Lexer
}

// NewSyntaxHighlighter creates a highlighter whose styles render through renderer
func NewSyntaxHighlighter(renderer *lipgloss.Renderer) *SyntaxHighlighter {
	// Use a terminal-friendly style that works well with our color scheme
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	return &SyntaxHighlighter{
		style:    style,
		renderer: renderer,
		lexers:   make(map[string]chroma.Lexer),
	}
}

// Highlight highlights a line of code based on file extension
func (h *SyntaxHighlighter) Highlight(line, filePath string) string {
	lexer := h.getLexer(filePath)
	if lexer == nil {
		return line
	}

	// Tokenize the line
	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	tokens := iterator.Tokens()
	if n := len(tokens); n > 0 {
		// lexers configured with EnsureNL append a newline the line never had
		tokens[n-1].Value = strings.TrimSuffix(tokens[n-1].Value, "\n")
	}

	var result strings.Builder
	for _, token := range tokens {
		result.WriteString(h.styleToken(token))
	}

	return result.String()
}

// getLexer returns the lexer for a file path, cached per path
func (h *SyntaxHighlighter) getLexer(filePath string) chroma.Lexer {
	if filePath == "" {
		return nil
	}
	if lexer, ok := h.lexers[filePath]; ok {
		return lexer
	}
	lexer := findLexer(filePath)
	h.lexers[filePath] = lexer
	return lexer
}

func findLexer(filePath string) chroma.Lexer {
	ext := strings.ToLower(filepath.Ext(filePath))

	// Try to get lexer by extension first
	lexer := lexers.Get(ext)
	if lexer != nil {
		return lexer
	}

	// Try to get lexer by filename
	lexer = lexers.Get(filepath.Base(filePath))
	if lexer != nil {
		return lexer
	}

	if name, ok := lexerAliases[ext]; ok {
		return lexers.Get(name)
	}
	return lexers.Match(filePath)
}

// lexerAliases maps extensions chroma does not resolve on its own
var lexerAliases = map[string]string{
	".mjs":        "javascript",
	".kts":        "kotlin",
	".zsh":        "bash",
	".xhtml":      "xml",
	".markdown":   "markdown",
	".dockerfile": "docker",
	".mk":         "make",
	".makefile":   "make",
	".toml":       "toml",
}

// styleToken applies lipgloss styling to a chroma token
func (h *SyntaxHighlighter) styleToken(token chroma.Token) string {
	content := token.Value
	entry := h.style.Get(token.Type)

	// Check if entry is empty (no styling)
	if entry == (chroma.StyleEntry{}) {
		return content
	}

	style := h.renderer.NewStyle()

	// Apply color
	if entry.Colour.IsSet() {
		color := entry.Colour.String()
		if strings.HasPrefix(color, "#") {
			style = style.Foreground(lipgloss.Color(color))
		}
	}

	// Apply bold
	if entry.Bold == chroma.Yes {
		style = style.Bold(true)
	}

	// Apply italic
	if entry.Italic == chroma.Yes {
		style = style.Italic(true)
	}

	// Apply underline
	if entry.Underline == chroma.Yes {
		style = style.Underline(true)
	}

	return style.Render(content)
}
