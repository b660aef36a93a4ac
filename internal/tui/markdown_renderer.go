package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minMarkdownWidth is the narrowest wrap width handed to glamour.
const minMarkdownWidth = 24

// RenderMarkdown renders markdown as ANSI-styled terminal text wrapped to width.
// It falls back to the raw markdown when rendering fails.
func RenderMarkdown(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width, minMarkdownWidth)),
	)
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}
