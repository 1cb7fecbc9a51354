package services

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownRenderer converts comment markdown to sanitized HTML. Rendering is
// a display concern only; the stored body is always the raw markdown.
type MarkdownRenderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (r *MarkdownRenderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	return r.sanitizer.Sanitize(buf.String()), nil
}
