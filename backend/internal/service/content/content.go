// Package content renders comment text into HTML safe to serve back to browsers.
package content

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	return &Renderer{
		md: md,
		// UGC policy: links, emphasis, lists, blockquotes; no scripts, no raw HTML passthrough
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown comment text to sanitized HTML.
func (r *Renderer) Render(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("render comment markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}
