// Package markdown renders post sources to HTML and exposes the result as templ components.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown to HTML. A single Renderer is safe for
// concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a Renderer with GFM tables, strikethrough, task lists,
// linkify, footnotes and heading anchors. Raw HTML in sources is dropped.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithXHTML()),
		),
	}
}

// Render returns the HTML for src.
func (r *Renderer) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("markdown: convert: %w", err)
	}
	return buf.String(), nil
}

var defaultRenderer = NewRenderer()

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := defaultRenderer.Render([]byte(content))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// HTML wraps already rendered HTML as a component.
func HTML(rendered string) templ.Component {
	return templ.Raw(rendered)
}

// SplitFrontMatter decodes the YAML (or TOML) front matter at the top of src
// into v and returns the remaining body. A document without front matter is
// an error: every post must carry its metadata.
func SplitFrontMatter(src []byte, v any) ([]byte, error) {
	body, err := frontmatter.MustParse(bytes.NewReader(src), v)
	if err != nil {
		return nil, fmt.Errorf("markdown: front matter: %w", err)
	}
	return body, nil
}
