package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Typographer))

// HTML renders every block through goldmark and wraps it in a banner div
// whose class carries the block level.
func (r Report) HTML() (template.HTML, error) {
	var out bytes.Buffer
	for _, b := range r.Blocks {
		if err := renderBlock(&out, b); err != nil {
			return "", err
		}
	}
	// goldmark escapes raw HTML by default, so the output is safe to embed
	return template.HTML(out.String()), nil
}

func renderBlock(out *bytes.Buffer, b Block) error {
	fmt.Fprintf(out, "<div class=\"banner banner-%s\">\n", template.HTMLEscapeString(string(b.Level)))
	if err := md.Convert([]byte(b.Markdown), out); err != nil {
		return fmt.Errorf("failed to render %s block: %w", b.Level, err)
	}
	out.WriteString("</div>\n")
	return nil
}
