package outline

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Render writes the outline of doc to w. Terminals get glamour styling,
// anything else gets the plain markdown.
func Render(w io.Writer, doc domain.Document) error {
	md := Markdown(doc)

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		width := 80
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			width = cols
		}
		out, err := Styled(md, "", width)
		if err == nil {
			_, err = io.WriteString(w, out)
			return err
		}
	}

	_, err := io.WriteString(w, md)
	return err
}

// Styled renders markdown with glamour. An empty style detects the
// terminal background.
func Styled(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	return r.Render(md)
}
