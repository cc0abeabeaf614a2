package outline

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the funnelkit banner and version to w. Colors are
// dropped when w is not a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Warm gradient, amber to rose
	lines := []struct{ text, color string }{
		{"  ┌─┐┬ ┬┌┐┌┌┐┌┌─┐┬  ┬┌─┬┌┬┐", "#fbbf24"},
		{"  ├┤ │ │││││││├┤ │  ├┴┐│ │ ", "#fb923c"},
		{"  └  └─┘┘└┘┘└┘└─┘┴─┘┴ ┴┴ ┴ ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  quiz funnel builder v"+version).Faint())
	fmt.Fprintln(w)
}
