package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// RenderBanner returns the banner art and an optional tagline, both
// centred for the current terminal width.
func RenderBanner(tagline string) string {
	return renderBanner(termWidth(), tagline)
}

func renderBanner(width int, tagline string) string {
	lines := strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")
	if tagline != "" {
		lines = append(lines, "", tagline)
	}

	maxW := 0
	for _, l := range lines {
		if len(l) > maxW {
			maxW = len(l)
		}
	}

	var b strings.Builder
	for _, l := range lines {
		if width > maxW {
			// Taglines centre on their own width; art keeps its shape.
			w := maxW
			if l == tagline {
				w = len(l)
			}
			b.WriteString(strings.Repeat(" ", (width-w)/2))
		}
		b.WriteString(BannerStyle.Render(l))
		b.WriteByte('\n')
	}
	return b.String()
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
