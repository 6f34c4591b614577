package render

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Wrappers the service puts around every rendered body.
var displayMarkers = strings.NewReplacer(
	"<!-- SC_OFF -->", "",
	"<!-- SC_ON -->", "",
	`<div class="md">`, "",
	"</div>", "",
)

var sourceEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
)

// UnescapeSource reverses the service's escaping of '<', '>' and '&' in raw
// markdown text.
func UnescapeSource(markdown string) string {
	return sourceEntities.Replace(markdown)
}

// TimeAgo formats a timestamp relative to now, e.g. "3 hours ago".
func TimeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// Wrap performs simple word wrapping to the given width.
// Lines indented by four spaces are treated as code and left alone.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var result strings.Builder
	for _, paragraph := range strings.Split(text, "\n") {
		if strings.HasPrefix(paragraph, "    ") {
			result.WriteString(paragraph)
			result.WriteString("\n")
			continue
		}
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}
		lineLen := 0
		for i, word := range words {
			wlen := len([]rune(word))
			if i > 0 && lineLen+1+wlen > width {
				result.WriteString("\n")
				lineLen = 0
			} else if i > 0 {
				result.WriteString(" ")
				lineLen++
			}
			result.WriteString(word)
			lineLen += wlen
		}
		result.WriteString("\n")
	}
	return strings.TrimRight(result.String(), "\n")
}
