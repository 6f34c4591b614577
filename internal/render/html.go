package render

import (
	"html"
	"strings"
	"unicode"

	xhtml "golang.org/x/net/html"
)

// UnescapeDisplay converts an entity-escaped body_html field to plain text
// with light formatting. The service wraps bodies in <div class="md"> and
// SC_OFF/SC_ON comments; those are dropped. Malformed HTML never fails, the
// tokenizer just yields whatever text it can recover.
func UnescapeDisplay(raw string) string {
	if raw == "" {
		return ""
	}

	raw = displayMarkers.Replace(html.UnescapeString(raw))

	tokenizer := xhtml.NewTokenizer(strings.NewReader(raw))
	var sb strings.Builder
	var inPre, inCode bool
	var anchorURL string
	var anchorStart int

	for {
		tt := tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			return tidy(sb.String())

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "p", "h1", "h2", "h3", "h4", "h5", "h6", "table":
				paragraph(&sb)
			case "blockquote":
				paragraph(&sb)
				sb.WriteString("> ")
			case "br", "tr":
				sb.WriteString("\n")
			case "li":
				newline(&sb)
				sb.WriteString("• ")
			case "hr":
				paragraph(&sb)
				sb.WriteString("---")
			case "i", "em":
				sb.WriteString("*")
			case "b", "strong":
				sb.WriteString("**")
			case "del", "strike":
				sb.WriteString("~~")
			case "code":
				if !inPre {
					sb.WriteString("`")
				}
				inCode = true
			case "pre":
				inPre = true
				paragraph(&sb)
			case "a":
				anchorURL = ""
				anchorStart = sb.Len()
				for _, attr := range t.Attr {
					if attr.Key == "href" {
						anchorURL = attr.Val
					}
				}
			}

		case xhtml.EndTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "i", "em":
				sb.WriteString("*")
			case "b", "strong":
				sb.WriteString("**")
			case "del", "strike":
				sb.WriteString("~~")
			case "td", "th":
				sb.WriteString("\t")
			case "code":
				if !inPre {
					sb.WriteString("`")
				}
				inCode = false
			case "pre":
				inPre = false
				sb.WriteString("\n")
			case "a":
				if anchorURL != "" {
					text := strings.TrimSpace(sb.String()[anchorStart:])
					// Only append the URL if it differs from the link text.
					if text != anchorURL {
						sb.WriteString(" [")
						sb.WriteString(anchorURL)
						sb.WriteString("]")
					}
				}
				anchorURL = ""
			}

		case xhtml.TextToken:
			text := tokenizer.Token().Data
			switch {
			case inPre:
				// Preserve whitespace in pre blocks, indent with 4 spaces.
				lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
				for i, line := range lines {
					if i > 0 {
						sb.WriteString("\n")
					}
					if line != "" {
						sb.WriteString("    ")
						sb.WriteString(line)
					}
				}
			case inCode:
				sb.WriteString(text)
			default:
				writeCollapsed(&sb, text)
			}
		}
	}
}

func paragraph(sb *strings.Builder) {
	if sb.Len() == 0 {
		return
	}
	s := sb.String()
	switch {
	case strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "\n"):
		sb.WriteString("\n")
	default:
		sb.WriteString("\n\n")
	}
}

func newline(sb *strings.Builder) {
	if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteString("\n")
	}
}

// writeCollapsed folds runs of whitespace into a single space and drops
// whitespace at the start of a line.
func writeCollapsed(sb *strings.Builder, text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		if text != "" && sb.Len() > 0 && !atLineStart(sb) {
			sb.WriteString(" ")
		}
		return
	}
	if unicode.IsSpace(rune(text[0])) && sb.Len() > 0 && !atLineStart(sb) {
		sb.WriteString(" ")
	}
	sb.WriteString(strings.Join(fields, " "))
	if unicode.IsSpace(rune(text[len(text)-1])) {
		sb.WriteString(" ")
	}
}

func atLineStart(sb *strings.Builder) bool {
	s := sb.String()
	return strings.HasSuffix(s, "\n") || strings.HasSuffix(s, " ")
}

// tidy trims trailing spaces on each line and blank lines around the text.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
