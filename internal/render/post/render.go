package post

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/glabrego/postfeed/internal/postapi"
)

var (
	reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	reHTMLTag   = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(\s[^>]*)?/?>`)
	reImgSrc    = regexp.MustCompile(`(?is)<img[^>]+src\s*=\s*["']?([^"'\s>]+)`)
	reTag       = regexp.MustCompile(`(^|[\s(])([@#][\p{L}\p{N}_]+)`)
)

// Lines renders the post body wrapped to width for the detail view.
// Bodies are either plain text with newlines or a small HTML fragment.
func Lines(p postapi.Post, width int) []string {
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return nil
	}
	var lines []string
	if looksLikeHTML(content) {
		lines = renderHTML(content, width)
	}
	if len(lines) == 0 {
		lines = wrapText(html.UnescapeString(stripTags(content)), width)
	}
	lines = trimBlankLines(lines)
	for i, line := range lines {
		lines[i] = highlightTags(line)
	}
	return lines
}

// Text is the unstyled body, used for the clipboard.
func Text(p postapi.Post) string {
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return ""
	}
	if looksLikeHTML(content) {
		if lines := renderHTML(content, 0); len(lines) > 0 {
			return stripANSI(strings.Join(trimBlankLines(lines), "\n"))
		}
	}
	return strings.TrimSpace(html.UnescapeString(stripTags(content)))
}

// Excerpt flattens the body to one line no wider than width.
func Excerpt(p postapi.Post, width int) string {
	text := strings.Join(strings.Fields(Text(p)), " ")
	if width < 1 || runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, "…")
}

// ImageURLs lists attached images followed by inline ones, deduplicated.
// Only http(s) URLs are kept.
func ImageURLs(p postapi.Post) []string {
	candidates := append([]string(nil), p.ImageURLs...)
	for _, m := range reImgSrc.FindAllStringSubmatch(p.Content, -1) {
		candidates = append(candidates, html.UnescapeString(m[1]))
	}
	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, raw := range candidates {
		raw = strings.TrimSpace(raw)
		parsed, err := url.Parse(raw)
		if raw == "" || err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			continue
		}
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}
		out = append(out, raw)
	}
	return out
}

func looksLikeHTML(s string) bool {
	return reHTMLTag.MatchString(s)
}

func stripTags(s string) string {
	return reHTMLTag.ReplaceAllString(s, "")
}

func stripANSI(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}

func highlightTags(line string) string {
	return reTag.ReplaceAllStringFunc(line, func(m string) string {
		sub := reTag.FindStringSubmatch(m)
		style := mentionStyle
		if strings.HasPrefix(sub[2], "#") {
			style = hashtagStyle
		}
		return sub[1] + style.Render(sub[2])
	})
}

func renderHTML(raw string, width int) []string {
	nodes, err := nethtml.ParseFragment(strings.NewReader(raw), &nethtml.Node{
		Type:     nethtml.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil
	}
	r := renderer{width: width}
	return r.renderNodes(nodes, 0)
}

func trimBlankLines(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines) - 1
	for end >= start && strings.TrimSpace(lines[end]) == "" {
		end--
	}
	if end < start {
		return nil
	}
	out := make([]string, 0, end-start+1)
	prevBlank := false
	for i := start; i <= end; i++ {
		blank := strings.TrimSpace(lines[i]) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, lines[i])
		prevBlank = blank
	}
	return out
}

// wrapText wraps each newline-separated paragraph on word boundaries.
// Words wider than width are split. width < 1 disables wrapping.
func wrapText(text string, width int) []string {
	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		if width < 1 {
			out = append(out, strings.Join(words, " "))
			continue
		}
		line, lineWidth := "", 0
		for _, word := range words {
			for runewidth.StringWidth(word) > width {
				if line != "" {
					out = append(out, line)
					line, lineWidth = "", 0
				}
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					break
				}
				out = append(out, head)
				word = word[len(head):]
			}
			w := runewidth.StringWidth(word)
			switch {
			case w == 0:
			case line == "":
				line, lineWidth = word, w
			case lineWidth+1+w <= width:
				line += " " + word
				lineWidth += 1 + w
			default:
				out = append(out, line)
				line, lineWidth = word, w
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func wrapPrefixed(text string, width int, firstPrefix, restPrefix string) []string {
	inner := width
	if width > 0 {
		inner = max(1, width-runewidth.StringWidth(stripANSI(firstPrefix)))
	}
	wrapped := wrapText(text, inner)
	out := make([]string, 0, len(wrapped))
	for i, line := range wrapped {
		if i == 0 {
			out = append(out, firstPrefix+line)
			continue
		}
		out = append(out, restPrefix+line)
	}
	return out
}
