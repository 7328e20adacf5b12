package post

import (
	"fmt"
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
)

type renderer struct {
	width int
}

func (r renderer) renderNodes(nodes []*nethtml.Node, depth int) []string {
	lines := make([]string, 0, len(nodes)*2)
	inline := make([]string, 0, 4)
	appendBlock := func(block []string) {
		if len(block) == 0 {
			return
		}
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	}
	flush := func() {
		text := normalizeInline(strings.Join(inline, ""))
		inline = inline[:0]
		if text != "" {
			appendBlock(wrapText(text, r.width))
		}
	}

	for _, node := range nodes {
		switch node.Type {
		case nethtml.TextNode:
			inline = append(inline, node.Data)
		case nethtml.ElementNode:
			if isBlock(node.Data) {
				flush()
				appendBlock(r.renderBlock(node, depth))
				continue
			}
			inline = append(inline, r.renderInline(node))
		}
	}
	flush()
	return trimBlankLines(lines)
}

func (r renderer) renderBlock(node *nethtml.Node, depth int) []string {
	switch tag := strings.ToLower(node.Data); tag {
	case "script", "style", "noscript":
		return nil
	case "h1", "h2", "h3", "h4", "h5", "h6":
		text := normalizeInline(r.renderInlineChildren(node))
		lines := wrapText(text, r.width)
		for i, line := range lines {
			lines[i] = headingStyle.Render(line)
		}
		return lines
	case "blockquote":
		inner := r.renderNodes(children(node), depth)
		out := make([]string, 0, len(inner))
		for _, line := range wrapEach(inner, r.width-2) {
			if strings.TrimSpace(line) == "" {
				out = append(out, "")
				continue
			}
			out = append(out, quotePrefix+quoteStyle.Render(line))
		}
		return out
	case "ul", "ol":
		return r.renderList(node, tag == "ol", depth+1)
	case "li":
		return r.renderItem(node, depth, "• ")
	case "pre":
		text := strings.ReplaceAll(collectText(node), "\r\n", "\n")
		out := make([]string, 0, 4)
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimRight(line, " \t")
			if line == "" {
				out = append(out, "")
				continue
			}
			out = append(out, codeStyle.Render("    "+line))
		}
		return trimBlankLines(out)
	case "hr":
		return []string{strings.Repeat("─", min(max(r.width, 3), 24))}
	case "img":
		alt := strings.TrimSpace(attr(node, "alt"))
		if alt == "" {
			alt = "image"
		}
		return []string{imageStyle.Render("[" + alt + "]")}
	default:
		return r.renderNodes(children(node), depth)
	}
}

func (r renderer) renderList(node *nethtml.Node, ordered bool, depth int) []string {
	lines := make([]string, 0, 8)
	n := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode || strings.ToLower(child.Data) != "li" {
			continue
		}
		n++
		marker := "• "
		if ordered {
			marker = fmt.Sprintf("%d. ", n)
		}
		lines = append(lines, r.renderItem(child, depth, marker)...)
	}
	return lines
}

func (r renderer) renderItem(node *nethtml.Node, depth int, marker string) []string {
	indent := strings.Repeat("  ", max(0, depth-1))
	var text strings.Builder
	var nested []string
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode {
			switch strings.ToLower(child.Data) {
			case "ul":
				nested = append(nested, r.renderList(child, false, depth+1)...)
				continue
			case "ol":
				nested = append(nested, r.renderList(child, true, depth+1)...)
				continue
			}
		}
		text.WriteString(r.renderInline(child))
	}
	lines := wrapPrefixed(normalizeInline(text.String()), r.width, indent+marker, indent+strings.Repeat(" ", len([]rune(marker))))
	return append(lines, nested...)
}

func (r renderer) renderInlineChildren(node *nethtml.Node) string {
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(r.renderInline(child))
	}
	return b.String()
}

func (r renderer) renderInline(node *nethtml.Node) string {
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
	default:
		return ""
	}
	switch strings.ToLower(node.Data) {
	case "script", "style", "noscript", "img":
		return ""
	case "br":
		return "\n"
	case "a":
		text := normalizeInline(r.renderInlineChildren(node))
		href := attr(node, "href")
		switch {
		case href == "" || strings.EqualFold(text, href):
			return text
		case text == "":
			return linkStyle.Render(href)
		default:
			return text + " " + linkStyle.Render("("+href+")")
		}
	case "code", "kbd":
		text := normalizeInline(r.renderInlineChildren(node))
		if text == "" {
			return ""
		}
		return codeStyle.Render("`" + text + "`")
	case "strong", "b":
		return boldStyle.Render(r.renderInlineChildren(node))
	case "em", "i":
		return italicStyle.Render(r.renderInlineChildren(node))
	default:
		return r.renderInlineChildren(node)
	}
}

// normalizeInline collapses runs of whitespace but keeps explicit breaks.
func normalizeInline(s string) string {
	s = html.UnescapeString(s)
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.Join(strings.Fields(part), " "); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, "\n")
}

func wrapEach(lines []string, width int) []string {
	if width < 1 {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if runeLen(stripANSI(line)) <= width {
			out = append(out, line)
			continue
		}
		out = append(out, wrapText(stripANSI(line), width)...)
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}

func isBlock(tag string) bool {
	switch strings.ToLower(tag) {
	case "h1", "h2", "h3", "h4", "h5", "h6",
		"p", "div", "section", "article", "header", "footer",
		"blockquote", "ul", "ol", "li", "pre", "hr", "img", "figure", "figcaption":
		return true
	default:
		return false
	}
}

func children(node *nethtml.Node) []*nethtml.Node {
	out := make([]*nethtml.Node, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		out = append(out, child)
	}
	return out
}

func attr(node *nethtml.Node, name string) string {
	for _, a := range node.Attr {
		if strings.EqualFold(a.Key, name) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func collectText(node *nethtml.Node) string {
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(collectText(child))
	}
	return b.String()
}
