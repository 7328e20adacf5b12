package view

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/glabrego/postfeed/internal/postapi"
	postrender "github.com/glabrego/postfeed/internal/render/post"
	tuitheme "github.com/glabrego/postfeed/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type PostLineParams struct {
	Post   postapi.Post
	Now    time.Time
	Active bool
	Width  int
}

func RenderPostLine(p PostLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	prefix := " " + cursorMarker + " " + th.VisibilityBadge(p.Post.Visibility) + " "
	dateLabel := "[" + RelativeTimeLabel(p.Now, p.Post.CreatedAt) + "]"

	author := strings.TrimSpace(p.Post.AuthorName)
	if author == "" {
		author = "unknown"
	}
	available := p.Width - visibleLen(prefix) - 1 - visibleLen(dateLabel)
	if available < 1 {
		available = 1
	}
	author = truncateRunes(author, max(1, min(20, available)))
	excerptWidth := available - visibleLen(author) - 3
	label := th.Author.Render(author)
	plainLen := visibleLen(author)
	if excerptWidth > 0 {
		if excerpt := postrender.Excerpt(p.Post, excerptWidth); excerpt != "" {
			label += " · " + excerpt
			plainLen += 3 + visibleLen(excerpt)
		}
	}

	gap := p.Width - visibleLen(prefix) - plainLen - visibleLen(dateLabel)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+label+strings.Repeat(" ", gap)+dateLabel)
}

// RelativeTimeLabel formats then relative to now. Anything under a minute,
// or in the future, is "just now".
func RelativeTimeLabel(now, then time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	if then.IsZero() {
		return "unknown"
	}
	if then.After(now) || now.Sub(then) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(then, now, "ago", "from now")
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
