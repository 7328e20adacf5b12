package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/glabrego/postfeed/internal/postapi"
	postrender "github.com/glabrego/postfeed/internal/render/post"
	tuitheme "github.com/glabrego/postfeed/internal/tui/theme"
)

func DetailMetaLines(p postapi.Post, now time.Time, width int) []string {
	author := strings.TrimSpace(p.AuthorName)
	if author == "" {
		author = "unknown"
	}
	lines := make([]string, 0, 8)
	lines = append(lines, author)
	lines = append(lines, strings.Repeat("=", max(1, min(width, visibleLen(author)))))
	lines = append(lines, "")
	lines = append(lines, "Posted: "+p.CreatedAt.UTC().Format(time.RFC3339)+" ("+RelativeTimeLabel(now, p.CreatedAt)+")")
	lines = append(lines, "Audience: "+tuitheme.VisibilityLabel(p.Visibility))
	lines = append(lines, fmt.Sprintf("Reactions: %s | Comments: %s", humanize.Comma(int64(p.Likes)), humanize.Comma(int64(p.Comments))))
	return lines
}

// DetailLines builds the full detail page: metadata, body and attached images.
func DetailLines(p postapi.Post, now time.Time, contentWidth, horizontalMargin int) []string {
	lines := DetailMetaLines(p, now, contentWidth)
	if body := postrender.Lines(p, contentWidth); len(body) > 0 {
		lines = append(lines, "")
		lines = append(lines, body...)
	}
	if images := postrender.ImageURLs(p); len(images) > 0 {
		lines = append(lines, "", fmt.Sprintf("Images (%d, o opens the first):", len(images)))
		for i, u := range images {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, u))
		}
	}
	return leftPadLines(lines, horizontalMargin)
}

func DetailMaxTop(linesLen, bodyHeight int) int {
	maxTop := linesLen - bodyHeight
	if maxTop < 0 {
		return 0
	}
	return maxTop
}

func RenderDetailLines(lines []string, top, maxLines int) string {
	if len(lines) == 0 {
		return ""
	}
	if top < 0 {
		top = 0
	}
	if top > len(lines)-1 {
		top = len(lines) - 1
	}
	end := len(lines)
	if maxLines > 0 && top+maxLines < end {
		end = top + maxLines
	}
	return strings.Join(lines[top:end], "\n") + "\n"
}

func leftPadLines(lines []string, margin int) []string {
	if margin <= 0 {
		return lines
	}
	pad := strings.Repeat(" ", margin)
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			out[i] = line
			continue
		}
		out[i] = pad + line
	}
	return out
}
