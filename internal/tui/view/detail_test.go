package view

import (
	"strings"
	"testing"
	"time"

	"github.com/glabrego/postfeed/internal/postapi"
)

func TestDetailLines(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	post := postapi.Post{
		ID:         "p1",
		AuthorName: "Lan",
		Content:    "Hello #weekend",
		Visibility: postapi.VisibilityFriends,
		Likes:      1204,
		Comments:   3,
		ImageURLs:  []string{"https://img.example.com/a.png"},
		CreatedAt:  now.Add(-48 * time.Hour),
	}

	lines := DetailLines(post, now, 40, 2)
	joined := stripANSI(strings.Join(lines, "\n"))
	for _, want := range []string{
		"  Lan",
		"Posted: 2026-02-07T12:00:00Z (2 days ago)",
		"Audience: friends",
		"Reactions: 1,204 | Comments: 3",
		"Hello #weekend",
		"Images (1, o opens the first):",
		"1. https://img.example.com/a.png",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in detail, got:\n%s", want, joined)
		}
	}
	for _, line := range lines {
		if line != "" && !strings.HasPrefix(line, "  ") {
			t.Fatalf("expected margin on every non-empty line, got %q", line)
		}
	}
}

func TestDetailLines_NoImagesSection(t *testing.T) {
	lines := DetailLines(postapi.Post{AuthorName: "Lan", Content: "plain"}, time.Now(), 40, 0)
	if strings.Contains(strings.Join(lines, "\n"), "Images") {
		t.Fatalf("did not expect images section: %v", lines)
	}
}

func TestDetailMaxTop(t *testing.T) {
	if got := DetailMaxTop(10, 4); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
	if got := DetailMaxTop(3, 10); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestRenderDetailLines(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	if got := RenderDetailLines(lines, 1, 2); got != "b\nc\n" {
		t.Fatalf("unexpected window: %q", got)
	}
	if got := RenderDetailLines(lines, 9, 0); got != "d\n" {
		t.Fatalf("expected top clamp, got %q", got)
	}
	if got := RenderDetailLines(nil, 0, 3); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}
