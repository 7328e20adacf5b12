package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/glabrego/postfeed/internal/postapi"
)

func TestVisibilityBadge_ByAudience(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()

	for _, v := range []int{postapi.VisibilityPublic, postapi.VisibilityFriends, postapi.VisibilityPrivate} {
		badge := th.VisibilityBadge(v)
		if !strings.Contains(badge, "\x1b[") {
			t.Fatalf("expected styled badge for visibility %d, got %q", v, badge)
		}
	}
	if got := th.VisibilityBadge(99); got != " " {
		t.Fatalf("expected blank badge for unknown visibility, got %q", got)
	}
}

func TestVisibilityLabel(t *testing.T) {
	if VisibilityLabel(postapi.VisibilityFriends) != "friends" || VisibilityLabel(0) != "unknown" {
		t.Fatal("unexpected visibility labels")
	}
}

func TestRenderActiveLine(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI)
	th := Default()
	if got := th.RenderActiveLine(false, "line"); got != "line" {
		t.Fatalf("expected inactive line untouched, got %q", got)
	}
	if got := th.RenderActiveLine(true, "line"); !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected styled active line, got %q", got)
	}
}
