package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/postfeed/internal/postapi"
)

type Theme struct {
	Title      lipgloss.Style
	Tab        lipgloss.Style
	TabActive  lipgloss.Style
	SearchBox  lipgloss.Style
	Author     lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style
	Muted      lipgloss.Style

	BadgePublic  lipgloss.Style
	BadgeFriends lipgloss.Style
	BadgePrivate lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpSurface2 := lipgloss.Color("#585b70")

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		Tab:        lipgloss.NewStyle().Foreground(cpOverlay1).Padding(0, 1),
		TabActive:  lipgloss.NewStyle().Bold(true).Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		SearchBox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(cpSurface2).Padding(0, 1),
		Author:     lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),
		Muted:      lipgloss.NewStyle().Foreground(cpOverlay0).Italic(true),

		BadgePublic:  lipgloss.NewStyle().Foreground(cpGreen),
		BadgeFriends: lipgloss.NewStyle().Foreground(cpBlue),
		BadgePrivate: lipgloss.NewStyle().Foreground(cpYellow),
	}
}

// VisibilityBadge is a one-cell marker for the audience of a post.
func (t Theme) VisibilityBadge(visibility int) string {
	switch visibility {
	case postapi.VisibilityPublic:
		return t.BadgePublic.Render("●")
	case postapi.VisibilityFriends:
		return t.BadgeFriends.Render("◐")
	case postapi.VisibilityPrivate:
		return t.BadgePrivate.Render("○")
	default:
		return " "
	}
}

func VisibilityLabel(visibility int) string {
	switch visibility {
	case postapi.VisibilityPublic:
		return "public"
	case postapi.VisibilityFriends:
		return "friends"
	case postapi.VisibilityPrivate:
		return "only me"
	default:
		return "unknown"
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
