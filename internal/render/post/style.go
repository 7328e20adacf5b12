package post

import "github.com/charmbracelet/lipgloss"

var (
	cpMauve    = lipgloss.Color("#cba6f7")
	cpPeach    = lipgloss.Color("#fab387")
	cpTeal     = lipgloss.Color("#94e2d5")
	cpBlue     = lipgloss.Color("#89b4fa")
	cpLavender = lipgloss.Color("#b4befe")
	cpSubtext0 = lipgloss.Color("#a6adc8")
	cpOverlay1 = lipgloss.Color("#7f849c")

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(cpLavender)
	linkStyle    = lipgloss.NewStyle().Foreground(cpBlue).Faint(true)
	quotePrefix  = lipgloss.NewStyle().Foreground(cpOverlay1).Render("│ ")
	quoteStyle   = lipgloss.NewStyle().Italic(true).Foreground(cpSubtext0)
	codeStyle    = lipgloss.NewStyle().Foreground(cpPeach)
	imageStyle   = lipgloss.NewStyle().Foreground(cpMauve).Faint(true).Italic(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	italicStyle  = lipgloss.NewStyle().Italic(true)
	mentionStyle = lipgloss.NewStyle().Foreground(cpTeal).Bold(true)
	hashtagStyle = lipgloss.NewStyle().Foreground(cpMauve)
)
