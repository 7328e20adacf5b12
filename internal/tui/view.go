package tui

import (
	"fmt"
	"strings"

	tuistate "github.com/glabrego/postfeed/internal/tui/state"
	"github.com/glabrego/postfeed/internal/tui/view"
)

const detailMargin = 2

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Postfeed"))
	b.WriteString("  ")
	b.WriteString(view.TabBar(m.snap.Filter, m.theme))
	b.WriteString("\n")
	b.WriteString(m.searchLine())
	b.WriteString("\n")
	if m.inDetail {
		b.WriteString(m.help.View(detailKeys(m.keys)))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	b.WriteString("\n\n")

	if m.inDetail {
		b.WriteString(m.detailView())
	} else {
		b.WriteString(m.listView())
	}

	b.WriteString("\n")
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(view.Footer(view.FooterInfo{
		Filter:    m.snap.Filter,
		Query:     m.snap.Query,
		Page:      m.snap.Page,
		Shown:     len(m.snap.Items),
		Exhausted: m.snap.Exhausted,
		InDetail:  m.inDetail,
	}, m.theme))
	b.WriteString("\n")
	return b.String()
}

func (m Model) searchLine() string {
	if m.searching {
		return m.search.View()
	}
	if m.snap.Query != "" {
		return m.theme.MetaLabel.Render("search ") + m.theme.MetaValue.Render(fmt.Sprintf("%q", m.snap.Query)) + m.theme.Muted.Render("  (esc clears)")
	}
	return m.theme.Muted.Render("/ to search")
}

func (m Model) listView() string {
	items := m.snap.Items
	if len(items) == 0 {
		switch {
		case m.snap.Loading:
			return "Loading posts...\n"
		case m.snap.Query != "":
			return fmt.Sprintf("No posts match %q.\n", m.snap.Query)
		default:
			return "No posts available.\n"
		}
	}

	now := m.nowFn()
	width := m.contentWidth()
	start, end := tuistate.CenteredWindow(len(items), m.cursor, m.listBodyHeight())
	return view.RenderListBody(view.ListRenderInput{
		Count:     len(items),
		Start:     start,
		End:       end,
		Cursor:    m.cursor,
		Loading:   m.snap.Loading,
		Exhausted: m.snap.Exhausted,
		RenderPostLine: func(i int, active bool) string {
			return view.RenderPostLine(view.PostLineParams{
				Post:   items[i],
				Now:    now,
				Active: active,
				Width:  width,
			}, m.theme)
		},
		RenderTail: func(text string) string {
			return m.theme.Muted.Render("   " + text)
		},
	})
}

func (m Model) detailView() string {
	lines := m.detailLines()
	if len(lines) == 0 {
		return "No post selected.\n"
	}
	return view.RenderDetailLines(lines, m.detailTop, m.detailBodyHeight())
}

func (m Model) detailLines() []string {
	post, ok := m.currentPost()
	if !ok {
		return nil
	}
	return view.DetailLines(post, m.nowFn(), m.contentWidth()-2*detailMargin, detailMargin)
}

func (m Model) detailMaxTop() int {
	return view.DetailMaxTop(len(m.detailLines()), m.detailBodyHeight())
}

func (m Model) messagePanel() string {
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	} else if m.snap.Err != "" {
		warning = "Could not load posts: " + m.snap.Err
	}
	return view.Message(view.MessageInfo{
		Loading:    m.snap.Loading,
		Refreshing: m.snap.Refreshing,
		Spinner:    m.spinner.View(),
		Status:     m.status,
		Warning:    warning,
	}, m.theme)
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return 100
}

func (m Model) listBodyHeight() int {
	if m.height <= 0 {
		return 0
	}
	return tuistate.PageStep(m.height, m.status != "")
}

func (m Model) detailBodyHeight() int {
	if m.height > 0 {
		usedByHeader := 8
		if m.status != "" {
			usedByHeader += 2
		}
		if h := m.height - usedByHeader; h > 3 {
			return h
		}
	}
	return 16
}
