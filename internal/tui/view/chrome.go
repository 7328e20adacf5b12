package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/postfeed/internal/feed"
	tuitheme "github.com/glabrego/postfeed/internal/tui/theme"
)

// TabBar renders one numbered tab per filter with the active one highlighted.
func TabBar(active feed.Filter, th tuitheme.Theme) string {
	tabs := make([]string, 0, len(feed.Filters))
	for i, f := range feed.Filters {
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		if f == active {
			tabs = append(tabs, th.TabActive.Render(label))
			continue
		}
		tabs = append(tabs, th.Tab.Render(label))
	}
	return strings.Join(tabs, " ")
}

type FooterInfo struct {
	Filter    feed.Filter
	Query     string
	Page      int
	Shown     int
	Exhausted bool
	InDetail  bool
}

func Footer(in FooterInfo, th tuitheme.Theme) string {
	mode := "list"
	if in.InDetail {
		mode = "detail"
	}
	parts := []string{
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(mode),
		th.MetaLabel.Render("filter") + " " + th.MetaValue.Render(in.Filter.Label()),
		th.MetaLabel.Render("page") + " " + th.MetaValue.Render(fmt.Sprintf("%d", in.Page+1)),
		th.MetaValue.Render(fmt.Sprintf("%d shown", in.Shown)),
	}
	if in.Query != "" {
		parts = append(parts, th.MetaLabel.Render("search")+" "+th.MetaValue.Render(fmt.Sprintf("%q", in.Query)))
	}
	if in.Exhausted {
		parts = append(parts, th.Muted.Render("end of feed"))
	}
	return strings.Join(parts, " • ")
}

type MessageInfo struct {
	Loading    bool
	Refreshing bool
	Spinner    string
	Status     string
	Warning    string
}

func Message(in MessageInfo, th tuitheme.Theme) string {
	state := "idle"
	stateLabel := th.StateIdle.Render("state")
	switch {
	case in.Warning != "":
		state = "warning"
		stateLabel = th.StateWarn.Render("state")
	case in.Refreshing:
		state = "refreshing"
		stateLabel = th.StateLoad.Render("state")
	case in.Loading:
		state = "loading"
		stateLabel = th.StateLoad.Render("state")
	}
	main := "Ready"
	if in.Status != "" {
		main = in.Status
	} else if in.Warning != "" {
		main = in.Warning
	}
	line := fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
	if (in.Loading || in.Refreshing) && in.Spinner != "" {
		line = in.Spinner + " " + line
	}
	return line
}
