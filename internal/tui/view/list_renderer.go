package view

import "strings"

type ListRenderInput struct {
	Count     int
	Start     int
	End       int
	Cursor    int
	Loading   bool
	Exhausted bool

	RenderPostLine func(index int, active bool) string
	RenderTail     func(text string) string
}

// RenderListBody renders rows [Start, End) plus a tail row once the window
// reaches the end of the loaded posts.
func RenderListBody(in ListRenderInput) string {
	if in.Count == 0 || in.Start >= in.End || in.Start < 0 {
		return ""
	}
	var b strings.Builder
	for i := in.Start; i < in.End && i < in.Count; i++ {
		b.WriteString(in.RenderPostLine(i, i == in.Cursor))
		b.WriteString("\n")
	}
	if in.End < in.Count {
		return b.String()
	}
	tail := ""
	switch {
	case in.Loading:
		tail = "Loading more posts..."
	case in.Exhausted:
		tail = "No more posts."
	}
	if tail != "" {
		if in.RenderTail != nil {
			tail = in.RenderTail(tail)
		}
		b.WriteString(tail)
		b.WriteString("\n")
	}
	return b.String()
}
