package state

import "github.com/glabrego/postfeed/internal/postapi"

// DefaultLoadThreshold is how many rows before the end the list asks for the
// next page.
const DefaultLoadThreshold = 2

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 8
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// NearEnd reports whether cursor is within threshold rows of the last item.
// An empty list is never near its end.
func NearEnd(cursor, size, threshold int) bool {
	if size <= 0 {
		return false
	}
	if threshold < 0 {
		threshold = 0
	}
	return cursor >= size-1-threshold
}

func PostIndexByID(posts []postapi.Post, id string) int {
	if id == "" {
		return -1
	}
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
