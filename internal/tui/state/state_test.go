package state

import (
	"testing"

	"github.com/glabrego/postfeed/internal/postapi"
)

func TestClampCursor(t *testing.T) {
	if got := ClampCursor(-1, 3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampCursor(3, 3); got != 2 {
		t.Fatalf("expected clamp to 2, got %d", got)
	}
	if got := ClampCursor(1, 3); got != 1 {
		t.Fatalf("expected keep 1, got %d", got)
	}
	if got := ClampCursor(5, 0); got != 0 {
		t.Fatalf("expected 0 for empty list, got %d", got)
	}
}

func TestPageStep(t *testing.T) {
	if got := PageStep(0, false); got != 10 {
		t.Fatalf("expected default step 10, got %d", got)
	}
	if got := PageStep(14, false); got != 6 {
		t.Fatalf("expected step 6, got %d", got)
	}
	if got := PageStep(14, true); got != 4 {
		t.Fatalf("expected step 4 with status, got %d", got)
	}
	if got := PageStep(5, true); got != 3 {
		t.Fatalf("expected minimum step 3, got %d", got)
	}
}

func TestCenteredWindow(t *testing.T) {
	cases := []struct {
		total, cursor, height int
		start, end            int
	}{
		{total: 0, cursor: 0, height: 5, start: 0, end: 0},
		{total: 3, cursor: 2, height: 5, start: 0, end: 3},
		{total: 20, cursor: 0, height: 5, start: 0, end: 5},
		{total: 20, cursor: 10, height: 5, start: 8, end: 13},
		{total: 20, cursor: 19, height: 5, start: 15, end: 20},
	}
	for _, tc := range cases {
		start, end := CenteredWindow(tc.total, tc.cursor, tc.height)
		if start != tc.start || end != tc.end {
			t.Fatalf("CenteredWindow(%d, %d, %d) = (%d, %d), want (%d, %d)", tc.total, tc.cursor, tc.height, start, end, tc.start, tc.end)
		}
	}
}

func TestNearEnd(t *testing.T) {
	cases := []struct {
		cursor, size, threshold int
		want                    bool
	}{
		{cursor: 0, size: 0, threshold: 2, want: false},
		{cursor: 0, size: 4, threshold: 2, want: false},
		{cursor: 1, size: 4, threshold: 2, want: true},
		{cursor: 3, size: 4, threshold: 0, want: true},
		{cursor: 2, size: 4, threshold: 0, want: false},
		{cursor: 0, size: 1, threshold: -1, want: true},
	}
	for _, tc := range cases {
		if got := NearEnd(tc.cursor, tc.size, tc.threshold); got != tc.want {
			t.Fatalf("NearEnd(%d, %d, %d) = %v, want %v", tc.cursor, tc.size, tc.threshold, got, tc.want)
		}
	}
}

func TestPostIndexByID(t *testing.T) {
	posts := []postapi.Post{{ID: "a"}, {ID: "b"}}
	if got := PostIndexByID(posts, "b"); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	if got := PostIndexByID(posts, "z"); got != -1 {
		t.Fatalf("expected -1 for missing id, got %d", got)
	}
	if got := PostIndexByID(posts, ""); got != -1 {
		t.Fatalf("expected -1 for empty id, got %d", got)
	}
}
