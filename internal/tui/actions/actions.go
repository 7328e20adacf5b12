package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/postfeed/internal/feed"
)

const (
	resetTimeout    = 10 * time.Second
	loadMoreTimeout = 12 * time.Second
)

// Feed is the part of feed.Controller the TUI drives.
type Feed interface {
	Initialize(ctx context.Context) error
	SetFilter(ctx context.Context, f feed.Filter) error
	Search(ctx context.Context, text string) error
	ClearSearch(ctx context.Context) error
	LoadMore(ctx context.Context) error
	Refresh(ctx context.Context) error
	Snapshot() feed.Snapshot
}

// SnapshotMsg carries a state change pushed by the controller observer.
type SnapshotMsg struct {
	Snapshot feed.Snapshot
}

// OpDoneMsg reports a finished feed operation together with the state it left behind.
type OpDoneMsg struct {
	Kind     feed.Kind
	Snapshot feed.Snapshot
	Err      error
	Duration time.Duration
}

type ClipboardSuccessMsg struct {
	Status string
}

type ClipboardErrorMsg struct {
	Err error
}

func InitializeCmd(f Feed) tea.Cmd {
	return run(f, feed.KindInitialize, resetTimeout, f.Initialize)
}

func SetFilterCmd(f Feed, filter feed.Filter) tea.Cmd {
	return run(f, feed.KindSetFilter, resetTimeout, func(ctx context.Context) error {
		return f.SetFilter(ctx, filter)
	})
}

func SearchCmd(f Feed, text string) tea.Cmd {
	return run(f, feed.KindSearch, resetTimeout, func(ctx context.Context) error {
		return f.Search(ctx, text)
	})
}

func ClearSearchCmd(f Feed) tea.Cmd {
	return run(f, feed.KindClearSearch, resetTimeout, f.ClearSearch)
}

func RefreshCmd(f Feed) tea.Cmd {
	return run(f, feed.KindRefresh, resetTimeout, f.Refresh)
}

func LoadMoreCmd(f Feed) tea.Cmd {
	return run(f, feed.KindLoadMore, loadMoreTimeout, f.LoadMore)
}

func run(f Feed, kind feed.Kind, timeout time.Duration, op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()

		err := op(ctx)
		return OpDoneMsg{Kind: kind, Snapshot: f.Snapshot(), Err: err, Duration: time.Since(start)}
	}
}

func CopyTextCmd(text string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if text == "" {
			return ClipboardErrorMsg{Err: fmt.Errorf("post has no text to copy")}
		}
		if copyFn != nil {
			if err := copyFn(text); err == nil {
				return ClipboardSuccessMsg{Status: "Post copied to clipboard"}
			}
		}
		return ClipboardErrorMsg{Err: fmt.Errorf("could not copy post to clipboard")}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return ClipboardSuccessMsg{Status: "Opened image in browser"}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return ClipboardSuccessMsg{Status: "Could not open browser, image URL copied to clipboard"}
			}
		}
		return ClipboardErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}
