package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/postfeed/internal/feed"
	"github.com/glabrego/postfeed/internal/postapi"
	postrender "github.com/glabrego/postfeed/internal/render/post"
	"github.com/glabrego/postfeed/internal/tui/actions"
	"github.com/glabrego/postfeed/internal/tui/platform"
	tuistate "github.com/glabrego/postfeed/internal/tui/state"
	tuitheme "github.com/glabrego/postfeed/internal/tui/theme"
)

const statusTTL = 3 * time.Second

type clearStatusMsg struct {
	id int
}

type Model struct {
	feed actions.Feed
	snap feed.Snapshot

	cursor     int
	selectedID string
	inDetail   bool
	detailTop  int
	width      int
	height     int
	threshold  int

	searching bool
	search    textinput.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap

	status   string
	statusID int
	err      error

	openURLFn func(string) error
	copyFn    func(string) error
	nowFn     func() time.Time
	theme     tuitheme.Theme
}

type Option func(*Model)

func WithClipboard(fn func(string) error) Option {
	return func(m *Model) { m.copyFn = fn }
}

func WithBrowser(fn func(string) error) Option {
	return func(m *Model) { m.openURLFn = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(m *Model) { m.nowFn = fn }
}

// WithLoadThreshold sets how close to the last post the cursor must get
// before the next page is requested.
func WithLoadThreshold(rows int) Option {
	return func(m *Model) { m.threshold = rows }
}

func NewModel(f actions.Feed, opts ...Option) Model {
	si := textinput.New()
	si.Placeholder = "Search posts..."
	si.Prompt = "/ "
	si.CharLimit = 200

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		feed:      f,
		search:    si,
		spinner:   sp,
		help:      help.New(),
		keys:      defaultKeyMap(),
		threshold: tuistate.DefaultLoadThreshold,
		openURLFn: platform.OpenURLInBrowser,
		copyFn:    platform.CopyToClipboard,
		nowFn:     time.Now,
		theme:     tuitheme.Default(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if f != nil {
		m.snap = f.Snapshot()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.feed == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, actions.InitializeCmd(m.feed))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(10, msg.Width-8)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case actions.SnapshotMsg:
		m.applySnapshot(msg.Snapshot)
		return m, nil
	case actions.OpDoneMsg:
		return m.opDone(msg)
	case actions.ClipboardSuccessMsg:
		m.err = nil
		return m.setStatus(msg.Status)
	case actions.ClipboardErrorMsg:
		m.err = msg.Err
		return m, nil
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) opDone(msg actions.OpDoneMsg) (tea.Model, tea.Cmd) {
	m.applySnapshot(msg.Snapshot)
	if msg.Err != nil {
		if errors.Is(msg.Err, feed.ErrAlreadyInitialized) {
			return m, nil
		}
		m.err = msg.Err
		return m, nil
	}
	m.err = nil
	switch msg.Kind {
	case feed.KindRefresh:
		return m.setStatus(fmt.Sprintf("Refreshed in %dms", msg.Duration.Milliseconds()))
	case feed.KindLoadMore:
		// A short page can leave the cursor near the end again.
		return m, m.autoLoadMore()
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		text := strings.TrimSpace(m.search.Value())
		m.search.SetValue(text)
		m.leaveDetail()
		if text == "" {
			return m, actions.ClearSearchCmd(m.feed)
		}
		return m, actions.SearchCmd(m.feed, text)
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.snap.Query)
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if m.inDetail {
		return m.updateDetailKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, m.autoLoadMore()
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.snap.Items))
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.snap.Items))
		return m, m.autoLoadMore()
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-tuistate.PageStep(m.height, m.status != ""))
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(tuistate.PageStep(m.height, m.status != ""))
		return m, m.autoLoadMore()
	case key.Matches(msg, m.keys.Open):
		post, ok := m.currentPost()
		if !ok {
			return m, nil
		}
		m.selectedID = post.ID
		m.inDetail = true
		m.detailTop = 0
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.snap.Query == "" {
			return m, nil
		}
		m.search.SetValue("")
		return m, actions.ClearSearchCmd(m.feed)
	case key.Matches(msg, m.keys.Community):
		return m.switchFilter(feed.FilterCommunity)
	case key.Matches(msg, m.keys.Friends):
		return m.switchFilter(feed.FilterFriends)
	case key.Matches(msg, m.keys.Own):
		return m.switchFilter(feed.FilterOwn)
	case key.Matches(msg, m.keys.NextFilter):
		return m.switchFilter(cycleFilter(m.snap.Filter, 1))
	case key.Matches(msg, m.keys.PrevFilter):
		return m.switchFilter(cycleFilter(m.snap.Filter, -1))
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.snap.Query)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.LoadMore):
		return m, actions.LoadMoreCmd(m.feed)
	case key.Matches(msg, m.keys.Refresh):
		m.search.SetValue("")
		return m, actions.RefreshCmd(m.feed)
	case key.Matches(msg, m.keys.Copy):
		return m.copyCurrent()
	case key.Matches(msg, m.keys.OpenImage):
		return m.openCurrentImage()
	}
	return m, nil
}

func (m Model) updateDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.leaveDetail()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.detailTop > 0 {
			m.detailTop--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.detailTop < m.detailMaxTop() {
			m.detailTop++
		}
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		if m.cursor > 0 {
			m.moveCursor(-1)
			m.selectedID = m.snap.Items[m.cursor].ID
			m.detailTop = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.Next):
		if m.cursor < len(m.snap.Items)-1 {
			m.moveCursor(1)
			m.selectedID = m.snap.Items[m.cursor].ID
			m.detailTop = 0
		}
		return m, m.autoLoadMore()
	case key.Matches(msg, m.keys.Copy):
		return m.copyCurrent()
	case key.Matches(msg, m.keys.OpenImage):
		return m.openCurrentImage()
	}
	return m, nil
}

func (m Model) switchFilter(f feed.Filter) (tea.Model, tea.Cmd) {
	m.leaveDetail()
	m.search.SetValue("")
	m.cursor = 0
	return m, actions.SetFilterCmd(m.feed, f)
}

func (m Model) copyCurrent() (tea.Model, tea.Cmd) {
	post, ok := m.currentPost()
	if !ok {
		return m, nil
	}
	return m, actions.CopyTextCmd(postrender.Text(post), m.copyFn)
}

func (m Model) openCurrentImage() (tea.Model, tea.Cmd) {
	post, ok := m.currentPost()
	if !ok {
		return m, nil
	}
	images := postrender.ImageURLs(post)
	if len(images) == 0 {
		return m.setStatus("Post has no images")
	}
	return m, actions.OpenURLCmd(images[0], m.openURLFn, m.copyFn)
}

func (m Model) setStatus(status string) (tea.Model, tea.Cmd) {
	m.statusID++
	m.status = status
	return m, clearStatusCmd(m.statusID, statusTTL)
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

// autoLoadMore requests the next page once the cursor is close to the end
// of what is loaded.
func (m Model) autoLoadMore() tea.Cmd {
	if m.feed == nil || m.snap.Loading || m.snap.Exhausted {
		return nil
	}
	if !tuistate.NearEnd(m.cursor, len(m.snap.Items), m.threshold) {
		return nil
	}
	return actions.LoadMoreCmd(m.feed)
}

// applySnapshot keeps the newest state only. Observer pushes and op results
// may arrive out of order.
func (m *Model) applySnapshot(s feed.Snapshot) {
	if s.Version < m.snap.Version {
		return
	}
	anchor := m.anchorPostID()
	newEpoch := s.Epoch != m.snap.Epoch
	m.snap = s
	m.restoreSelection(anchor, newEpoch)
	if !m.searching {
		m.search.SetValue(s.Query)
	}
}

func (m Model) anchorPostID() string {
	if m.selectedID != "" {
		return m.selectedID
	}
	if post, ok := m.currentPost(); ok {
		return post.ID
	}
	return ""
}

func (m *Model) restoreSelection(anchorID string, newEpoch bool) {
	items := m.snap.Items
	if len(items) == 0 {
		m.cursor = 0
		m.leaveDetail()
		return
	}
	if i := tuistate.PostIndexByID(items, anchorID); i >= 0 {
		m.cursor = i
		return
	}
	m.leaveDetail()
	if newEpoch {
		m.cursor = 0
		return
	}
	m.cursor = tuistate.ClampCursor(m.cursor, len(items))
}

func (m *Model) leaveDetail() {
	m.inDetail = false
	m.selectedID = ""
	m.detailTop = 0
}

func (m *Model) moveCursor(delta int) {
	m.cursor = tuistate.ClampCursor(m.cursor+delta, len(m.snap.Items))
}

func (m Model) currentPost() (postapi.Post, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Items) {
		return postapi.Post{}, false
	}
	return m.snap.Items[m.cursor], true
}

func cycleFilter(current feed.Filter, step int) feed.Filter {
	i := current.Index()
	if i < 0 {
		return feed.DefaultFilter
	}
	n := len(feed.Filters)
	return feed.Filters[((i+step)%n+n)%n]
}
