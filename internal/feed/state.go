package feed

import (
	"slices"

	"github.com/glabrego/postfeed/internal/postapi"
)

// Kind names the operation that issued a fetch.
type Kind int

const (
	KindInitialize Kind = iota
	KindSetFilter
	KindSearch
	KindClearSearch
	KindRefresh
	KindLoadMore
)

func (k Kind) String() string {
	switch k {
	case KindInitialize:
		return "initialize"
	case KindSetFilter:
		return "set-filter"
	case KindSearch:
		return "search"
	case KindClearSearch:
		return "clear-search"
	case KindRefresh:
		return "refresh"
	case KindLoadMore:
		return "load-more"
	default:
		return "unknown"
	}
}

// Request is what a PageSource is asked for.
type Request struct {
	Filter Filter
	Flags  Flags
	Query  string
	Page   int
	Size   int
}

// Ticket identifies one issued fetch. Its result only applies while Epoch
// is still the state's epoch.
type Ticket struct {
	Epoch   uint64
	Kind    Kind
	Request Request
}

// Outcome reports what Resolve did with a fetch result.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeFailed
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// State is the feed state as a value. Transitions never modify the receiver
// or its Items backing array; they return a new State.
type State struct {
	Filter     Filter
	Query      string
	Items      []postapi.Post
	Page       int
	Size       int
	Exhausted  bool
	Loading    bool
	Refreshing bool
	Err        string
	Epoch      uint64

	// merged is set once a page of the current epoch has been merged.
	merged bool
}

func NewState(filter Filter, size int) State {
	return State{Filter: filter, Size: size}
}

// Reset starts a new epoch for filter and query and returns the ticket for
// its page 0 fetch. SetFilter drops the old items right away; the other
// resets keep them until the replacing page arrives.
func (s State) Reset(kind Kind, filter Filter, query string) (State, Ticket) {
	s.Epoch++
	s.Filter = filter
	s.Query = query
	s.Page = 0
	s.Exhausted = false
	s.Loading = true
	s.Refreshing = kind == KindRefresh
	s.Err = ""
	s.merged = false
	if kind == KindSetFilter {
		s.Items = nil
	}
	return s, s.ticket(kind, 0)
}

// BeginLoadMore returns the ticket for the next page of the current epoch.
// ok is false when the state is exhausted or a fetch is already outstanding.
func (s State) BeginLoadMore() (next State, t Ticket, ok bool) {
	if s.Exhausted || s.Loading {
		return s, Ticket{}, false
	}
	page := 0
	if s.merged {
		page = s.Page + 1
	}
	s.Loading = true
	s.Err = ""
	return s, s.ticket(KindLoadMore, page), true
}

// Resolve applies the result of the fetch identified by t.
func (s State) Resolve(t Ticket, items []postapi.Post, fetchErr error) (State, Outcome) {
	if t.Epoch != s.Epoch {
		return s, OutcomeStale
	}
	s.Loading = false
	s.Refreshing = false
	if fetchErr != nil {
		s.Err = fetchErr.Error()
		return s, OutcomeFailed
	}

	page := t.Request.Page
	if page == 0 {
		s.Items = mergeUnique(nil, items)
	} else {
		s.Items = mergeUnique(s.Items, items)
	}
	s.Page = page
	s.Exhausted = len(items) < s.Size
	s.Err = ""
	s.merged = true
	return s, OutcomeApplied
}

func (s State) ticket(kind Kind, page int) Ticket {
	return Ticket{
		Epoch: s.Epoch,
		Kind:  kind,
		Request: Request{
			Filter: s.Filter,
			Flags:  s.Filter.Flags(),
			Query:  s.Query,
			Page:   page,
			Size:   s.Size,
		},
	}
}

// mergeUnique returns a new slice holding base followed by the posts of page
// whose IDs are not already present.
func mergeUnique(base, page []postapi.Post) []postapi.Post {
	out := make([]postapi.Post, 0, len(base)+len(page))
	seen := make(map[string]struct{}, len(base)+len(page))
	for _, list := range [][]postapi.Post{base, page} {
		for _, p := range list {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return slices.Clip(out)
}
