package feed

import (
	"fmt"
	"strings"
)

// Filter selects which audience of posts the feed lists.
type Filter string

const (
	FilterCommunity Filter = "community"
	FilterFriends   Filter = "friends"
	FilterOwn       Filter = "own"
)

// DefaultFilter is the view selected on Initialize.
const DefaultFilter = FilterCommunity

// Filters lists every filter in tab order.
var Filters = []Filter{FilterCommunity, FilterFriends, FilterOwn}

// Flags are the two independent switches the listing endpoint understands.
type Flags struct {
	MyPosts       bool
	MyFriendPosts bool
}

func (f Filter) Flags() Flags {
	switch f {
	case FilterFriends:
		return Flags{MyFriendPosts: true}
	case FilterOwn:
		return Flags{MyPosts: true}
	default:
		return Flags{}
	}
}

func (f Filter) Label() string {
	switch f {
	case FilterCommunity:
		return "Community"
	case FilterFriends:
		return "Friends"
	case FilterOwn:
		return "Mine"
	default:
		return string(f)
	}
}

func (f Filter) Valid() bool {
	for _, known := range Filters {
		if f == known {
			return true
		}
	}
	return false
}

// Index returns the tab position of f, or -1.
func (f Filter) Index() int {
	for i, known := range Filters {
		if f == known {
			return i
		}
	}
	return -1
}

func ParseFilter(raw string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(raw)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, raw)
	}
	return f, nil
}
