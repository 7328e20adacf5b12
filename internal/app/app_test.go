package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/glabrego/postfeed/internal/feed"
	"github.com/glabrego/postfeed/internal/postapi"
)

type fakeClient struct {
	posts  []postapi.Post
	err    error
	params []postapi.ListParams
	delay  time.Duration
}

func (f *fakeClient) ListPosts(ctx context.Context, p postapi.ListParams) (postapi.Page, error) {
	f.params = append(f.params, p)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return postapi.Page{}, ctx.Err()
		}
	}
	if f.err != nil {
		return postapi.Page{}, f.err
	}
	return postapi.Page{Content: f.posts}, nil
}

func TestService_Fetch_MapsRequest(t *testing.T) {
	client := &fakeClient{posts: []postapi.Post{{ID: "1"}}}
	svc := NewService(client, nil, 0)

	got, err := svc.Fetch(context.Background(), feed.Request{
		Filter: feed.FilterOwn,
		Flags:  feed.FilterOwn.Flags(),
		Query:  "foo",
		Page:   3,
		Size:   4,
	})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("unexpected posts: %+v", got)
	}
	p := client.params[0]
	if p.Page != 3 || p.Size != 4 || p.Content != "foo" || !p.MyPosts || p.MyFriendPosts {
		t.Fatalf("unexpected list params: %+v", p)
	}
}

func TestService_Fetch_WrapsError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&fakeClient{err: boom}, nil, 0)

	_, err := svc.Fetch(context.Background(), feed.Request{Filter: feed.FilterFriends, Page: 1, Size: 4})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !strings.Contains(err.Error(), "friends posts page 1") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestService_Fetch_AppliesTimeout(t *testing.T) {
	svc := NewService(&fakeClient{delay: time.Second}, nil, 10*time.Millisecond)

	_, err := svc.Fetch(context.Background(), feed.Request{Size: 4})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewController_DrivesService(t *testing.T) {
	client := &fakeClient{posts: []postapi.Post{{ID: "a"}, {ID: "b"}}}
	c, err := NewController(client, nil, 0, 0)
	if err != nil {
		t.Fatalf("NewController returned error: %v", err)
	}
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	snap := c.Snapshot()
	if len(snap.Items) != 2 || !snap.Exhausted {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if client.params[0].Size != DefaultPageSize {
		t.Fatalf("expected default page size, got %d", client.params[0].Size)
	}
}
