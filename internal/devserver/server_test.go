package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/glabrego/postfeed/internal/postapi"
	"github.com/glabrego/postfeed/internal/storage"
)

type fakeStore struct {
	queries []storage.ListQuery
	posts   []postapi.Post
	total   int
	err     error
}

func (f *fakeStore) ListPosts(ctx context.Context, q storage.ListQuery) ([]postapi.Post, int, error) {
	f.queries = append(f.queries, q)
	return f.posts, f.total, f.err
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, postapi.Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var resp postapi.Response
	if rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, resp
}

func TestHandleList_MapsQueryToStore(t *testing.T) {
	store := &fakeStore{posts: []postapi.Post{{ID: "a"}}, total: 9}
	s, err := New(store, Options{ViewerID: "u7"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	rec, resp := get(t, s.Handler(), "/v1/post/list?page=2&size=4&getMyPosts=0&getMyFriendPosts=1&content=tea")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if !resp.Result || len(resp.Data.Content) != 1 || resp.Data.TotalElements != 9 || resp.Data.TotalPages != 3 {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	q := store.queries[0]
	if q.ViewerID != "u7" || q.Scope != storage.ScopeFriends || q.Page != 2 || q.Size != 4 || q.Content != "tea" {
		t.Fatalf("unexpected store query: %+v", q)
	}
}

func TestHandleList_RejectsBadParams(t *testing.T) {
	s, _ := New(&fakeStore{}, Options{ViewerID: "u1"})
	for _, target := range []string{
		"/v1/post/list?page=-1",
		"/v1/post/list?size=0",
		"/v1/post/list?size=1000",
		"/v1/post/list?getMyPosts=yes",
	} {
		rec, resp := get(t, s.Handler(), target)
		if rec.Code != http.StatusBadRequest || resp.Result {
			t.Fatalf("%s: expected rejected request, got %d %+v", target, rec.Code, resp)
		}
	}
}

func TestHandleList_StoreError(t *testing.T) {
	s, _ := New(&fakeStore{err: errors.New("disk full")}, Options{ViewerID: "u1"})
	rec, resp := get(t, s.Handler(), "/v1/post/list")
	if rec.Code != http.StatusInternalServerError || resp.Result {
		t.Fatalf("expected server error, got %d %+v", rec.Code, resp)
	}
}

func TestHandleList_LatencyHonorsCancel(t *testing.T) {
	store := &fakeStore{}
	s, _ := New(store, Options{ViewerID: "u1", Latency: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/v1/post/list", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if len(store.queries) != 0 {
		t.Fatal("expected canceled request to skip the store")
	}
}

func TestHealthz(t *testing.T) {
	s, _ := New(&fakeStore{}, Options{ViewerID: "u1"})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, Options{ViewerID: "u1"}); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := New(&fakeStore{}, Options{}); err == nil {
		t.Fatal("expected error for missing viewer")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, _ := New(&fakeStore{}, Options{ViewerID: "u1"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func newSeededServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "dev.db"), storage.SearchModeFTS)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	ctx := context.Background()
	if err := repo.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if _, err := repo.Seed(ctx, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	s, err := New(repo, Options{ViewerID: "u1"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestClientAgainstSeededServer(t *testing.T) {
	ts := newSeededServer(t)
	client := postapi.NewClient(ts.URL, ts.Client(), postapi.WithRateLimit(nil))
	ctx := context.Background()

	first, err := client.ListPosts(ctx, postapi.ListParams{Page: 0, Size: 4, MyPosts: true})
	if err != nil {
		t.Fatalf("ListPosts returned error: %v", err)
	}
	if len(first.Content) != 4 || first.TotalElements != 12 || first.TotalPages != 3 {
		t.Fatalf("unexpected own page: %d posts, total=%d pages=%d", len(first.Content), first.TotalElements, first.TotalPages)
	}
	for _, p := range first.Content {
		if p.AuthorID != "u1" || p.AuthorName == "" {
			t.Fatalf("unexpected author on own page: %+v", p)
		}
	}

	last, err := client.ListPosts(ctx, postapi.ListParams{Page: 3, Size: 4, MyPosts: true})
	if err != nil {
		t.Fatalf("ListPosts returned error: %v", err)
	}
	if len(last.Content) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(last.Content))
	}

	community, err := client.ListPosts(ctx, postapi.ListParams{Size: 100, Content: "golang"})
	if err != nil {
		t.Fatalf("ListPosts returned error: %v", err)
	}
	for _, p := range community.Content {
		if p.Visibility != postapi.VisibilityPublic {
			t.Fatalf("community search returned non-public post: %+v", p)
		}
	}
}
