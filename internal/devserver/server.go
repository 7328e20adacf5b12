// Package devserver serves the post listing endpoint from a local sqlite store
// so the terminal client can be exercised without the production backend.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/glabrego/postfeed/internal/postapi"
	"github.com/glabrego/postfeed/internal/storage"
)

const (
	defaultPageSize = 4
	maxPageSize     = 100
)

type PostStore interface {
	ListPosts(ctx context.Context, q storage.ListQuery) ([]postapi.Post, int, error)
}

type Options struct {
	ViewerID string
	// Latency delays every listing response. Used to provoke overlapping
	// requests in the client.
	Latency time.Duration
	Logger  *log.Logger
}

type Server struct {
	store  PostStore
	opts   Options
	logger *log.Logger
	router chi.Router
}

func New(store PostStore, opts Options) (*Server, error) {
	if store == nil {
		return nil, errors.New("devserver: nil store")
	}
	if opts.ViewerID == "" {
		return nil, errors.New("devserver: viewer id is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{store: store, opts: opts, logger: logger}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel}),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/post", func(r chi.Router) {
		r.Get("/list", s.handleList)
	})

	s.router = r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, postapi.Response{Result: false, Message: err.Error()})
		return
	}
	q.ViewerID = s.opts.ViewerID

	if s.opts.Latency > 0 {
		select {
		case <-time.After(s.opts.Latency):
		case <-r.Context().Done():
			return
		}
	}

	posts, total, err := s.store.ListPosts(r.Context(), q)
	if err != nil {
		s.logger.Error("list posts failed", "request_id", middleware.GetReqID(r.Context()), "err", err)
		writeJSON(w, http.StatusInternalServerError, postapi.Response{Result: false, Message: "failed to list posts"})
		return
	}

	totalPages := (total + q.Size - 1) / q.Size
	s.logger.Debug("listed posts", "scope", q.Scope, "page", q.Page, "size", q.Size, "content", q.Content, "count", len(posts), "total", total)
	writeJSON(w, http.StatusOK, postapi.Response{
		Result:  true,
		Message: "ok",
		Data: postapi.Page{
			Content:       posts,
			TotalElements: total,
			TotalPages:    totalPages,
		},
	})
}

func parseListQuery(r *http.Request) (storage.ListQuery, error) {
	values := r.URL.Query()
	q := storage.ListQuery{Size: defaultPageSize, Content: values.Get("content")}

	var err error
	if raw := values.Get("page"); raw != "" {
		if q.Page, err = strconv.Atoi(raw); err != nil || q.Page < 0 {
			return storage.ListQuery{}, fmt.Errorf("invalid page: %s", raw)
		}
	}
	if raw := values.Get("size"); raw != "" {
		if q.Size, err = strconv.Atoi(raw); err != nil || q.Size < 1 || q.Size > maxPageSize {
			return storage.ListQuery{}, fmt.Errorf("invalid size: %s", raw)
		}
	}
	myPosts, err := parseFlag(values.Get("getMyPosts"))
	if err != nil {
		return storage.ListQuery{}, fmt.Errorf("invalid getMyPosts: %w", err)
	}
	myFriendPosts, err := parseFlag(values.Get("getMyFriendPosts"))
	if err != nil {
		return storage.ListQuery{}, fmt.Errorf("invalid getMyFriendPosts: %w", err)
	}
	q.Scope = storage.ScopeFor(myPosts, myFriendPosts)
	return q, nil
}

func parseFlag(raw string) (bool, error) {
	switch raw {
	case "", "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("%q is not 0 or 1", raw)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "viewer", s.opts.ViewerID, "latency", s.opts.Latency)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("stopped")
	return nil
}
