package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/glabrego/postfeed/internal/feed"
	"github.com/glabrego/postfeed/internal/postapi"
)

// DefaultPageSize matches the batch size the listing endpoint is tuned for.
const DefaultPageSize = 4

type PostClient interface {
	ListPosts(ctx context.Context, p postapi.ListParams) (postapi.Page, error)
}

// Service is the feed.PageSource backed by the remote listing endpoint.
type Service struct {
	client  PostClient
	logger  *log.Logger
	timeout time.Duration
}

func NewService(client PostClient, logger *log.Logger, timeout time.Duration) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{client: client, logger: logger.WithPrefix("source"), timeout: timeout}
}

func (s *Service) Fetch(ctx context.Context, req feed.Request) ([]postapi.Post, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	page, err := s.client.ListPosts(ctx, postapi.ListParams{
		Page:          req.Page,
		Size:          req.Size,
		Content:       req.Query,
		MyPosts:       req.Flags.MyPosts,
		MyFriendPosts: req.Flags.MyFriendPosts,
	})
	if err != nil {
		s.logger.Error("list posts failed", "filter", req.Filter, "page", req.Page, "query", req.Query, "duration", time.Since(start), "err", err)
		return nil, fmt.Errorf("fetch %s posts page %d: %w", req.Filter, req.Page, err)
	}
	s.logger.Info("list posts", "filter", req.Filter, "page", req.Page, "size", req.Size, "query", req.Query, "count", len(page.Content), "duration", time.Since(start))
	return page.Content, nil
}

// NewController wires a feed controller to the listing endpoint.
func NewController(client PostClient, logger *log.Logger, timeout time.Duration, pageSize int, opts ...feed.Option) (*feed.Controller, error) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if logger != nil {
		opts = append([]feed.Option{feed.WithLogger(logger.WithPrefix("feed"))}, opts...)
	}
	return feed.New(NewService(client, logger, timeout), pageSize, opts...)
}
