package postapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const listPostsPath = "/v1/post/list"

// Visibility values as stored by the backend.
const (
	VisibilityPublic  = 1
	VisibilityFriends = 2
	VisibilityPrivate = 3
)

// Post is the subset of post fields required by the app.
type Post struct {
	ID         string    `json:"_id"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Visibility int       `json:"status"`
	ImageURLs  []string  `json:"imageUrls,omitempty"`
	Likes      int       `json:"totalReactions"`
	Comments   int       `json:"totalComments"`
	CreatedAt  time.Time `json:"createdDate"`
}

// ListParams are the query parameters of the listing endpoint.
type ListParams struct {
	Page          int
	Size          int
	Content       string
	MyPosts       bool
	MyFriendPosts bool
}

// Page is the "data" object of a list response.
type Page struct {
	Content       []Post `json:"content"`
	TotalElements int    `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
}

// Response is the envelope every listing response is wrapped in.
type Response struct {
	Result  bool   `json:"result"`
	Message string `json:"message"`
	Data    Page   `json:"data"`
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

type Option func(*Client)

// WithAccessToken sends a pre-issued bearer token with every request.
func WithAccessToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRateLimit caps the request rate; a nil limiter disables limiting.
func WithRateLimit(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

func NewClient(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 4),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListPosts(ctx context.Context, p ListParams) (Page, error) {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size < 1 {
		p.Size = 4
	}

	q := make(url.Values)
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))
	q.Set("getMyPosts", boolFlag(p.MyPosts))
	q.Set("getMyFriendPosts", boolFlag(p.MyFriendPosts))
	if content := strings.TrimSpace(p.Content); content != "" {
		q.Set("content", content)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Page{}, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := c.newRequest(ctx, http.MethodGet, listPostsPath+"?"+q.Encode(), nil)
	if err != nil {
		return Page{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("list posts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return Page{}, errors.New("list posts failed: unauthorized")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Page{}, fmt.Errorf("list posts failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var env Response
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Page{}, fmt.Errorf("decode posts response: %w", err)
	}
	if !env.Result {
		msg := strings.TrimSpace(env.Message)
		if msg == "" {
			msg = "unknown error"
		}
		return Page{}, fmt.Errorf("list posts rejected: %s", msg)
	}
	if env.Data.Content == nil {
		env.Data.Content = []Post{}
	}
	return env.Data, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	fullURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func boolFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
