package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/postfeed/internal/postapi"
)

const (
	SearchModeLike = "like"
	SearchModeFTS  = "fts"
)

// Scope selects which posts a viewer sees, mirroring the listing flags.
type Scope int

const (
	ScopeCommunity Scope = iota
	ScopeFriends
	ScopeOwn
)

// ScopeFor maps the listing query flags to a scope. MyPosts wins when both are set.
func ScopeFor(myPosts, myFriendPosts bool) Scope {
	switch {
	case myPosts:
		return ScopeOwn
	case myFriendPosts:
		return ScopeFriends
	default:
		return ScopeCommunity
	}
}

type User struct {
	ID   string
	Name string
}

type ListQuery struct {
	ViewerID string
	Scope    Scope
	Content  string
	Page     int
	Size     int
}

type Repository struct {
	db         *sql.DB
	searchMode string
}

func NewRepository(path, searchMode string) (*Repository, error) {
	if searchMode == "" {
		searchMode = SearchModeLike
	}
	if searchMode != SearchModeLike && searchMode != SearchModeFTS {
		return nil, fmt.Errorf("unknown search mode: %s", searchMode)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection keeps :memory: databases and writes consistent.
	db.SetMaxOpenConns(1)
	return &Repository{db: db, searchMode: searchMode}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS friendships (
  user_id TEXT NOT NULL,
  friend_id TEXT NOT NULL,
  PRIMARY KEY (user_id, friend_id)
);
CREATE TABLE IF NOT EXISTS posts (
  id TEXT PRIMARY KEY,
  author_id TEXT NOT NULL,
  content TEXT NOT NULL,
  status INTEGER NOT NULL,
  image_urls TEXT NOT NULL DEFAULT '[]',
  total_reactions INTEGER NOT NULL DEFAULT 0,
  total_comments INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_id);
CREATE VIRTUAL TABLE IF NOT EXISTS posts_fts USING fts5(
  content,
  content='posts',
  content_rowid='rowid'
);
CREATE TRIGGER IF NOT EXISTS posts_ai AFTER INSERT ON posts BEGIN
  INSERT INTO posts_fts(rowid, content) VALUES (new.rowid, new.content);
END;
CREATE TRIGGER IF NOT EXISTS posts_ad AFTER DELETE ON posts BEGIN
  INSERT INTO posts_fts(posts_fts, rowid, content) VALUES ('delete', old.rowid, old.content);
END;
CREATE TRIGGER IF NOT EXISTS posts_au AFTER UPDATE ON posts BEGIN
  INSERT INTO posts_fts(posts_fts, rowid, content) VALUES ('delete', old.rowid, old.content);
  INSERT INTO posts_fts(rowid, content) VALUES (new.rowid, new.content);
END;
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *Repository) SaveUsers(ctx context.Context, users []User) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, u := range users {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO users (id, name) VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET name=excluded.name
`, u.ID, u.Name); err != nil {
				return fmt.Errorf("save user %s: %w", u.ID, err)
			}
		}
		return nil
	})
}

// AddFriends records a symmetric friendship.
func (r *Repository) AddFriends(ctx context.Context, a, b string) error {
	if a == "" || b == "" || a == b {
		return fmt.Errorf("invalid friendship %q/%q", a, b)
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, pair := range [][2]string{{a, b}, {b, a}} {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO friendships (user_id, friend_id) VALUES (?, ?)`, pair[0], pair[1]); err != nil {
				return fmt.Errorf("save friendship: %w", err)
			}
		}
		return nil
	})
}

func (r *Repository) SavePosts(ctx context.Context, posts []postapi.Post) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO posts (id, author_id, content, status, image_urls, total_reactions, total_comments, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  author_id=excluded.author_id,
  content=excluded.content,
  status=excluded.status,
  image_urls=excluded.image_urls,
  total_reactions=excluded.total_reactions,
  total_comments=excluded.total_comments,
  created_at=excluded.created_at
`)
		if err != nil {
			return fmt.Errorf("prepare save statement: %w", err)
		}
		defer stmt.Close()

		for _, p := range posts {
			images, err := json.Marshal(nonNil(p.ImageURLs))
			if err != nil {
				return fmt.Errorf("encode images for post %s: %w", p.ID, err)
			}
			if _, err := stmt.ExecContext(
				ctx,
				p.ID,
				p.AuthorID,
				p.Content,
				p.Visibility,
				string(images),
				p.Likes,
				p.Comments,
				p.CreatedAt.UTC().Format(time.RFC3339Nano),
			); err != nil {
				return fmt.Errorf("save post %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// ListPosts returns one page of posts visible to the viewer, newest first,
// together with the total number of matching posts.
func (r *Repository) ListPosts(ctx context.Context, q ListQuery) ([]postapi.Post, int, error) {
	if q.Size < 1 {
		return nil, 0, errors.New("page size must be positive")
	}
	if q.Page < 0 {
		q.Page = 0
	}

	where, args := r.filterClause(q)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT p.id, p.author_id, COALESCE(u.name, ''), p.content, p.status, p.image_urls,
       p.total_reactions, p.total_comments, p.created_at
FROM posts p
LEFT JOIN users u ON u.id = p.author_id
`+where+`
ORDER BY p.created_at DESC, p.id DESC
LIMIT ? OFFSET ?
`, append(args, q.Size, q.Page*q.Size)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]postapi.Post, 0, q.Size)
	for rows.Next() {
		var p postapi.Post
		var images, createdAt string
		if err := rows.Scan(
			&p.ID,
			&p.AuthorID,
			&p.AuthorName,
			&p.Content,
			&p.Visibility,
			&images,
			&p.Likes,
			&p.Comments,
			&createdAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		if err := json.Unmarshal([]byte(images), &p.ImageURLs); err != nil {
			return nil, 0, fmt.Errorf("decode images for post %s: %w", p.ID, err)
		}
		if len(p.ImageURLs) == 0 {
			p.ImageURLs = nil
		}
		p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, 0, fmt.Errorf("parse post created_at %q: %w", createdAt, err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}
	return posts, total, nil
}

func (r *Repository) filterClause(q ListQuery) (string, []any) {
	conds := make([]string, 0, 3)
	args := make([]any, 0, 4)
	switch q.Scope {
	case ScopeOwn:
		conds = append(conds, "p.author_id = ?")
		args = append(args, q.ViewerID)
	case ScopeFriends:
		conds = append(conds, "p.author_id IN (SELECT friend_id FROM friendships WHERE user_id = ?)", "p.status <= ?")
		args = append(args, q.ViewerID, postapi.VisibilityFriends)
	default:
		conds = append(conds, "p.status = ?")
		args = append(args, postapi.VisibilityPublic)
	}

	if content := strings.TrimSpace(q.Content); content != "" {
		if r.searchMode == SearchModeFTS {
			conds = append(conds, "p.rowid IN (SELECT rowid FROM posts_fts WHERE posts_fts MATCH ?)")
			args = append(args, ftsQuery(content))
		} else {
			conds = append(conds, "p.content LIKE ? ESCAPE '\\'")
			args = append(args, "%"+escapeLike(content)+"%")
		}
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// ftsQuery quotes each term so user input cannot inject FTS operators.
// The last term gets a prefix match to behave like search-as-you-type.
func ftsQuery(raw string) string {
	terms := strings.Fields(raw)
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
		if i == len(terms)-1 {
			terms[i] += "*"
		}
	}
	return strings.Join(terms, " ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *Repository) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
