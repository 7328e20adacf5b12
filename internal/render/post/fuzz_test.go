package post

import (
	"testing"

	"github.com/glabrego/postfeed/internal/postapi"
)

func FuzzLines(f *testing.F) {
	seeds := []string{
		"",
		"plain text",
		"<p>Hello world</p>",
		"<ul><li>one<ol><li>nested</li></ol></li></ul>",
		"<blockquote><p>Quote</p></blockquote>",
		"<<<<<<<<",
		"\x00\x01\x02<script>alert(1)</script>",
		"@mention #tag 日本語",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		if len(raw) > 10_000 {
			raw = raw[:10_000]
		}
		p := postapi.Post{Content: raw}
		for _, width := range []int{0, 1, 20, 72} {
			_ = Lines(p, width)
			_ = Excerpt(p, width)
		}
		_ = Text(p)
		_ = ImageURLs(p)
	})
}
