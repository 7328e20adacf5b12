package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glabrego/postfeed/internal/postapi"
)

var seedNamespace = uuid.MustParse("6f1c1f5e-3c1a-4d8e-9a57-0b8f2f6f4a10")

var seedUsers = []User{
	{ID: "u1", Name: "Lan Nguyen"},
	{ID: "u2", Name: "Minh Tran"},
	{ID: "u3", Name: "Hoa Pham"},
	{ID: "u4", Name: "Duc Le"},
	{ID: "u5", Name: "Thao Vu"},
}

// u5 is nobody's friend so the community tab has authors outside the friends tab.
var seedFriendships = [][2]string{
	{"u1", "u2"},
	{"u1", "u3"},
	{"u2", "u4"},
}

var seedBodies = []string{
	"Morning run along the river, 8km done #running",
	"Anyone up for coffee this weekend? @Minh",
	"<p>Finished reading <strong>The Pragmatic Programmer</strong>.</p><ul><li>care about your craft</li><li>DRY</li></ul>",
	"New recipe: caramelized fish in clay pot #cooking",
	"Deploy went smoothly today, no rollbacks 🎉",
	"Rainy afternoon, perfect for a long nap",
	"<p>Photo dump from the trip</p><img src=\"https://picsum.photos/seed/trip/640/480\" alt=\"Ha Long Bay\">",
	"Learning Go channels, select statements are neat #golang",
	"Who else is watching the match tonight?",
	"Planted tomatoes on the balcony #garden",
	"Quick reminder: backups are only real once you restore them",
	"Trying a new keyboard layout, typing at half speed for now",
}

// Seed inserts a deterministic demo data set. Re-running it updates the same rows.
func (r *Repository) Seed(ctx context.Context, now time.Time) (int, error) {
	if err := r.SaveUsers(ctx, seedUsers); err != nil {
		return 0, err
	}
	for _, pair := range seedFriendships {
		if err := r.AddFriends(ctx, pair[0], pair[1]); err != nil {
			return 0, err
		}
	}

	posts := SeedPosts(now)
	if err := r.SavePosts(ctx, posts); err != nil {
		return 0, err
	}
	return len(posts), nil
}

// SeedPosts builds the demo posts. Authors and visibility rotate so every
// scope has several pages at the default page size.
func SeedPosts(now time.Time) []postapi.Post {
	const count = 60
	visibilities := []int{postapi.VisibilityPublic, postapi.VisibilityFriends, postapi.VisibilityPublic, postapi.VisibilityPrivate}
	posts := make([]postapi.Post, 0, count)
	for i := 0; i < count; i++ {
		author := seedUsers[i%len(seedUsers)]
		body := seedBodies[i%len(seedBodies)]
		var images []string
		if i%7 == 0 {
			images = []string{fmt.Sprintf("https://picsum.photos/seed/post%d/640/480", i)}
		}
		posts = append(posts, postapi.Post{
			ID:         uuid.NewSHA1(seedNamespace, []byte(fmt.Sprintf("post-%d", i))).String(),
			Content:    body,
			AuthorID:   author.ID,
			AuthorName: author.Name,
			Visibility: visibilities[i%len(visibilities)],
			ImageURLs:  images,
			Likes:      (i * 7) % 23,
			Comments:   (i * 3) % 11,
			CreatedAt:  now.Add(-time.Duration(i) * 37 * time.Minute).UTC(),
		})
	}
	return posts
}
