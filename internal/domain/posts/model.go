package posts

import "time"

// Post es una publicación del feed social.
// LikeCount/SaveCount se mantienen denormalizados; nunca negativos.
type Post struct {
	ID           string
	AuthorUserID string

	Body   string
	Images []string // base64, opacas para el core

	LikeCount    int
	CommentCount int

	CreatedAt time.Time
}

type Comment struct {
	ID           string
	PostID       string
	AuthorUserID string
	Body         string
	CreatedAt    time.Time
}

// Follow es una arista del grafo social.
type Follow struct {
	FollowerUserID string
	FolloweeUserID string
	CreatedAt      time.Time
}
