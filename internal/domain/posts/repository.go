package posts

import "context"

type Repository interface {
	Create(ctx context.Context, p Post) error
	GetByID(ctx context.Context, id string) (Post, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]Post, error)

	// SetLike/SetSave devuelven true si el estado cambió (para toggles
	// idempotentes) y mantienen los contadores denormalizados.
	SetLike(ctx context.Context, userID, postID string, liked bool) (bool, error)
	IsLiked(ctx context.Context, userID, postID string) (bool, error)
	SetSave(ctx context.Context, userID, postID string, saved bool) (bool, error)

	CreateComment(ctx context.Context, c Comment) error
	ListComments(ctx context.Context, postID string) ([]Comment, error)

	SetFollow(ctx context.Context, f Follow, following bool) error
	ListFollowers(ctx context.Context, userID string) ([]string, error)
	ListFollowing(ctx context.Context, userID string) ([]string, error)
}
