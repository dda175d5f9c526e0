package posts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Body   string
	Images []string
}

func (s *Service) Create(ctx context.Context, authorUserID string, in CreateInput) (Post, error) {
	if strings.TrimSpace(authorUserID) == "" {
		return Post{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Body) == "" && len(in.Images) == 0 {
		return Post{}, ErrInvalidInput
	}

	p := Post{
		ID:           uuid.NewString(),
		AuthorUserID: authorUserID,
		Body:         strings.TrimSpace(in.Body),
		Images:       in.Images,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Post{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Post{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, offset, limit)
}

// Delete: solo el autor.
func (s *Service) Delete(ctx context.Context, userID, postID string) error {
	p, err := s.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorUserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, postID)
}

// ToggleLike invierte el estado de like del usuario sobre el post y
// devuelve (liked, likeCount) resultantes. Idempotente por estado.
func (s *Service) ToggleLike(ctx context.Context, userID, postID string) (bool, int, error) {
	liked, err := s.repo.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, 0, err
	}
	if _, err := s.repo.SetLike(ctx, userID, postID, !liked); err != nil {
		return false, 0, err
	}
	p, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return false, 0, err
	}
	return !liked, p.LikeCount, nil
}

func (s *Service) SetSaved(ctx context.Context, userID, postID string, saved bool) error {
	if _, err := s.GetByID(ctx, postID); err != nil {
		return err
	}
	_, err := s.repo.SetSave(ctx, userID, postID, saved)
	return err
}

func (s *Service) AddComment(ctx context.Context, userID, postID, body string) (Comment, error) {
	if strings.TrimSpace(body) == "" {
		return Comment{}, ErrInvalidInput
	}
	if _, err := s.GetByID(ctx, postID); err != nil {
		return Comment{}, err
	}

	c := Comment{
		ID:           uuid.NewString(),
		PostID:       postID,
		AuthorUserID: userID,
		Body:         strings.TrimSpace(body),
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return Comment{}, err
	}
	return c, nil
}

func (s *Service) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	return s.repo.ListComments(ctx, postID)
}

func (s *Service) Follow(ctx context.Context, followerID, followeeID string) error {
	followerID = strings.TrimSpace(followerID)
	followeeID = strings.TrimSpace(followeeID)
	if followerID == "" || followeeID == "" || followerID == followeeID {
		return ErrInvalidInput
	}
	return s.repo.SetFollow(ctx, Follow{
		FollowerUserID: followerID,
		FolloweeUserID: followeeID,
		CreatedAt:      s.now(),
	}, true)
}

func (s *Service) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return s.repo.SetFollow(ctx, Follow{
		FollowerUserID: followerID,
		FolloweeUserID: followeeID,
	}, false)
}

func (s *Service) ListFollowers(ctx context.Context, userID string) ([]string, error) {
	return s.repo.ListFollowers(ctx, userID)
}

func (s *Service) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	return s.repo.ListFollowing(ctx, userID)
}
