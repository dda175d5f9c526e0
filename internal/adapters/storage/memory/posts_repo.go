package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-care-platform/internal/domain/posts"
)

type postRepo struct {
	mu       sync.RWMutex
	byID     map[string]posts.Post
	likes    map[string]map[string]struct{} // postID -> userIDs
	saves    map[string]map[string]struct{}
	comments map[string][]posts.Comment
	follows  map[string]map[string]struct{} // followerID -> followeeIDs
}

func NewPostRepo() posts.Repository {
	return &postRepo{
		byID:     make(map[string]posts.Post),
		likes:    make(map[string]map[string]struct{}),
		saves:    make(map[string]map[string]struct{}),
		comments: make(map[string][]posts.Comment),
		follows:  make(map[string]map[string]struct{}),
	}
}

func (r *postRepo) Create(ctx context.Context, p posts.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("post id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("post already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return posts.Post{}, posts.ErrNotFound
	}
	return p, nil
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return posts.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.likes, id)
	delete(r.saves, id)
	delete(r.comments, id)
	return nil
}

func (r *postRepo) List(ctx context.Context, offset, limit int) ([]posts.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]posts.Post, 0, len(r.byID))
	for _, p := range r.byID {
		all = append(all, p)
	}
	// Feed: más nuevos primero.
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return []posts.Post{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *postRepo) SetLike(ctx context.Context, userID, postID string, liked bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[postID]
	if !ok {
		return false, posts.ErrNotFound
	}
	if r.likes[postID] == nil {
		r.likes[postID] = make(map[string]struct{})
	}

	_, has := r.likes[postID][userID]
	if liked == has {
		return false, nil
	}

	if liked {
		r.likes[postID][userID] = struct{}{}
		p.LikeCount++
	} else {
		delete(r.likes[postID], userID)
		if p.LikeCount > 0 {
			p.LikeCount--
		}
	}
	r.byID[postID] = p
	return true, nil
}

func (r *postRepo) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.byID[postID]; !ok {
		return false, posts.ErrNotFound
	}
	_, has := r.likes[postID][userID]
	return has, nil
}

func (r *postRepo) SetSave(ctx context.Context, userID, postID string, saved bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[postID]; !ok {
		return false, posts.ErrNotFound
	}
	if r.saves[postID] == nil {
		r.saves[postID] = make(map[string]struct{})
	}

	_, has := r.saves[postID][userID]
	if saved == has {
		return false, nil
	}
	if saved {
		r.saves[postID][userID] = struct{}{}
	} else {
		delete(r.saves[postID], userID)
	}
	return true, nil
}

func (r *postRepo) CreateComment(ctx context.Context, c posts.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[c.PostID]
	if !ok {
		return posts.ErrNotFound
	}
	r.comments[c.PostID] = append(r.comments[c.PostID], c)
	p.CommentCount++
	r.byID[c.PostID] = p
	return nil
}

func (r *postRepo) ListComments(ctx context.Context, postID string) ([]posts.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]posts.Comment, len(r.comments[postID]))
	copy(out, r.comments[postID])
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *postRepo) SetFollow(ctx context.Context, f posts.Follow, following bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.follows[f.FollowerUserID] == nil {
		r.follows[f.FollowerUserID] = make(map[string]struct{})
	}
	if following {
		r.follows[f.FollowerUserID][f.FolloweeUserID] = struct{}{}
	} else {
		delete(r.follows[f.FollowerUserID], f.FolloweeUserID)
	}
	return nil
}

func (r *postRepo) ListFollowers(ctx context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for follower, set := range r.follows {
		if _, ok := set[userID]; ok {
			out = append(out, follower)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *postRepo) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.follows[userID]))
	for followee := range r.follows[userID] {
		out = append(out, followee)
	}
	sort.Strings(out)
	return out, nil
}
