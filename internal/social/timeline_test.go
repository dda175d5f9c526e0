package social

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"pet-care-platform/internal/client"
)

type fakeAPI struct {
	mu sync.Mutex

	posts       []client.Post
	comments    map[string][]client.Comment
	commentsErr map[string]error

	likeOut client.LikeOutcome
	likeErr error
	saveErr error

	listCalls    int
	commentCalls int
	likeCalls    int

	block chan struct{} // si no es nil, ListPosts espera aquí
}

func (f *fakeAPI) ListPosts(_ context.Context, offset, limit int) ([]client.Post, error) {
	f.mu.Lock()
	f.listCalls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	if offset >= len(f.posts) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.posts) {
		end = len(f.posts)
	}
	return f.posts[offset:end], nil
}

func (f *fakeAPI) ListComments(_ context.Context, postID string) ([]client.Comment, error) {
	f.mu.Lock()
	f.commentCalls++
	f.mu.Unlock()

	if err := f.commentsErr[postID]; err != nil {
		return nil, err
	}
	return f.comments[postID], nil
}

func (f *fakeAPI) ToggleLike(_ context.Context, _ string) (client.LikeOutcome, error) {
	f.mu.Lock()
	f.likeCalls++
	f.mu.Unlock()
	return f.likeOut, f.likeErr
}

func (f *fakeAPI) SavePost(_ context.Context, _ string) error   { return f.saveErr }
func (f *fakeAPI) UnsavePost(_ context.Context, _ string) error { return f.saveErr }

func makePosts(n int, comments int) []client.Post {
	out := make([]client.Post, n)
	for i := range out {
		out[i] = client.Post{ID: fmt.Sprintf("p%d", i), CommentCount: comments}
	}
	return out
}

func TestRefresh_LoadsPostsAndPreviews(t *testing.T) {
	api := &fakeAPI{
		posts: makePosts(3, 1),
		comments: map[string][]client.Comment{
			"p0": {{ID: "c0"}},
			"p1": {{ID: "c1"}, {ID: "c2"}, {ID: "c3"}, {ID: "c4"}},
			"p2": {{ID: "c5"}},
		},
	}
	tl := NewTimeline(api)

	if err := tl.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(tl.Posts()) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(tl.Posts()))
	}
	if got := tl.Previews("p1"); len(got) != previewComments {
		t.Fatalf("previews must truncate to %d, got %d", previewComments, len(got))
	}
	if got := tl.Previews("p0"); len(got) != 1 {
		t.Fatalf("expected 1 preview for p0, got %d", len(got))
	}
}

func TestRefresh_PreviewsAreAllOrNothing(t *testing.T) {
	api := &fakeAPI{
		posts: makePosts(3, 1),
		comments: map[string][]client.Comment{
			"p0": {{ID: "c0"}},
			"p2": {{ID: "c5"}},
		},
		commentsErr: map[string]error{"p1": errors.New("boom")},
	}
	tl := NewTimeline(api)

	if err := tl.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh must not fail for preview errors: %v", err)
	}
	// Cualquier falla descarta TODOS los previews, no solo el fallido.
	for _, id := range []string{"p0", "p1", "p2"} {
		if got := tl.Previews(id); len(got) != 0 {
			t.Fatalf("expected no previews after partial failure, %s has %d", id, len(got))
		}
	}
	if len(tl.Posts()) != 3 {
		t.Fatalf("posts must still load, got %d", len(tl.Posts()))
	}
}

func TestRefresh_ReentrancyGuard(t *testing.T) {
	api := &fakeAPI{posts: makePosts(1, 0), block: make(chan struct{})}
	tl := NewTimeline(api)

	done := make(chan error, 1)
	go func() {
		done <- tl.Refresh(context.Background())
	}()

	// Esperar a que el primer Refresh esté dentro de ListPosts.
	for {
		api.mu.Lock()
		started := api.listCalls > 0
		api.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if err := tl.Refresh(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for concurrent refresh, got %v", err)
	}

	close(api.block)
	if err := <-done; err != nil {
		t.Fatalf("first refresh: %v", err)
	}
}

func TestLoadMore_AppendsNextPage(t *testing.T) {
	api := &fakeAPI{posts: makePosts(25, 0)}
	tl := NewTimeline(api)
	ctx := context.Background()

	if err := tl.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(tl.Posts()) != pageSize {
		t.Fatalf("expected first page of %d, got %d", pageSize, len(tl.Posts()))
	}

	if err := tl.LoadMore(ctx); err != nil {
		t.Fatalf("load more: %v", err)
	}
	if len(tl.Posts()) != 25 {
		t.Fatalf("expected 25 posts, got %d", len(tl.Posts()))
	}

	// Página corta => agotado: más LoadMore no van a la red.
	calls := api.listCalls
	if err := tl.LoadMore(ctx); err != nil {
		t.Fatalf("load more exhausted: %v", err)
	}
	if api.listCalls != calls {
		t.Fatalf("exhausted timeline must not fetch again")
	}
}

func TestToggleLike_OptimisticWithRollback(t *testing.T) {
	api := &fakeAPI{
		posts:   makePosts(1, 0),
		likeErr: errors.New("boom"),
	}
	tl := NewTimeline(api)
	ctx := context.Background()

	if err := tl.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := tl.ToggleLike(ctx, "p0"); err == nil {
		t.Fatalf("expected error from API")
	}
	// Rollback total: ni liked ni contador quedan tocados.
	if tl.Liked("p0") {
		t.Fatalf("like must roll back on failure")
	}
	if tl.Posts()[0].LikeCount != 0 {
		t.Fatalf("like count must roll back, got %d", tl.Posts()[0].LikeCount)
	}

	// Con éxito, el estado adopta la verdad del server.
	api.likeErr = nil
	api.likeOut = client.LikeOutcome{Liked: true, LikeCount: 7}
	if err := tl.ToggleLike(ctx, "p0"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !tl.Liked("p0") || tl.Posts()[0].LikeCount != 7 {
		t.Fatalf("expected server truth: liked=%v count=%d", tl.Liked("p0"), tl.Posts()[0].LikeCount)
	}
}

func TestToggleSave_OptimisticWithRollback(t *testing.T) {
	api := &fakeAPI{posts: makePosts(1, 0), saveErr: errors.New("boom")}
	tl := NewTimeline(api)
	ctx := context.Background()

	if err := tl.ToggleSave(ctx, "p0"); err == nil {
		t.Fatalf("expected error from API")
	}
	if tl.Saved("p0") {
		t.Fatalf("save must roll back on failure")
	}

	api.saveErr = nil
	if err := tl.ToggleSave(ctx, "p0"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !tl.Saved("p0") {
		t.Fatalf("expected saved=true")
	}
}
