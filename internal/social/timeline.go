// Package social mantiene el estado del feed social del lado cliente:
// timeline paginado, previews de comentarios y toggles optimistas.
package social

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"pet-care-platform/internal/client"
)

const (
	pageSize        = 20
	previewComments = 3 // por post; solo para la primera página
	previewWorkers  = 4
)

// API es el subconjunto del SDK que necesita el timeline.
type API interface {
	ListPosts(ctx context.Context, offset, limit int) ([]client.Post, error)
	ListComments(ctx context.Context, postID string) ([]client.Comment, error)
	ToggleLike(ctx context.Context, postID string) (client.LikeOutcome, error)
	SavePost(ctx context.Context, postID string) error
	UnsavePost(ctx context.Context, postID string) error
}

var ErrBusy = errors.New("operation already in progress")

// Timeline es el estado observable del feed. Los métodos son seguros
// para llamar desde varios goroutines; los guards de fetching/loadingMore
// convierten llamadas re-entrantes en ErrBusy en vez de duplicar requests.
type Timeline struct {
	api API

	mu          sync.Mutex
	posts       []client.Post
	previews    map[string][]client.Comment
	liked       map[string]bool
	saved       map[string]bool
	fetching    bool
	loadingMore bool
	exhausted   bool
}

func NewTimeline(api API) *Timeline {
	return &Timeline{
		api:      api,
		previews: map[string][]client.Comment{},
		liked:    map[string]bool{},
		saved:    map[string]bool{},
	}
}

// Posts retorna una copia del timeline actual.
func (t *Timeline) Posts() []client.Post {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]client.Post, len(t.posts))
	copy(out, t.posts)
	return out
}

// Previews retorna los comentarios de preview cargados para un post.
func (t *Timeline) Previews(postID string) []client.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.previews[postID]
}

func (t *Timeline) Liked(postID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.liked[postID]
}

func (t *Timeline) Saved(postID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saved[postID]
}

// Refresh recarga la primera página y sus previews de comentarios.
// Los previews se traen en paralelo y son todo-o-nada: si cualquier
// fetch falla, se descartan todos y el timeline queda sin previews.
func (t *Timeline) Refresh(ctx context.Context) error {
	t.mu.Lock()
	if t.fetching {
		t.mu.Unlock()
		return ErrBusy
	}
	t.fetching = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.fetching = false
		t.mu.Unlock()
	}()

	posts, err := t.api.ListPosts(ctx, 0, pageSize)
	if err != nil {
		return err
	}

	previews := t.fetchPreviews(ctx, posts)

	t.mu.Lock()
	t.posts = posts
	t.previews = previews
	t.exhausted = len(posts) < pageSize
	t.mu.Unlock()
	return nil
}

// LoadMore trae la siguiente página y la agrega al final.
func (t *Timeline) LoadMore(ctx context.Context) error {
	t.mu.Lock()
	if t.loadingMore {
		t.mu.Unlock()
		return ErrBusy
	}
	if t.exhausted {
		t.mu.Unlock()
		return nil
	}
	t.loadingMore = true
	offset := len(t.posts)
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.loadingMore = false
		t.mu.Unlock()
	}()

	more, err := t.api.ListPosts(ctx, offset, pageSize)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.posts = append(t.posts, more...)
	t.exhausted = len(more) < pageSize
	t.mu.Unlock()
	return nil
}

// fetchPreviews trae comentarios para cada post con un pool acotado.
// Cualquier error cancela el grupo y descarta todos los previews.
func (t *Timeline) fetchPreviews(ctx context.Context, posts []client.Post) map[string][]client.Comment {
	if len(posts) == 0 {
		return map[string][]client.Comment{}
	}

	var mu sync.Mutex
	out := make(map[string][]client.Comment, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(previewWorkers)

	for _, p := range posts {
		if p.CommentCount == 0 {
			continue
		}
		p := p
		g.Go(func() error {
			comments, err := t.api.ListComments(gctx, p.ID)
			if err != nil {
				return err
			}
			if len(comments) > previewComments {
				comments = comments[:previewComments]
			}
			mu.Lock()
			out[p.ID] = comments
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return map[string][]client.Comment{}
	}
	return out
}

// ToggleLike aplica el like de forma optimista y lo revierte si la
// llamada falla. Con respuesta del server, el conteo local adopta la
// verdad remota.
func (t *Timeline) ToggleLike(ctx context.Context, postID string) error {
	t.mu.Lock()
	was := t.liked[postID]
	t.liked[postID] = !was
	t.bumpLikeCount(postID, !was)
	t.mu.Unlock()

	out, err := t.api.ToggleLike(ctx, postID)
	if err != nil {
		t.mu.Lock()
		t.liked[postID] = was
		t.bumpLikeCount(postID, was)
		t.mu.Unlock()
		return err
	}

	t.mu.Lock()
	t.liked[postID] = out.Liked
	for i := range t.posts {
		if t.posts[i].ID == postID {
			t.posts[i].LikeCount = out.LikeCount
			break
		}
	}
	t.mu.Unlock()
	return nil
}

// ToggleSave guarda/des-guarda de forma optimista con revert en falla.
func (t *Timeline) ToggleSave(ctx context.Context, postID string) error {
	t.mu.Lock()
	was := t.saved[postID]
	t.saved[postID] = !was
	t.mu.Unlock()

	var err error
	if was {
		err = t.api.UnsavePost(ctx, postID)
	} else {
		err = t.api.SavePost(ctx, postID)
	}
	if err != nil {
		t.mu.Lock()
		t.saved[postID] = was
		t.mu.Unlock()
		return err
	}
	return nil
}

// bumpLikeCount requiere t.mu tomado.
func (t *Timeline) bumpLikeCount(postID string, up bool) {
	for i := range t.posts {
		if t.posts[i].ID != postID {
			continue
		}
		if up {
			t.posts[i].LikeCount++
		} else if t.posts[i].LikeCount > 0 {
			t.posts[i].LikeCount--
		}
		return
	}
}
