package social

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"pet-care-platform/internal/client"
)

// FeedsAPI es el subconjunto del SDK que necesitan las secciones.
type FeedsAPI interface {
	ListFeeds(ctx context.Context, kind string) ([]client.Feed, error)
}

// FeedSections es el preview de alimentos de la pantalla de inicio:
// favoritos, recientes y catálogo completo. Las tres listas se traen en
// paralelo y son todo-o-nada: si cualquier fetch falla, las tres quedan
// vacías.
type FeedSections struct {
	api FeedsAPI

	mu       sync.Mutex
	marked   []client.Feed
	recent   []client.Feed
	all      []client.Feed
	fetching bool
}

func NewFeedSections(api FeedsAPI) *FeedSections {
	return &FeedSections{api: api}
}

func (s *FeedSections) Marked() []client.Feed { return s.section(&s.marked) }
func (s *FeedSections) Recent() []client.Feed { return s.section(&s.recent) }
func (s *FeedSections) All() []client.Feed    { return s.section(&s.all) }

func (s *FeedSections) section(src *[]client.Feed) []client.Feed {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.Feed, len(*src))
	copy(out, *src)
	return out
}

// Refresh recarga las tres secciones en paralelo. Una llamada re-entrante
// retorna ErrBusy en vez de duplicar requests.
func (s *FeedSections) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.fetching {
		s.mu.Unlock()
		return ErrBusy
	}
	s.fetching = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.fetching = false
		s.mu.Unlock()
	}()

	var marked, recent, all []client.Feed

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		marked, err = s.api.ListFeeds(gctx, "marked")
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.api.ListFeeds(gctx, "recent")
		return err
	})
	g.Go(func() (err error) {
		all, err = s.api.ListFeeds(gctx, "all")
		return err
	})

	if err := g.Wait(); err != nil {
		s.mu.Lock()
		s.marked, s.recent, s.all = nil, nil, nil
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.marked, s.recent, s.all = marked, recent, all
	s.mu.Unlock()
	return nil
}
