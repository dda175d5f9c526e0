package social

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-care-platform/internal/client"
)

type fakeFeedsAPI struct {
	mu sync.Mutex

	byKind map[string][]client.Feed
	errFor map[string]error
	calls  []string
	block  chan struct{} // si no es nil, ListFeeds espera aquí
}

func (f *fakeFeedsAPI) ListFeeds(_ context.Context, kind string) ([]client.Feed, error) {
	f.mu.Lock()
	f.calls = append(f.calls, kind)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err := f.errFor[kind]; err != nil {
		return nil, err
	}
	return f.byKind[kind], nil
}

func (f *fakeFeedsAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestFeedSections_RefreshLoadsThreeSections(t *testing.T) {
	api := &fakeFeedsAPI{byKind: map[string][]client.Feed{
		"marked": {{ID: "f1", Name: "NutriCat"}},
		"recent": {{ID: "f2"}, {ID: "f3"}},
		"all":    {{ID: "f1"}, {ID: "f2"}, {ID: "f3"}},
	}}
	s := NewFeedSections(api)

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(s.Marked()) != 1 || len(s.Recent()) != 2 || len(s.All()) != 3 {
		t.Fatalf("unexpected sections: marked=%d recent=%d all=%d",
			len(s.Marked()), len(s.Recent()), len(s.All()))
	}
	if got := api.callCount(); got != 3 {
		t.Fatalf("expected exactly 3 fetches, got %d", got)
	}
}

func TestFeedSections_AnyFailureEmptiesAll(t *testing.T) {
	api := &fakeFeedsAPI{
		byKind: map[string][]client.Feed{
			"marked": {{ID: "f1"}},
			"all":    {{ID: "f1"}, {ID: "f2"}},
		},
		errFor: map[string]error{"recent": errors.New("boom")},
	}
	s := NewFeedSections(api)

	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if len(s.Marked()) != 0 || len(s.Recent()) != 0 || len(s.All()) != 0 {
		t.Fatalf("failure must empty every section: marked=%d recent=%d all=%d",
			len(s.Marked()), len(s.Recent()), len(s.All()))
	}
}

func TestFeedSections_RefreshReentrancyGuard(t *testing.T) {
	api := &fakeFeedsAPI{
		byKind: map[string][]client.Feed{"marked": {}, "recent": {}, "all": {}},
		block:  make(chan struct{}),
	}
	s := NewFeedSections(api)

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background()) }()

	// Espera a que el primer refresh esté en vuelo.
	for api.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	if err := s.Refresh(context.Background()); err != ErrBusy {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(api.block)
	if err := <-done; err != nil {
		t.Fatalf("first refresh: %v", err)
	}
}
