package calcflow

import (
	"context"
	"testing"

	"pet-care-platform/internal/client"
)

type fakeFeedAPI struct {
	createOut  client.CreateFeedOutcome
	createErr  error
	getOut     client.Feed
	getErr     error
	createCalls int
	getCalls    int
}

func (f *fakeFeedAPI) CreateOrMatchFeed(_ context.Context, _ client.CreateFeedInput) (client.CreateFeedOutcome, error) {
	f.createCalls++
	return f.createOut, f.createErr
}

func (f *fakeFeedAPI) GetFeed(_ context.Context, _ string) (client.Feed, error) {
	f.getCalls++
	return f.getOut, f.getErr
}

func TestResolver_NewFeedSkipsRefetch(t *testing.T) {
	api := &fakeFeedAPI{
		createOut: client.CreateFeedOutcome{
			Feed: client.Feed{ID: "f1", Name: "NutriCat"},
		},
	}
	r := NewFeedResolver(api)

	feed, existed, err := r.Resolve(context.Background(), client.CreateFeedInput{Name: "NutriCat", Brand: "NutriCo"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if existed {
		t.Fatalf("new feed reported as existing")
	}
	if feed.ID != "f1" {
		t.Fatalf("wrong feed: %+v", feed)
	}
	if api.getCalls != 0 {
		t.Fatalf("new feed must not trigger refetch, got %d calls", api.getCalls)
	}
}

func TestResolver_ExistingFeedUsesCanonical(t *testing.T) {
	api := &fakeFeedAPI{
		createOut: client.CreateFeedOutcome{
			Feed:       client.Feed{ID: "f1", Name: "stale"},
			IsExisting: true,
		},
		getOut: client.Feed{ID: "f1", Name: "NutriCat Adult", ReviewCount: 3},
	}
	r := NewFeedResolver(api)

	feed, existed, err := r.Resolve(context.Background(), client.CreateFeedInput{Name: "nutricat adult", Brand: "NutriCo"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !existed {
		t.Fatalf("expected existing")
	}
	if feed.Name != "NutriCat Adult" || feed.ReviewCount != 3 {
		t.Fatalf("expected canonical record, got %+v", feed)
	}
	if api.getCalls != 1 {
		t.Fatalf("expected one refetch, got %d", api.getCalls)
	}
}
