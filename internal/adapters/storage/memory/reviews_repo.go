package memory

import (
	"context"
	"sort"
	"sync"

	"pet-care-platform/internal/domain/reviews"
)

type reviewRepo struct {
	mu        sync.RWMutex
	decisions map[string]reviews.Decision // userID|feedID
	reports   map[string][]reviews.ErrorReport
}

func NewReviewRepo() reviews.Repository {
	return &reviewRepo{
		decisions: make(map[string]reviews.Decision),
		reports:   make(map[string][]reviews.ErrorReport),
	}
}

func decisionKey(userID, feedID string) string {
	return userID + "|" + feedID
}

func (r *reviewRepo) GetDecision(ctx context.Context, userID, feedID string) (reviews.Decision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.decisions[decisionKey(userID, feedID)]
	if !ok {
		return reviews.Decision{}, reviews.ErrNotFound
	}
	return d, nil
}

func (r *reviewRepo) UpsertDecision(ctx context.Context, d reviews.Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.decisions[decisionKey(d.UserID, d.FeedID)] = d
	return nil
}

func (r *reviewRepo) CreateReport(ctx context.Context, rep reviews.ErrorReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reports[rep.FeedID] = append(r.reports[rep.FeedID], rep)
	return nil
}

func (r *reviewRepo) ListReportsByFeed(ctx context.Context, feedID string) ([]reviews.ErrorReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reviews.ErrorReport, len(r.reports[feedID]))
	copy(out, r.reports[feedID])
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
