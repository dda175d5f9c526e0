package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-care-platform/internal/domain/feeds"
)

type feedRepo struct {
	mu    sync.RWMutex
	byID  map[string]feeds.Feed
	byKey map[string]string // NormalizeKey(name, brand) -> feed id
	marks map[string]map[string]struct{}
}

func NewFeedRepo() feeds.Repository {
	return &feedRepo{
		byID:  make(map[string]feeds.Feed),
		byKey: make(map[string]string),
		marks: make(map[string]map[string]struct{}),
	}
}

func (r *feedRepo) Create(ctx context.Context, f feeds.Feed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(f.ID) == "" {
		return errors.New("feed id required")
	}
	if _, exists := r.byID[f.ID]; exists {
		return errors.New("feed already exists")
	}

	key := feeds.NormalizeKey(f.Name, f.Brand)
	if _, exists := r.byKey[key]; exists {
		return errors.New("feed name/brand already exists")
	}

	r.byID[f.ID] = f
	r.byKey[key] = f.ID
	return nil
}

func (r *feedRepo) Update(ctx context.Context, f feeds.Feed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.byID[f.ID]
	if !exists {
		return feeds.ErrNotFound
	}

	// Si cambió nombre/marca (corrección), reindexar la clave de matching.
	oldKey := feeds.NormalizeKey(prev.Name, prev.Brand)
	newKey := feeds.NormalizeKey(f.Name, f.Brand)
	if oldKey != newKey {
		delete(r.byKey, oldKey)
		r.byKey[newKey] = f.ID
	}

	r.byID[f.ID] = f
	return nil
}

func (r *feedRepo) GetByID(ctx context.Context, id string) (feeds.Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return feeds.Feed{}, feeds.ErrNotFound
	}
	return f, nil
}

func (r *feedRepo) FindByNameBrand(ctx context.Context, name, brand string) (feeds.Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byKey[feeds.NormalizeKey(name, brand)]
	if !ok {
		return feeds.Feed{}, feeds.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *feedRepo) List(ctx context.Context, kind feeds.ListKind, userID string, offset, limit int) ([]feeds.Feed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]feeds.Feed, 0, len(r.byID))
	for _, f := range r.byID {
		if kind == feeds.ListMarked {
			if _, ok := r.marks[userID][f.ID]; !ok {
				continue
			}
		}
		all = append(all, f)
	}

	// recent y marked: más nuevos primero; all: orden alfabético.
	switch kind {
	case feeds.ListAll:
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	default:
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	}

	if offset >= len(all) {
		return []feeds.Feed{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *feedRepo) Mark(ctx context.Context, userID, feedID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[feedID]; !ok {
		return feeds.ErrNotFound
	}
	if r.marks[userID] == nil {
		r.marks[userID] = make(map[string]struct{})
	}
	r.marks[userID][feedID] = struct{}{}
	return nil
}

func (r *feedRepo) Unmark(ctx context.Context, userID, feedID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.marks[userID], feedID)
	return nil
}

func (r *feedRepo) IsMarked(ctx context.Context, userID, feedID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.marks[userID][feedID]
	return ok, nil
}
