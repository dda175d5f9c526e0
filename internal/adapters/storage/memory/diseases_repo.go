package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-care-platform/internal/domain/diseases"
)

type diseaseRepo struct {
	mu       sync.RWMutex
	byID     map[string]diseases.Archive
	comments map[string][]diseases.Comment
}

func NewDiseaseRepo() diseases.Repository {
	return &diseaseRepo{
		byID:     make(map[string]diseases.Archive),
		comments: make(map[string][]diseases.Comment),
	}
}

func (r *diseaseRepo) Create(ctx context.Context, a diseases.Archive) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("archive id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("archive already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *diseaseRepo) GetByID(ctx context.Context, id string) (diseases.Archive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return diseases.Archive{}, diseases.ErrNotFound
	}
	return a, nil
}

func (r *diseaseRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return diseases.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.comments, id)
	return nil
}

func (r *diseaseRepo) List(ctx context.Context, f diseases.ListFilter) ([]diseases.Archive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(f.Query)
	all := make([]diseases.Archive, 0, len(r.byID))
	for _, a := range r.byID {
		if f.Species != "" && a.Species != f.Species {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(a.Title), q) {
			continue
		}
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if f.Offset >= len(all) {
		return []diseases.Archive{}, nil
	}
	end := f.Offset + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end], nil
}

func (r *diseaseRepo) CreateComment(ctx context.Context, c diseases.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[c.ArchiveID]
	if !ok {
		return diseases.ErrNotFound
	}
	r.comments[c.ArchiveID] = append(r.comments[c.ArchiveID], c)
	a.CommentCount++
	r.byID[c.ArchiveID] = a
	return nil
}

func (r *diseaseRepo) ListComments(ctx context.Context, archiveID string) ([]diseases.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]diseases.Comment, len(r.comments[archiveID]))
	copy(out, r.comments[archiveID])
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
