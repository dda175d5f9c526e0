package diseases

import (
	"context"

	"pet-care-platform/internal/domain/pets"
)

type ListFilter struct {
	Species pets.Species // vacío = todas
	Query   string       // substring sobre el título
	Offset  int
	Limit   int
}

type Repository interface {
	Create(ctx context.Context, a Archive) error
	GetByID(ctx context.Context, id string) (Archive, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]Archive, error)

	CreateComment(ctx context.Context, c Comment) error
	ListComments(ctx context.Context, archiveID string) ([]Comment, error)
}
