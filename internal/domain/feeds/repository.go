package feeds

import "context"

// ListKind selecciona la sección de previews.
type ListKind string

const (
	ListMarked ListKind = "marked"
	ListRecent ListKind = "recent"
	ListAll    ListKind = "all"
)

type Repository interface {
	Create(ctx context.Context, f Feed) error
	Update(ctx context.Context, f Feed) error
	GetByID(ctx context.Context, id string) (Feed, error)

	// FindByNameBrand busca por (nombre, marca) normalizados.
	FindByNameBrand(ctx context.Context, name, brand string) (Feed, error)

	// List pagina por offset/limit; para ListMarked filtra por los marks del usuario.
	List(ctx context.Context, kind ListKind, userID string, offset, limit int) ([]Feed, error)

	Mark(ctx context.Context, userID, feedID string) error
	Unmark(ctx context.Context, userID, feedID string) error
	IsMarked(ctx context.Context, userID, feedID string) (bool, error)
}
