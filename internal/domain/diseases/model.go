package diseases

import (
	"time"

	"pet-care-platform/internal/domain/pets"
)

// Archive es una entrada del archivo de enfermedades (foro comunitario).
type Archive struct {
	ID           string
	AuthorUserID string

	Title    string
	Species  pets.Species
	Symptoms []string
	Body     string

	CommentCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID           string
	ArchiveID    string
	AuthorUserID string
	Body         string
	CreatedAt    time.Time
}
