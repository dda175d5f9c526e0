package diseases

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-platform/internal/domain/pets"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Title    string
	Species  pets.Species
	Symptoms []string
	Body     string
}

func (s *Service) Create(ctx context.Context, authorUserID string, in CreateInput) (Archive, error) {
	if strings.TrimSpace(authorUserID) == "" {
		return Archive{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return Archive{}, ErrInvalidInput
	}
	if in.Species != "" && !pets.ValidSpecies(in.Species) {
		return Archive{}, ErrInvalidInput
	}

	symptoms := make([]string, 0, len(in.Symptoms))
	for _, sym := range in.Symptoms {
		if t := strings.TrimSpace(sym); t != "" {
			symptoms = append(symptoms, t)
		}
	}

	now := s.now()
	a := Archive{
		ID:           uuid.NewString(),
		AuthorUserID: authorUserID,
		Title:        strings.TrimSpace(in.Title),
		Species:      in.Species,
		Symptoms:     symptoms,
		Body:         strings.TrimSpace(in.Body),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Archive{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Archive, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Archive{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Archive, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Species != "" && !pets.ValidSpecies(f.Species) {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Delete(ctx context.Context, userID, archiveID string) error {
	a, err := s.GetByID(ctx, archiveID)
	if err != nil {
		return err
	}
	if a.AuthorUserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, archiveID)
}

func (s *Service) AddComment(ctx context.Context, userID, archiveID, body string) (Comment, error) {
	if strings.TrimSpace(body) == "" {
		return Comment{}, ErrInvalidInput
	}
	if _, err := s.GetByID(ctx, archiveID); err != nil {
		return Comment{}, err
	}

	c := Comment{
		ID:           uuid.NewString(),
		ArchiveID:    archiveID,
		AuthorUserID: userID,
		Body:         strings.TrimSpace(body),
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return Comment{}, err
	}
	return c, nil
}

func (s *Service) ListComments(ctx context.Context, archiveID string) ([]Comment, error) {
	return s.repo.ListComments(ctx, archiveID)
}
