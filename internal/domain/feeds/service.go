package feeds

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
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
	Name      string
	Brand     string
	Price     float64
	Nutrients Nutrients

	FrontImage     string // base64, opcional
	NutritionImage string // base64, opcional
}

// CreateOrMatch implementa el endpoint create-or-match del resolver.
// Si ya existe un alimento con mismo (nombre, marca), devuelve el registro
// canónico almacenado con existing=true — NUNCA mezcla los valores enviados
// (posiblemente OCR) con el registro existente. Si no existe, lo crea.
func (s *Service) CreateOrMatch(ctx context.Context, creatorUserID string, in CreateInput) (Feed, bool, error) {
	name := strings.TrimSpace(in.Name)
	brand := strings.TrimSpace(in.Brand)

	if strings.TrimSpace(creatorUserID) == "" {
		return Feed{}, false, ErrInvalidInput
	}
	if name == "" || brand == "" {
		return Feed{}, false, ErrInvalidInput
	}
	if !in.Nutrients.Valid() {
		return Feed{}, false, ErrInvalidInput
	}
	if in.Price < 0 {
		return Feed{}, false, ErrInvalidInput
	}

	existing, err := s.repo.FindByNameBrand(ctx, name, brand)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Feed{}, false, err
	}

	now := s.now()
	f := Feed{
		ID:             uuid.NewString(),
		Name:           name,
		Brand:          brand,
		Price:          in.Price,
		Nutrients:      in.Nutrients,
		IsVerified:     false,
		ReviewCount:    0,
		CreatorUserID:  creatorUserID,
		FrontImage:     in.FrontImage,
		NutritionImage: in.NutritionImage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return Feed{}, false, err
	}
	return f, false, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Feed, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Feed{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, kind ListKind, userID string, offset, limit int) ([]Feed, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	switch kind {
	case ListMarked, ListRecent, ListAll:
	default:
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, kind, userID, offset, limit)
}

func (s *Service) Mark(ctx context.Context, userID, feedID string) error {
	if _, err := s.GetByID(ctx, feedID); err != nil {
		return err
	}
	return s.repo.Mark(ctx, userID, feedID)
}

func (s *Service) Unmark(ctx context.Context, userID, feedID string) error {
	return s.repo.Unmark(ctx, userID, feedID)
}

// IncrementReviewCount suma una confirmación. Monótono: al llegar al umbral
// el alimento queda verificado y deja de contar (estado terminal).
func (s *Service) IncrementReviewCount(ctx context.Context, feedID string) (Feed, error) {
	f, err := s.GetByID(ctx, feedID)
	if err != nil {
		return Feed{}, err
	}
	if f.IsVerified {
		return f, nil
	}

	f.ReviewCount++
	if f.ReviewCount >= VerifyThreshold {
		f.IsVerified = true
	}
	f.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, f); err != nil {
		return Feed{}, err
	}
	return f, nil
}

// Correction es un diff de campos corregidos: nil = no tocar.
// Único camino por el que se mutan nutrientes de un alimento existente.
type Correction struct {
	Name  *string
	Brand *string
	Price *float64

	ProteinPct    *float64
	FatPct        *float64
	CarbPct       *float64
	CalciumPct    *float64
	PhosphorusPct *float64
	MagnesiumG    *float64
	SodiumG       *float64
}

func (c Correction) Empty() bool {
	return c.Name == nil && c.Brand == nil && c.Price == nil &&
		c.ProteinPct == nil && c.FatPct == nil && c.CarbPct == nil &&
		c.CalciumPct == nil && c.PhosphorusPct == nil &&
		c.MagnesiumG == nil && c.SodiumG == nil
}

// ApplyCorrection aplica el diff (solo campos presentes) y persiste.
func (s *Service) ApplyCorrection(ctx context.Context, feedID string, c Correction) (Feed, error) {
	f, err := s.GetByID(ctx, feedID)
	if err != nil {
		return Feed{}, err
	}

	// Los datos de un alimento verificado ya no se mutan por reportes.
	if f.IsVerified {
		return f, nil
	}

	if c.Name != nil {
		if strings.TrimSpace(*c.Name) == "" {
			return Feed{}, ErrInvalidInput
		}
		f.Name = strings.TrimSpace(*c.Name)
	}
	if c.Brand != nil {
		if strings.TrimSpace(*c.Brand) == "" {
			return Feed{}, ErrInvalidInput
		}
		f.Brand = strings.TrimSpace(*c.Brand)
	}
	if c.Price != nil {
		if *c.Price < 0 {
			return Feed{}, ErrInvalidInput
		}
		f.Price = *c.Price
	}

	n := f.Nutrients
	applyNutrient(&n.ProteinPct, c.ProteinPct)
	applyNutrient(&n.FatPct, c.FatPct)
	applyNutrient(&n.CarbPct, c.CarbPct)
	applyNutrient(&n.CalciumPct, c.CalciumPct)
	applyNutrient(&n.PhosphorusPct, c.PhosphorusPct)
	applyNutrient(&n.MagnesiumG, c.MagnesiumG)
	applyNutrient(&n.SodiumG, c.SodiumG)
	if !n.Valid() {
		return Feed{}, ErrInvalidInput
	}
	f.Nutrients = n

	f.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, f); err != nil {
		return Feed{}, err
	}
	return f, nil
}

func applyNutrient(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// NormalizeKey arma la clave de matching (nombre, marca) que usan los repos:
// minúsculas y espacios colapsados.
func NormalizeKey(name, brand string) string {
	return normalize(name) + "|" + normalize(brand)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
