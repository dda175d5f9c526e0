package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"pet-care-platform/internal/domain/feeds"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	// ErrOwnFeed: el creador no revisa su propio alimento; tiene bypass.
	ErrOwnFeed = errors.New("cannot review own feed")
)

type Service struct {
	repo    Repository
	feedSvc *feeds.Service
	now     func() time.Time
}

func NewService(repo Repository, feedSvc *feeds.Service) *Service {
	return &Service{
		repo:    repo,
		feedSvc: feedSvc,
		now:     time.Now,
	}
}

// Check responde si el usuario ya revisó o reportó el alimento.
// Es el endpoint que consulta el ReviewGate del cliente.
func (s *Service) Check(ctx context.Context, userID, feedID string) (Decision, error) {
	userID = strings.TrimSpace(userID)
	feedID = strings.TrimSpace(feedID)
	if userID == "" || feedID == "" {
		return Decision{}, ErrInvalidInput
	}

	d, err := s.repo.GetDecision(ctx, userID, feedID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Sin decisión previa: ambos flags en false.
			return Decision{UserID: userID, FeedID: feedID}, nil
		}
		return Decision{}, err
	}
	return d, nil
}

// Confirm registra un "confirmo que los datos son correctos".
// Incrementa el review_count del alimento; al umbral, lo verifica.
// Idempotente por usuario: una segunda confirmación no vuelve a contar.
func (s *Service) Confirm(ctx context.Context, userID, feedID string) (feeds.Feed, error) {
	userID = strings.TrimSpace(userID)
	feedID = strings.TrimSpace(feedID)
	if userID == "" || feedID == "" {
		return feeds.Feed{}, ErrInvalidInput
	}

	f, err := s.feedSvc.GetByID(ctx, feedID)
	if err != nil {
		return feeds.Feed{}, ErrNotFound
	}
	if f.CreatorUserID == userID {
		return feeds.Feed{}, ErrOwnFeed
	}

	d, err := s.repo.GetDecision(ctx, userID, feedID)
	if err == nil && d.Reviewed {
		return f, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return feeds.Feed{}, err
	}

	d.UserID = userID
	d.FeedID = feedID
	d.Reviewed = true
	d.UpdatedAt = s.now()
	if err := s.repo.UpsertDecision(ctx, d); err != nil {
		return feeds.Feed{}, err
	}

	return s.feedSvc.IncrementReviewCount(ctx, feedID)
}

type ReportInput struct {
	Categories  []Category
	Description string
	Corrected   feeds.Correction
}

// Report registra un reporte de error con el diff de campos corregidos
// y lo aplica al alimento. Varias categorías colapsan a "multiple".
func (s *Service) Report(ctx context.Context, userID, feedID string, in ReportInput) (feeds.Feed, error) {
	userID = strings.TrimSpace(userID)
	feedID = strings.TrimSpace(feedID)
	if userID == "" || feedID == "" {
		return feeds.Feed{}, ErrInvalidInput
	}

	cat, err := CollapseCategories(in.Categories)
	if err != nil {
		return feeds.Feed{}, err
	}

	f, err := s.feedSvc.GetByID(ctx, feedID)
	if err != nil {
		return feeds.Feed{}, ErrNotFound
	}

	correctedJSON := ""
	if !in.Corrected.Empty() {
		b, err := json.Marshal(in.Corrected)
		if err != nil {
			return feeds.Feed{}, err
		}
		correctedJSON = string(b)
	}

	rep := ErrorReport{
		ID:             uuid.NewString(),
		FeedID:         feedID,
		ReporterUserID: userID,
		Category:       cat,
		Description:    strings.TrimSpace(in.Description),
		CorrectedJSON:  correctedJSON,
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateReport(ctx, rep); err != nil {
		return feeds.Feed{}, err
	}

	d, derr := s.repo.GetDecision(ctx, userID, feedID)
	if derr != nil && !errors.Is(derr, ErrNotFound) {
		return feeds.Feed{}, derr
	}
	d.UserID = userID
	d.FeedID = feedID
	d.Reported = true
	d.UpdatedAt = s.now()
	if err := s.repo.UpsertDecision(ctx, d); err != nil {
		return feeds.Feed{}, err
	}

	if in.Corrected.Empty() {
		return f, nil
	}
	return s.feedSvc.ApplyCorrection(ctx, feedID, in.Corrected)
}

func (s *Service) ListReports(ctx context.Context, feedID string) ([]ErrorReport, error) {
	feedID = strings.TrimSpace(feedID)
	if feedID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListReportsByFeed(ctx, feedID)
}

// CollapseCategories valida contra el set cerrado y colapsa >1 a multiple.
func CollapseCategories(in []Category) (Category, error) {
	allowed := map[Category]struct{}{
		CategoryName:      {},
		CategoryBrand:     {},
		CategoryPrice:     {},
		CategoryNutrition: {},
		CategoryImage:     {},
		CategoryOther:     {},
	}

	seen := map[Category]struct{}{}
	for _, raw := range in {
		c := Category(strings.TrimSpace(string(raw)))
		if c == "" {
			continue
		}
		if _, ok := allowed[c]; !ok {
			return "", ErrInvalidInput
		}
		seen[c] = struct{}{}
	}

	switch len(seen) {
	case 0:
		return "", ErrInvalidInput
	case 1:
		for c := range seen {
			return c, nil
		}
	}
	return CategoryMultiple, nil
}
