package feeds

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-care-platform/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/feeds", func(fr chi.Router) {
		fr.Post("/", createOrMatchHandler(svc))
		fr.Get("/", listFeedsHandler(svc))
		fr.Get("/{feedID}", getFeedHandler(svc))
		fr.Post("/{feedID}/mark", markHandler(svc))
		fr.Delete("/{feedID}/mark", unmarkHandler(svc))
	})
}

// nutrientsPayload: proteína..fósforo en %, magnesio/sodio en MILIGRAMOS.
// La conversión a gramos ocurre solo acá, en el borde HTTP.
type nutrientsPayload struct {
	Protein      *float64 `json:"protein"`
	Fat          *float64 `json:"fat"`
	Carbohydrate *float64 `json:"carbohydrate"`
	Calcium      *float64 `json:"calcium"`
	Phosphorus   *float64 `json:"phosphorus"`
	MagnesiumMg  *float64 `json:"magnesium_mg"`
	SodiumMg     *float64 `json:"sodium_mg"`
}

func (p nutrientsPayload) complete() bool {
	return p.Protein != nil && p.Fat != nil && p.Carbohydrate != nil &&
		p.Calcium != nil && p.Phosphorus != nil &&
		p.MagnesiumMg != nil && p.SodiumMg != nil
}

func (p nutrientsPayload) toDomain() Nutrients {
	deref := func(f *float64) float64 {
		if f == nil {
			return 0
		}
		return *f
	}
	return Nutrients{
		ProteinPct:    deref(p.Protein),
		FatPct:        deref(p.Fat),
		CarbPct:       deref(p.Carbohydrate),
		CalciumPct:    deref(p.Calcium),
		PhosphorusPct: deref(p.Phosphorus),
		MagnesiumG:    MilligramsToGrams(deref(p.MagnesiumMg)),
		SodiumG:       MilligramsToGrams(deref(p.SodiumMg)),
	}
}

type createFeedRequest struct {
	Name           string           `json:"name"`
	Brand          string           `json:"brand"`
	Price          float64          `json:"price"`
	Nutrients      nutrientsPayload `json:"nutrients"`
	FrontImage     string           `json:"front_image,omitempty"`
	NutritionImage string           `json:"nutrition_image,omitempty"`
}

type feedResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Brand         string           `json:"brand"`
	Price         float64          `json:"price"`
	Nutrients     nutrientsPayload `json:"nutrients"`
	IsVerified    bool             `json:"is_verified"`
	ReviewCount   int              `json:"review_count"`
	CreatorUserID string           `json:"creator_user_id"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type createFeedResponse struct {
	Feed       feedResponse `json:"feed"`
	IsExisting bool         `json:"is_existing"`
}

func createOrMatchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createFeedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if !req.Nutrients.complete() {
			http.Error(w, "all seven nutrient fields are required", http.StatusBadRequest)
			return
		}

		// Límite defensivo para payloads base64 desmedidos.
		if len(req.FrontImage) > 6<<20 || len(req.NutritionImage) > 6<<20 {
			http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
			return
		}

		f, existing, err := svc.CreateOrMatch(r.Context(), claims.UserID, CreateInput{
			Name:           req.Name,
			Brand:          req.Brand,
			Price:          req.Price,
			Nutrients:      req.Nutrients.toDomain(),
			FrontImage:     req.FrontImage,
			NutritionImage: req.NutritionImage,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		status := http.StatusCreated
		if existing {
			status = http.StatusOK
		}
		writeJSON(w, status, createFeedResponse{
			Feed:       toFeedResponse(f),
			IsExisting: existing,
		})
	}
}

func getFeedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := svc.GetByID(r.Context(), chi.URLParam(r, "feedID"))
		if err != nil {
			http.Error(w, "feed not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toFeedResponse(f))
	}
}

func listFeedsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		kind := ListKind(strings.TrimSpace(r.URL.Query().Get("kind")))
		if kind == "" {
			kind = ListAll
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		if kind == ListMarked && strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context(), kind, claims.UserID, offset, limit)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "unknown kind", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]feedResponse, 0, len(items))
		for _, f := range items {
			out = append(out, toFeedResponse(f))
		}
		writeJSON(w, http.StatusOK, map[string]any{"results": out})
	}
}

func markHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := svc.Mark(r.Context(), claims.UserID, chi.URLParam(r, "feedID")); err != nil {
			http.Error(w, "feed not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func unmarkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := svc.Unmark(r.Context(), claims.UserID, chi.URLParam(r, "feedID")); err != nil {
			http.Error(w, "feed not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toFeedResponse(f Feed) feedResponse {
	n := f.Nutrients
	protein := n.ProteinPct
	fat := n.FatPct
	carb := n.CarbPct
	calcium := n.CalciumPct
	phosphorus := n.PhosphorusPct
	mg := GramsToMilligrams(n.MagnesiumG)
	na := GramsToMilligrams(n.SodiumG)

	return feedResponse{
		ID:    f.ID,
		Name:  f.Name,
		Brand: f.Brand,
		Price: f.Price,
		Nutrients: nutrientsPayload{
			Protein:      &protein,
			Fat:          &fat,
			Carbohydrate: &carb,
			Calcium:      &calcium,
			Phosphorus:   &phosphorus,
			MagnesiumMg:  &mg,
			SodiumMg:     &na,
		},
		IsVerified:    f.IsVerified,
		ReviewCount:   f.ReviewCount,
		CreatorUserID: f.CreatorUserID,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
