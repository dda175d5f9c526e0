package reviews

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pet-care-platform/internal/domain/feeds"
	"pet-care-platform/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/feeds/{feedID}/review-check", checkHandler(svc))
	r.Post("/feeds/{feedID}/reviews", confirmHandler(svc))
	r.Post("/feeds/{feedID}/error-reports", reportHandler(svc))
}

type checkResponse struct {
	Reviewed bool `json:"reviewed"`
	Reported bool `json:"reported"`
}

func checkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		d, err := svc.Check(r.Context(), claims.UserID, chi.URLParam(r, "feedID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, checkResponse{Reviewed: d.Reviewed, Reported: d.Reported})
	}
}

type confirmResponse struct {
	ReviewCount int  `json:"review_count"`
	IsVerified  bool `json:"is_verified"`
}

func confirmHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := svc.Confirm(r.Context(), claims.UserID, chi.URLParam(r, "feedID"))
		if err != nil {
			switch {
			case errors.Is(err, ErrOwnFeed):
				http.Error(w, err.Error(), http.StatusForbidden)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "feed not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, confirmResponse{
			ReviewCount: f.ReviewCount,
			IsVerified:  f.IsVerified,
		})
	}
}

// reportRequest: corrected trae SOLO los campos cambiados.
// Magnesio/sodio corregidos llegan en miligramos, como toda la API.
type reportRequest struct {
	Categories  []string `json:"categories"`
	Description string   `json:"description"`
	Corrected   struct {
		Name         *string  `json:"name"`
		Brand        *string  `json:"brand"`
		Price        *float64 `json:"price"`
		Protein      *float64 `json:"protein"`
		Fat          *float64 `json:"fat"`
		Carbohydrate *float64 `json:"carbohydrate"`
		Calcium      *float64 `json:"calcium"`
		Phosphorus   *float64 `json:"phosphorus"`
		MagnesiumMg  *float64 `json:"magnesium_mg"`
		SodiumMg     *float64 `json:"sodium_mg"`
	} `json:"corrected"`
}

func reportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req reportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		cats := make([]Category, 0, len(req.Categories))
		for _, c := range req.Categories {
			cats = append(cats, Category(c))
		}

		corr := feeds.Correction{
			Name:          req.Corrected.Name,
			Brand:         req.Corrected.Brand,
			Price:         req.Corrected.Price,
			ProteinPct:    req.Corrected.Protein,
			FatPct:        req.Corrected.Fat,
			CarbPct:       req.Corrected.Carbohydrate,
			CalciumPct:    req.Corrected.Calcium,
			PhosphorusPct: req.Corrected.Phosphorus,
		}
		if req.Corrected.MagnesiumMg != nil {
			g := feeds.MilligramsToGrams(*req.Corrected.MagnesiumMg)
			corr.MagnesiumG = &g
		}
		if req.Corrected.SodiumMg != nil {
			g := feeds.MilligramsToGrams(*req.Corrected.SodiumMg)
			corr.SodiumG = &g
		}

		f, err := svc.Report(r.Context(), claims.UserID, chi.URLParam(r, "feedID"), ReportInput{
			Categories:  cats,
			Description: req.Description,
			Corrected:   corr,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput), errors.Is(err, feeds.ErrInvalidInput):
				http.Error(w, "invalid report", http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "feed not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"review_count": f.ReviewCount,
			"is_verified":  f.IsVerified,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
