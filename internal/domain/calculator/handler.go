package calculator

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"pet-care-platform/internal/domain/feeds"
	"pet-care-platform/internal/domain/pets"
	"pet-care-platform/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const maxSubmissionBytes = 20 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/calculations", submitHandler(svc))
}

// Respuesta con el schema que persiste el HistoryStore del cliente.
type resultResponse struct {
	Description          string             `json:"description"`
	DailyMEKcal          float64            `json:"daily_ME_kcal"`
	DailyFeedAmountG     float64            `json:"daily_feed_amount_g"`
	RecommendedNutrients map[string]float64 `json:"recommended_nutrients"`
	ActualIntake         map[string]float64 `json:"actual_intake"`

	// Snapshot del alimento revisado; solo presente cuando la submission
	// persistió nutrientes corregidos.
	Feed *revisedFeed `json:"feed,omitempty"`
}

type revisedFeed struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Brand        string  `json:"brand"`
	Price        float64 `json:"price"`
	Protein      float64 `json:"protein"`
	Fat          float64 `json:"fat"`
	Carbohydrate float64 `json:"carbohydrate"`
	Calcium      float64 `json:"calcium"`
	Phosphorus   float64 `json:"phosphorus"`
	MagnesiumMg  float64 `json:"magnesium_mg"`
	SodiumMg     float64 `json:"sodium_mg"`
	IsVerified   bool    `json:"is_verified"`
	ReviewCount  int     `json:"review_count"`
}

// submitHandler recibe multipart/form-data (spec del front original):
// campos planos + "conditions" duplicado como string JSON y como campos
// repetidos, por compatibilidad.
func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}

		weight, werr := parseFloatField(r, "weight")
		height, herr := parseFloatField(r, "height")
		if werr != nil || herr != nil {
			http.Error(w, "weight and height must be numeric", http.StatusBadRequest)
			return
		}

		nutrients, err := parseNutrients(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		in := Input{
			PetID:      strings.TrimSpace(r.FormValue("pet_id")),
			PetType:    pets.Species(strings.TrimSpace(r.FormValue("pet_type"))),
			WeightKg:   weight,
			HeightCm:   height,
			LifeStage:  pets.LifeStage(strings.TrimSpace(r.FormValue("life_stage"))),
			FeedID:     strings.TrimSpace(r.FormValue("feed_id")),
			Nutrients:  nutrients,
			Conditions: parseConditions(r),
		}

		out, err := svc.Calculate(r.Context(), claims.UserID, in)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "invalid calculation input", http.StatusBadRequest)
			case errors.Is(err, ErrPetNotFound):
				http.Error(w, "pet not found", http.StatusNotFound)
			case errors.Is(err, ErrFeedNotFound):
				http.Error(w, "feed not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toResultResponse(out))
	}
}

func parseFloatField(r *http.Request, name string) (float64, error) {
	v := strings.TrimSpace(r.FormValue(name))
	if v == "" {
		return 0, errors.New(name + " required")
	}
	return strconv.ParseFloat(v, 64)
}

func parseNutrients(r *http.Request) (feeds.Nutrients, error) {
	var n feeds.Nutrients
	fields := []struct {
		name string
		dst  *float64
		mg   bool
	}{
		{"protein", &n.ProteinPct, false},
		{"fat", &n.FatPct, false},
		{"carbohydrate", &n.CarbPct, false},
		{"calcium", &n.CalciumPct, false},
		{"phosphorus", &n.PhosphorusPct, false},
		{"magnesium_mg", &n.MagnesiumG, true},
		{"sodium_mg", &n.SodiumG, true},
	}
	for _, f := range fields {
		v, err := parseFloatField(r, f.name)
		if err != nil {
			return feeds.Nutrients{}, errors.New("nutrient field " + f.name + " required and numeric")
		}
		if f.mg {
			v = feeds.MilligramsToGrams(v)
		}
		*f.dst = v
	}
	return n, nil
}

// parseConditions: primero el campo "conditions" como string JSON;
// si falta o no parsea, los campos repetidos "conditions[]".
func parseConditions(r *http.Request) []string {
	if raw := strings.TrimSpace(r.FormValue("conditions")); raw != "" {
		var out []string
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out
		}
	}
	if r.MultipartForm != nil {
		if vals, ok := r.MultipartForm.Value["conditions[]"]; ok {
			return vals
		}
	}
	return nil
}

func toResultResponse(out Outcome) resultResponse {
	res := out.Result
	resp := resultResponse{
		Description:      res.Description,
		DailyMEKcal:      res.DailyMEKcal,
		DailyFeedAmountG: res.DailyFeedAmountG,
		RecommendedNutrients: map[string]float64{
			"protein_g":      res.Recommended.ProteinG,
			"fat_g":          res.Recommended.FatG,
			"carbohydrate_g": res.Recommended.CarbG,
			"calcium_g":      res.Recommended.CalciumG,
			"phosphorus_g":   res.Recommended.PhosphorusG,
			"magnesium_mg":   res.Recommended.MagnesiumMg,
			"sodium_mg":      res.Recommended.SodiumMg,
		},
		ActualIntake: map[string]float64{
			"protein_g":      res.ActualIntake.ProteinG,
			"fat_g":          res.ActualIntake.FatG,
			"carbohydrate_g": res.ActualIntake.CarbG,
			"calcium_g":      res.ActualIntake.CalciumG,
			"phosphorus_g":   res.ActualIntake.PhosphorusG,
			"magnesium_mg":   res.ActualIntake.MagnesiumMg,
			"sodium_mg":      res.ActualIntake.SodiumMg,
		},
	}

	if f := out.RevisedFeed; f != nil {
		resp.Feed = &revisedFeed{
			ID:           f.ID,
			Name:         f.Name,
			Brand:        f.Brand,
			Price:        f.Price,
			Protein:      f.Nutrients.ProteinPct,
			Fat:          f.Nutrients.FatPct,
			Carbohydrate: f.Nutrients.CarbPct,
			Calcium:      f.Nutrients.CalciumPct,
			Phosphorus:   f.Nutrients.PhosphorusPct,
			MagnesiumMg:  feeds.GramsToMilligrams(f.Nutrients.MagnesiumG),
			SodiumMg:     feeds.GramsToMilligrams(f.Nutrients.SodiumG),
			IsVerified:   f.IsVerified,
			ReviewCount:  f.ReviewCount,
		}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
