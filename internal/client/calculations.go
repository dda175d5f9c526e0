package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
)

// CalculationInput es lo que la calculadora junta antes de enviar.
// PetID vacío = mascota temporal (no persistida): el campo pet_id
// no se envía en absoluto.
type CalculationInput struct {
	PetID      string
	PetType    string
	Weight     float64
	Height     float64
	LifeStage  string
	FeedID     string
	Nutrients  Nutrients
	Conditions []string

	// Foto opcional del empaque, bytes crudos.
	Image     []byte
	ImageName string
}

// SubmitCalculation envía el cálculo como multipart/form-data.
// Las condiciones van duplicadas: como string JSON en "conditions" y
// como campos repetidos "conditions[]"; el server acepta cualquiera.
func (c *Client) SubmitCalculation(ctx context.Context, in CalculationInput) (CalculationResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"pet_type":     in.PetType,
		"weight":       formatFloat(in.Weight),
		"height":       formatFloat(in.Height),
		"life_stage":   in.LifeStage,
		"feed_id":      in.FeedID,
		"protein":      formatFloat(in.Nutrients.Protein),
		"fat":          formatFloat(in.Nutrients.Fat),
		"carbohydrate": formatFloat(in.Nutrients.Carbohydrate),
		"calcium":      formatFloat(in.Nutrients.Calcium),
		"phosphorus":   formatFloat(in.Nutrients.Phosphorus),
		"magnesium_mg": formatFloat(in.Nutrients.MagnesiumMg),
		"sodium_mg":    formatFloat(in.Nutrients.SodiumMg),
	}
	if in.PetID != "" {
		fields["pet_id"] = in.PetID
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return CalculationResult{}, fmt.Errorf("client: write field %s: %w", k, err)
		}
	}

	if len(in.Conditions) > 0 {
		b, err := json.Marshal(in.Conditions)
		if err != nil {
			return CalculationResult{}, fmt.Errorf("client: marshal conditions: %w", err)
		}
		if err := mw.WriteField("conditions", string(b)); err != nil {
			return CalculationResult{}, fmt.Errorf("client: write conditions: %w", err)
		}
		for _, cond := range in.Conditions {
			if err := mw.WriteField("conditions[]", cond); err != nil {
				return CalculationResult{}, fmt.Errorf("client: write conditions[]: %w", err)
			}
		}
	}

	if len(in.Image) > 0 {
		name := in.ImageName
		if name == "" {
			name = "label.jpg"
		}
		fw, err := mw.CreateFormFile("image", name)
		if err != nil {
			return CalculationResult{}, fmt.Errorf("client: create image part: %w", err)
		}
		if _, err := fw.Write(in.Image); err != nil {
			return CalculationResult{}, fmt.Errorf("client: write image part: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return CalculationResult{}, fmt.Errorf("client: close multipart: %w", err)
	}

	var wire struct {
		Description          string             `json:"description"`
		DailyMEKcal          float64            `json:"daily_ME_kcal"`
		DailyFeedAmountG     float64            `json:"daily_feed_amount_g"`
		RecommendedNutrients map[string]float64 `json:"recommended_nutrients"`
		ActualIntake         map[string]float64 `json:"actual_intake"`
		Feed                 *struct {
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
		} `json:"feed"`
	}

	err := c.http.DoMultipart(ctx, http.MethodPost, "/calculations",
		c.headers(), mw.FormDataContentType(), &buf, &wire)
	if err != nil {
		return CalculationResult{}, err
	}

	res := CalculationResult{
		Description:          wire.Description,
		DailyMEKcal:          wire.DailyMEKcal,
		DailyFeedAmountG:     wire.DailyFeedAmountG,
		RecommendedNutrients: wire.RecommendedNutrients,
		ActualIntake:         wire.ActualIntake,
	}

	// El snapshot revisado viene plano; se normaliza al Feed del SDK.
	if wire.Feed != nil {
		res.Feed = &Feed{
			ID:          wire.Feed.ID,
			Name:        wire.Feed.Name,
			Brand:       wire.Feed.Brand,
			Price:       wire.Feed.Price,
			IsVerified:  wire.Feed.IsVerified,
			ReviewCount: wire.Feed.ReviewCount,
			Nutrients: Nutrients{
				Protein:      wire.Feed.Protein,
				Fat:          wire.Feed.Fat,
				Carbohydrate: wire.Feed.Carbohydrate,
				Calcium:      wire.Feed.Calcium,
				Phosphorus:   wire.Feed.Phosphorus,
				MagnesiumMg:  wire.Feed.MagnesiumMg,
				SodiumMg:     wire.Feed.SodiumMg,
			},
		}
	}

	return res, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
