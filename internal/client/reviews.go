package client

import (
	"context"
	"net/http"
)

// CheckReview consulta si el usuario ya revisó o reportó este alimento.
func (c *Client) CheckReview(ctx context.Context, feedID string) (ReviewCheck, error) {
	var out ReviewCheck
	err := c.http.DoJSON(ctx, http.MethodGet, "/feeds/"+feedID+"/review-check", c.headers(), nil, &out)
	return out, err
}

// ConfirmReview registra una confirmación "los datos se ven bien".
func (c *Client) ConfirmReview(ctx context.Context, feedID string) (ReviewOutcome, error) {
	var out ReviewOutcome
	err := c.http.DoJSON(ctx, http.MethodPost, "/feeds/"+feedID+"/reviews", c.headers(), nil, &out)
	return out, err
}

// CorrectedValues son los valores corregidos opcionales de un reporte;
// nil = sin corrección para ese campo.
type CorrectedValues struct {
	Name         *string  `json:"name,omitempty"`
	Brand        *string  `json:"brand,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Protein      *float64 `json:"protein,omitempty"`
	Fat          *float64 `json:"fat,omitempty"`
	Carbohydrate *float64 `json:"carbohydrate,omitempty"`
	Calcium      *float64 `json:"calcium,omitempty"`
	Phosphorus   *float64 `json:"phosphorus,omitempty"`
	MagnesiumMg  *float64 `json:"magnesium_mg,omitempty"`
	SodiumMg     *float64 `json:"sodium_mg,omitempty"`
}

type ErrorReportInput struct {
	Categories  []string        `json:"categories"`
	Description string          `json:"description,omitempty"`
	Corrected   CorrectedValues `json:"corrected"`
}

// ReportError envía un reporte de datos incorrectos sobre el alimento.
func (c *Client) ReportError(ctx context.Context, feedID string, in ErrorReportInput) (ReviewOutcome, error) {
	var out ReviewOutcome
	err := c.http.DoJSON(ctx, http.MethodPost, "/feeds/"+feedID+"/error-reports", c.headers(), in, &out)
	return out, err
}
