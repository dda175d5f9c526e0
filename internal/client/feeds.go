package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
)

type CreateFeedInput struct {
	Name      string
	Brand     string
	Price     float64
	Nutrients Nutrients

	// Imágenes opcionales en bytes crudos; el SDK las codifica base64.
	FrontImage     []byte
	NutritionImage []byte
}

// CreateOrMatchFeed registra un alimento, o retorna el canónico si ya
// existía uno con el mismo nombre+marca (IsExisting=true). Los valores
// enviados no pisan el registro existente.
func (c *Client) CreateOrMatchFeed(ctx context.Context, in CreateFeedInput) (CreateFeedOutcome, error) {
	body := struct {
		Name           string    `json:"name"`
		Brand          string    `json:"brand"`
		Price          float64   `json:"price"`
		Nutrients      Nutrients `json:"nutrients"`
		FrontImage     string    `json:"front_image,omitempty"`
		NutritionImage string    `json:"nutrition_image,omitempty"`
	}{
		Name:      in.Name,
		Brand:     in.Brand,
		Price:     in.Price,
		Nutrients: in.Nutrients,
	}
	if len(in.FrontImage) > 0 {
		body.FrontImage = base64.StdEncoding.EncodeToString(in.FrontImage)
	}
	if len(in.NutritionImage) > 0 {
		body.NutritionImage = base64.StdEncoding.EncodeToString(in.NutritionImage)
	}

	var out struct {
		Feed       Feed `json:"feed"`
		IsExisting bool `json:"is_existing"`
	}
	if err := c.http.DoJSON(ctx, http.MethodPost, "/feeds", c.headers(), body, &out); err != nil {
		return CreateFeedOutcome{}, err
	}
	return CreateFeedOutcome{Feed: out.Feed, IsExisting: out.IsExisting}, nil
}

func (c *Client) GetFeed(ctx context.Context, feedID string) (Feed, error) {
	var out Feed
	err := c.http.DoJSON(ctx, http.MethodGet, "/feeds/"+feedID, c.headers(), nil, &out)
	return out, err
}

// ListFeeds acepta kind: "marked", "recent" o "all" ("" = all).
func (c *Client) ListFeeds(ctx context.Context, kind string) ([]Feed, error) {
	path := "/feeds"
	if kind != "" && kind != "all" {
		path += "?kind=" + kind
	}
	var raw json.RawMessage
	if err := c.http.DoJSON(ctx, http.MethodGet, path, c.headers(), nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[Feed](raw)
}

func (c *Client) MarkFeed(ctx context.Context, feedID string) error {
	return c.http.DoJSON(ctx, http.MethodPost, "/feeds/"+feedID+"/mark", c.headers(), nil, nil)
}

func (c *Client) UnmarkFeed(ctx context.Context, feedID string) error {
	return c.http.DoJSON(ctx, http.MethodDelete, "/feeds/"+feedID+"/mark", c.headers(), nil, nil)
}
