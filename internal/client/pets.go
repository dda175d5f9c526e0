package client

import (
	"context"
	"encoding/json"
	"net/http"
)

type CreatePetInput struct {
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Weight    float64 `json:"weight"`
	Height    float64 `json:"height"`
	LifeStage string  `json:"life_stage"`
	BirthDate string  `json:"birth_date,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

type UpdatePetInput struct {
	Name      *string  `json:"name,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	Height    *float64 `json:"height,omitempty"`
	LifeStage *string  `json:"life_stage,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

func (c *Client) CreatePet(ctx context.Context, in CreatePetInput) (Pet, error) {
	var out Pet
	err := c.http.DoJSON(ctx, http.MethodPost, "/pets", c.headers(), in, &out)
	return out, err
}

func (c *Client) GetPet(ctx context.Context, petID string) (Pet, error) {
	var out Pet
	err := c.http.DoJSON(ctx, http.MethodGet, "/pets/"+petID, c.headers(), nil, &out)
	return out, err
}

func (c *Client) ListPets(ctx context.Context) ([]Pet, error) {
	var raw json.RawMessage
	if err := c.http.DoJSON(ctx, http.MethodGet, "/pets", c.headers(), nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[Pet](raw)
}

func (c *Client) UpdatePet(ctx context.Context, petID string, in UpdatePetInput) (Pet, error) {
	var out Pet
	err := c.http.DoJSON(ctx, http.MethodPatch, "/pets/"+petID, c.headers(), in, &out)
	return out, err
}
