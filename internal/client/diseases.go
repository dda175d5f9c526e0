package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

type CreateArchiveInput struct {
	Title    string   `json:"title"`
	Species  string   `json:"species"`
	Symptoms []string `json:"symptoms,omitempty"`
	Body     string   `json:"body"`
}

func (c *Client) CreateArchive(ctx context.Context, in CreateArchiveInput) (DiseaseArchive, error) {
	var out DiseaseArchive
	err := c.http.DoJSON(ctx, http.MethodPost, "/disease-archives", c.headers(), in, &out)
	return out, err
}

type ArchiveFilter struct {
	Species string
	Query   string
	Offset  int
	Limit   int
}

func (c *Client) ListArchives(ctx context.Context, f ArchiveFilter) ([]DiseaseArchive, error) {
	q := url.Values{}
	if f.Species != "" {
		q.Set("species", f.Species)
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	path := "/disease-archives"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var raw json.RawMessage
	if err := c.http.DoJSON(ctx, http.MethodGet, path, c.headers(), nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[DiseaseArchive](raw)
}

func (c *Client) GetArchive(ctx context.Context, archiveID string) (DiseaseArchive, error) {
	var out DiseaseArchive
	err := c.http.DoJSON(ctx, http.MethodGet, "/disease-archives/"+archiveID, c.headers(), nil, &out)
	return out, err
}
