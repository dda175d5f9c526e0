package visionsvc

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-care-platform/internal/domain/feeds"
	"pet-care-platform/internal/platform/httpclient"
	"pet-care-platform/internal/ports/ocr"
)

var (
	ErrNotConfigured = errors.New("vision client not configured")
	ErrUpstream      = errors.New("vision upstream error")
)

// Config del servicio externo de OCR nutricional.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client implementa ocr.Extractor contra el servicio de visión.
type Client struct {
	apiKey string
	http   *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		apiKey: strings.TrimSpace(cfg.APIKey),
		http:   hc,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

func (c *Client) ExtractNutrients(ctx context.Context, image []byte, mimeType string) (ocr.Extraction, error) {
	if !c.IsConfigured() {
		return ocr.Extraction{}, ErrNotConfigured
	}
	if len(image) == 0 {
		return ocr.Extraction{}, errors.New("empty image")
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["X-Api-Key"] = c.apiKey
	}

	in := map[string]string{
		"image":     base64.StdEncoding.EncodeToString(image),
		"mime_type": strings.TrimSpace(mimeType),
	}

	// El servicio retorna los nutrientes en las mismas unidades del label:
	// porcentajes para macro/minerales, mg para magnesio y sodio.
	var out struct {
		Confidence float64  `json:"confidence"`
		Protein    *float64 `json:"protein"`
		Fat        *float64 `json:"fat"`
		Carb       *float64 `json:"carbohydrate"`
		Calcium    *float64 `json:"calcium"`
		Phosphorus *float64 `json:"phosphorus"`
		MgMg       *float64 `json:"magnesium_mg"`
		NaMg       *float64 `json:"sodium_mg"`
	}

	if err := c.http.DoJSON(ctx, http.MethodPost, "/v1/labels/extract", headers, in, &out); err != nil {
		return ocr.Extraction{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	deref := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}

	n := feeds.Nutrients{
		ProteinPct:    deref(out.Protein),
		FatPct:        deref(out.Fat),
		CarbPct:       deref(out.Carb),
		CalciumPct:    deref(out.Calcium),
		PhosphorusPct: deref(out.Phosphorus),
		MagnesiumG:    feeds.MilligramsToGrams(deref(out.MgMg)),
		SodiumG:       feeds.MilligramsToGrams(deref(out.NaMg)),
	}

	return ocr.Extraction{
		Nutrients:  n,
		Confidence: out.Confidence,
	}, nil
}
