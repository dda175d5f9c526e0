// Package calcflow implementa el flujo de la calculadora del lado cliente:
// registro/matching de alimentos, la puerta de revisión comunitaria y el
// wizard de tres pasos que termina en un cálculo.
package calcflow

import (
	"context"
	"errors"

	"pet-care-platform/internal/client"
)

// FeedAPI es el subconjunto del SDK que necesita el resolver.
type FeedAPI interface {
	CreateOrMatchFeed(ctx context.Context, in client.CreateFeedInput) (client.CreateFeedOutcome, error)
	GetFeed(ctx context.Context, feedID string) (client.Feed, error)
}

// FeedResolver registra un alimento nuevo o resuelve al canónico existente.
type FeedResolver struct {
	api FeedAPI
}

func NewFeedResolver(api FeedAPI) *FeedResolver {
	return &FeedResolver{api: api}
}

// Resolve envía el alimento al server. Si ya existía uno con el mismo
// nombre+marca, descarta los valores recién tipeados y re-consulta el
// registro canónico completo; el caller siempre recibe la verdad del server.
func (r *FeedResolver) Resolve(ctx context.Context, in client.CreateFeedInput) (client.Feed, bool, error) {
	if r == nil || r.api == nil {
		return client.Feed{}, false, errors.New("calcflow: resolver not configured")
	}

	out, err := r.api.CreateOrMatchFeed(ctx, in)
	if err != nil {
		return client.Feed{}, false, err
	}

	if !out.IsExisting {
		return out.Feed, false, nil
	}

	canonical, err := r.api.GetFeed(ctx, out.Feed.ID)
	if err != nil {
		// El match ya trae el registro; el re-fetch es solo frescura.
		return out.Feed, true, nil
	}
	return canonical, true, nil
}
