package ocr

import (
	"context"

	"pet-care-platform/internal/domain/feeds"
)

// Extraction es el resultado de leer una etiqueta nutricional desde una foto.
// Confidence va de 0 a 1; el caller decide si los valores sirven como prefill.
type Extraction struct {
	Nutrients  feeds.Nutrients
	Confidence float64
}

// Extractor lee análisis garantizado desde la imagen de un empaque.
type Extractor interface {
	ExtractNutrients(ctx context.Context, image []byte, mimeType string) (Extraction, error)
}
