package feeds

import "time"

// VerifyThreshold: cantidad de confirmaciones de la comunidad necesarias
// para que un alimento pase a verificado. Estado terminal.
const VerifyThreshold = 5

// Nutrients agrupa los siete nutrientes de la etiqueta.
// Proteína/grasa/carbohidrato/calcio/fósforo en % sobre 100 g.
// Magnesio y sodio se ALMACENAN en gramos por 100 g; la API los expone
// en miligramos (ver units.go). La conversión debe round-trippear exacta.
type Nutrients struct {
	ProteinPct    float64
	FatPct        float64
	CarbPct       float64
	CalciumPct    float64
	PhosphorusPct float64
	MagnesiumG    float64
	SodiumG       float64
}

// Valid exige los siete valores presentes y no negativos.
func (n Nutrients) Valid() bool {
	for _, v := range []float64{
		n.ProteinPct, n.FatPct, n.CarbPct,
		n.CalciumPct, n.PhosphorusPct,
		n.MagnesiumG, n.SodiumG,
	} {
		if v < 0 {
			return false
		}
	}
	return true
}

// Feed es un alimento del catálogo comunitario.
// Los nutrientes nunca se mutan localmente salvo por el camino explícito
// de "datos corregidos" del error-report, que aplica solo un diff.
type Feed struct {
	ID    string
	Name  string
	Brand string
	Price float64

	Nutrients Nutrients

	IsVerified  bool
	ReviewCount int

	CreatorUserID string

	// Imágenes en base64 (frontal y tabla nutricional). Opacas para el core;
	// el almacenamiento/CDN real es un colaborador externo.
	FrontImage     string
	NutritionImage string

	CreatedAt time.Time
	UpdatedAt time.Time
}
