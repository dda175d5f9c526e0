package reviews

import "time"

// Category es el conjunto cerrado de tipos de error reportables.
// Cuando el reporte marca más de una categoría, colapsa a "multiple".
type Category string

const (
	CategoryName      Category = "name"
	CategoryBrand     Category = "brand"
	CategoryPrice     Category = "price"
	CategoryNutrition Category = "nutrition"
	CategoryImage     Category = "image"
	CategoryOther     Category = "other"
	CategoryMultiple  Category = "multiple"
)

// Decision registra, por (usuario, alimento), si ese usuario ya confirmó
// o ya reportó el alimento. Gatea que se le vuelva a pedir revisión.
type Decision struct {
	UserID string
	FeedID string

	Reviewed bool
	Reported bool

	UpdatedAt time.Time
}

// ErrorReport es un reporte de datos erróneos sobre un alimento.
// CorrectedJSON guarda el diff de campos corregidos tal como llegó
// (solo campos cambiados, nunca el registro completo).
type ErrorReport struct {
	ID             string
	FeedID         string
	ReporterUserID string

	Category    Category
	Description string

	CorrectedJSON string

	CreatedAt time.Time
}
