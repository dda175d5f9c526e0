package pets

import "time"

// Species define las especies soportadas por la plataforma.
// @Enum cat, dog
type Species string

const (
	SpeciesCat Species = "cat"
	SpeciesDog Species = "dog"
)

func ValidSpecies(s Species) bool {
	return s == SpeciesCat || s == SpeciesDog
}

// LifeStage define la etapa de vida (afecta el factor MER del cálculo).
// @Enum baby, adult, senior, pregnant, lactating
type LifeStage string

const (
	StageBaby      LifeStage = "baby"
	StageAdult     LifeStage = "adult"
	StageSenior    LifeStage = "senior"
	StagePregnant  LifeStage = "pregnant"
	StageLactating LifeStage = "lactating"
)

func ValidLifeStage(s LifeStage) bool {
	switch s {
	case StageBaby, StageAdult, StageSenior, StagePregnant, StageLactating:
		return true
	default:
		return false
	}
}

// Pet representa el perfil de una mascota registrada.
// Las mascotas "temporales" del wizard nunca llegan a este módulo:
// existen solo del lado cliente y no se persisten.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species

	WeightKg  float64
	HeightCm  float64
	LifeStage LifeStage

	BirthDate *time.Time
	Notes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}
