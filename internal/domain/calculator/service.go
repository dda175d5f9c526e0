package calculator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"pet-care-platform/internal/domain/feeds"
	"pet-care-platform/internal/domain/pets"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPetNotFound  = errors.New("pet not found")
	ErrFeedNotFound = errors.New("feed not found")
)

type Service struct {
	petSvc  *pets.Service
	feedSvc *feeds.Service
}

func NewService(petSvc *pets.Service, feedSvc *feeds.Service) *Service {
	return &Service{
		petSvc:  petSvc,
		feedSvc: feedSvc,
	}
}

// Input es una submission completa del wizard.
// PetID vacío = mascota temporal: solo biometría, nada que persistir.
type Input struct {
	PetID     string
	PetType   pets.Species
	WeightKg  float64
	HeightCm  float64
	LifeStage pets.LifeStage

	FeedID    string
	Nutrients feeds.Nutrients

	Conditions []string
}

// NutrientAmounts expresa cantidades diarias: gramos, salvo Mg/Na en mg.
type NutrientAmounts struct {
	ProteinG    float64
	FatG        float64
	CarbG       float64
	CalciumG    float64
	PhosphorusG float64
	MagnesiumMg float64
	SodiumMg    float64
}

type Result struct {
	Description      string
	DailyMEKcal      float64
	DailyFeedAmountG float64
	Recommended      NutrientAmounts
	ActualIntake     NutrientAmounts
}

// Outcome agrega al resultado el snapshot del alimento revisado, si la
// submission traía nutrientes corregidos que se persistieron (enriquecimiento
// post-cálculo): el cliente parchea su copia en memoria, no re-fetchea.
type Outcome struct {
	Result      Result
	RevisedFeed *feeds.Feed
}

func (s *Service) Calculate(ctx context.Context, userID string, in Input) (Outcome, error) {
	if !pets.ValidSpecies(in.PetType) {
		return Outcome{}, ErrInvalidInput
	}
	if in.WeightKg <= 0 {
		return Outcome{}, ErrInvalidInput
	}
	stage := in.LifeStage
	if stage == "" {
		stage = pets.StageAdult
	}
	if !pets.ValidLifeStage(stage) {
		return Outcome{}, ErrInvalidInput
	}
	if !in.Nutrients.Valid() {
		return Outcome{}, ErrInvalidInput
	}

	// Mascota persistida: debe existir y pertenecer al usuario.
	if strings.TrimSpace(in.PetID) != "" {
		p, err := s.petSvc.GetByID(ctx, in.PetID)
		if err != nil {
			return Outcome{}, ErrPetNotFound
		}
		if p.OwnerUserID != userID {
			return Outcome{}, ErrPetNotFound
		}
	}

	var revised *feeds.Feed
	if strings.TrimSpace(in.FeedID) != "" {
		f, err := s.feedSvc.GetByID(ctx, in.FeedID)
		if err != nil {
			return Outcome{}, ErrFeedNotFound
		}
		// Enriquecimiento: si el creador mandó nutrientes distintos a los
		// almacenados y el alimento aún no está verificado, persistimos
		// la corrección y devolvemos el snapshot.
		if f.CreatorUserID == userID && !f.IsVerified {
			if diff, changed := nutrientDiff(f.Nutrients, in.Nutrients); changed {
				updated, err := s.feedSvc.ApplyCorrection(ctx, f.ID, diff)
				if err == nil {
					revised = &updated
				}
			}
		}
	}

	res, err := compute(in.PetType, in.WeightKg, stage, in.Nutrients, in.Conditions)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Result: res, RevisedFeed: revised}, nil
}

// RER = 70 × peso^0.75; MER = RER × factor por especie/etapa.
func compute(species pets.Species, weightKg float64, stage pets.LifeStage, n feeds.Nutrients, conditions []string) (Result, error) {
	rer := 70 * math.Pow(weightKg, 0.75)
	mer := rer * merFactor(species, stage)

	// Atwater modificado: 3.5 / 8.5 / 3.5 kcal por gramo.
	mePer100g := 3.5*n.ProteinPct + 8.5*n.FatPct + 3.5*n.CarbPct
	if mePer100g <= 0 {
		return Result{}, ErrInvalidInput
	}
	dailyGrams := mer / (mePer100g / 100.0)

	rec := recommendedPer1000Kcal(species)
	scale := mer / 1000.0
	recommended := NutrientAmounts{
		ProteinG:    round1(rec.ProteinG * scale),
		FatG:        round1(rec.FatG * scale),
		CarbG:       0, // sin mínimo recomendado
		CalciumG:    round2(rec.CalciumG * scale),
		PhosphorusG: round2(rec.PhosphorusG * scale),
		MagnesiumMg: round1(rec.MagnesiumMg * scale),
		SodiumMg:    round1(rec.SodiumMg * scale),
	}

	per := dailyGrams / 100.0
	actual := NutrientAmounts{
		ProteinG:    round1(n.ProteinPct * per),
		FatG:        round1(n.FatPct * per),
		CarbG:       round1(n.CarbPct * per),
		CalciumG:    round2(n.CalciumPct * per),
		PhosphorusG: round2(n.PhosphorusPct * per),
		MagnesiumMg: round1(feeds.GramsToMilligrams(n.MagnesiumG * per)),
		SodiumMg:    round1(feeds.GramsToMilligrams(n.SodiumG * per)),
	}

	return Result{
		Description:      describe(mer, dailyGrams, recommended, actual, conditions),
		DailyMEKcal:      round1(mer),
		DailyFeedAmountG: round1(dailyGrams),
		Recommended:      recommended,
		ActualIntake:     actual,
	}, nil
}

func merFactor(species pets.Species, stage pets.LifeStage) float64 {
	if species == pets.SpeciesCat {
		switch stage {
		case pets.StageBaby:
			return 2.5
		case pets.StageSenior:
			return 1.1
		case pets.StagePregnant:
			return 2.0
		case pets.StageLactating:
			return 2.5
		default:
			return 1.2
		}
	}
	switch stage {
	case pets.StageBaby:
		return 3.0
	case pets.StageSenior:
		return 1.4
	case pets.StagePregnant:
		return 3.0
	case pets.StageLactating:
		return 4.0
	default:
		return 1.6
	}
}

// Mínimos estilo AAFCO por 1000 kcal ME.
func recommendedPer1000Kcal(species pets.Species) NutrientAmounts {
	if species == pets.SpeciesCat {
		return NutrientAmounts{
			ProteinG:    65,
			FatG:        22.5,
			CalciumG:    1.44,
			PhosphorusG: 1.26,
			MagnesiumMg: 100,
			SodiumMg:    500,
		}
	}
	return NutrientAmounts{
		ProteinG:    45,
		FatG:        13.8,
		CalciumG:    1.25,
		PhosphorusG: 1.0,
		MagnesiumMg: 150,
		SodiumMg:    200,
	}
}

func describe(mer, dailyGrams float64, rec, actual NutrientAmounts, conditions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily energy requirement is %.0f kcal, about %.0f g of this feed per day.", mer, dailyGrams)

	var low []string
	if actual.ProteinG < rec.ProteinG {
		low = append(low, "protein")
	}
	if actual.FatG < rec.FatG {
		low = append(low, "fat")
	}
	if actual.CalciumG < rec.CalciumG {
		low = append(low, "calcium")
	}
	if actual.PhosphorusG < rec.PhosphorusG {
		low = append(low, "phosphorus")
	}
	if len(low) > 0 {
		fmt.Fprintf(&b, " Intake below recommended minimum: %s.", strings.Join(low, ", "))
	} else {
		b.WriteString(" All tracked nutrients meet the recommended minimums.")
	}

	if len(conditions) > 0 {
		fmt.Fprintf(&b, " Reported conditions: %s.", strings.Join(conditions, ", "))
	}
	return b.String()
}

func nutrientDiff(stored, submitted feeds.Nutrients) (feeds.Correction, bool) {
	var c feeds.Correction
	changed := false

	set := func(dst **float64, stored, submitted float64) {
		if math.Abs(stored-submitted) > 1e-9 {
			v := submitted
			*dst = &v
			changed = true
		}
	}

	set(&c.ProteinPct, stored.ProteinPct, submitted.ProteinPct)
	set(&c.FatPct, stored.FatPct, submitted.FatPct)
	set(&c.CarbPct, stored.CarbPct, submitted.CarbPct)
	set(&c.CalciumPct, stored.CalciumPct, submitted.CalciumPct)
	set(&c.PhosphorusPct, stored.PhosphorusPct, submitted.PhosphorusPct)
	set(&c.MagnesiumG, stored.MagnesiumG, submitted.MagnesiumG)
	set(&c.SodiumG, stored.SodiumG, submitted.SodiumG)

	return c, changed
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
