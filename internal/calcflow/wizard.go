package calcflow

import (
	"context"
	"errors"
	"strings"

	"pet-care-platform/internal/client"
)

// CalcAPI es el subconjunto del SDK que necesita el wizard.
type CalcAPI interface {
	UpdatePet(ctx context.Context, petID string, in client.UpdatePetInput) (client.Pet, error)
	SubmitCalculation(ctx context.Context, in client.CalculationInput) (client.CalculationResult, error)
}

type Step int

const (
	StepSelectPet Step = iota
	StepSelectFeed
	StepResult
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCalculating
	PhaseError
	PhaseDone
)

var (
	ErrWrongStep    = errors.New("wrong step")
	ErrNoPet        = errors.New("no pet selected")
	ErrNoFeed       = errors.New("no feed selected")
	ErrInvalidPet   = errors.New("invalid pet data")
	ErrInvalidFeed  = errors.New("invalid feed nutrients")
	ErrNotRetryable = errors.New("nothing to retry")
)

var validSpecies = map[string]bool{"cat": true, "dog": true}

var validStages = map[string]bool{
	"baby": true, "adult": true, "senior": true,
	"pregnant": true, "lactating": true,
}

// TempPet es un perfil no persistido, solo para este cálculo.
// Nunca produce un pet_id en la submission.
type TempPet struct {
	Species   string
	Weight    float64
	Height    float64
	LifeStage string
}

func (t TempPet) valid() bool {
	return validSpecies[t.Species] && validStages[t.LifeStage] &&
		t.Weight > 0 && t.Height > 0
}

// Wizard es la máquina de estados de la calculadora: mascota → alimento
// → resultado. El submit ocurre al entrar al paso de resultado.
type Wizard struct {
	api  CalcAPI
	gate *ReviewGate

	step  Step
	phase Phase

	pet    *client.Pet // mascota persistida (nil si es temporal)
	temp   *TempPet
	weight float64 // peso/altura efectivos para este cálculo
	height float64

	feed       *client.Feed
	conditions []string

	result  *client.CalculationResult
	lastErr error
}

func NewWizard(api CalcAPI, gate *ReviewGate) *Wizard {
	return &Wizard{api: api, gate: gate}
}

func (w *Wizard) Step() Step   { return w.step }
func (w *Wizard) Phase() Phase { return w.phase }
func (w *Wizard) Err() error   { return w.lastErr }

func (w *Wizard) Result() *client.CalculationResult { return w.result }

// Feed expone el alimento seleccionado; tras un cálculo con snapshot
// revisado refleja los valores corregidos.
func (w *Wizard) Feed() *client.Feed { return w.feed }

// SelectPersistedPet fija una mascota guardada. weight/height son los
// valores para este cálculo; si difieren de los guardados, el perfil se
// actualiza en el server antes de calcular.
func (w *Wizard) SelectPersistedPet(p client.Pet, weight, height float64) error {
	if w.step != StepSelectPet {
		return ErrWrongStep
	}
	if strings.TrimSpace(p.ID) == "" || !validSpecies[p.Species] || !validStages[p.LifeStage] {
		return ErrInvalidPet
	}
	if weight <= 0 || height <= 0 {
		return ErrInvalidPet
	}
	w.pet = &p
	w.temp = nil
	w.weight = weight
	w.height = height
	return nil
}

// SelectTemporaryPet fija un perfil temporal sin persistir.
func (w *Wizard) SelectTemporaryPet(t TempPet) error {
	if w.step != StepSelectPet {
		return ErrWrongStep
	}
	if !t.valid() {
		return ErrInvalidPet
	}
	w.temp = &t
	w.pet = nil
	w.weight = t.Weight
	w.height = t.Height
	return nil
}

// SelectFeed fija el alimento y las condiciones de salud para el cálculo.
// Un alimento con nutrientes negativos no pasa de este paso.
func (w *Wizard) SelectFeed(f client.Feed, conditions []string) error {
	if w.step != StepSelectFeed {
		return ErrWrongStep
	}
	if strings.TrimSpace(f.ID) == "" {
		return ErrNoFeed
	}
	if !nutrientsValid(f.Nutrients) {
		return ErrInvalidFeed
	}
	w.feed = &f
	w.conditions = conditions
	return nil
}

// nutrientsValid exige los siete valores no negativos.
func nutrientsValid(n client.Nutrients) bool {
	for _, v := range []float64{
		n.Protein, n.Fat, n.Carbohydrate,
		n.Calcium, n.Phosphorus,
		n.MagnesiumMg, n.SodiumMg,
	} {
		if v < 0 {
			return false
		}
	}
	return true
}

// Next avanza un paso. La transición al resultado pasa primero por la
// puerta de revisión y dispara la submission.
func (w *Wizard) Next(ctx context.Context) error {
	switch w.step {
	case StepSelectPet:
		if w.pet == nil && w.temp == nil {
			return ErrNoPet
		}
		w.step = StepSelectFeed
		return nil

	case StepSelectFeed:
		if w.feed == nil {
			return ErrNoFeed
		}
		if w.gate != nil {
			if err := w.gate.Clear(ctx, w.feed); err != nil {
				return err
			}
		}
		w.step = StepResult
		w.submit(ctx)
		return nil

	default:
		return ErrWrongStep
	}
}

// Back retrocede un paso. Volver desde el resultado descarta el cálculo
// pero conserva las selecciones.
func (w *Wizard) Back() error {
	switch w.step {
	case StepResult:
		w.step = StepSelectFeed
		w.result = nil
		w.phase = PhaseIdle
		w.lastErr = nil
		return nil
	case StepSelectFeed:
		w.step = StepSelectPet
		return nil
	default:
		return ErrWrongStep
	}
}

// Retry re-ejecuta solo la submission fallida; no repite la puerta de
// revisión ni las selecciones previas.
func (w *Wizard) Retry(ctx context.Context) error {
	if w.step != StepResult || w.phase != PhaseError {
		return ErrNotRetryable
	}
	w.submit(ctx)
	return nil
}

func (w *Wizard) submit(ctx context.Context) {
	w.phase = PhaseCalculating
	w.result = nil
	w.lastErr = nil

	in := client.CalculationInput{
		Weight:     w.weight,
		Height:     w.height,
		FeedID:     w.feed.ID,
		Nutrients:  w.feed.Nutrients,
		Conditions: w.conditions,
	}

	if w.pet != nil {
		in.PetID = w.pet.ID
		in.PetType = w.pet.Species
		in.LifeStage = w.pet.LifeStage

		// Peso/altura nuevos se persisten en el perfil antes de calcular.
		if w.weight != w.pet.Weight || w.height != w.pet.Height {
			upd := client.UpdatePetInput{Weight: &w.weight, Height: &w.height}
			if p, err := w.api.UpdatePet(ctx, w.pet.ID, upd); err == nil {
				w.pet = &p
			} else {
				w.phase = PhaseError
				w.lastErr = err
				return
			}
		}
	} else {
		in.PetType = w.temp.Species
		in.LifeStage = w.temp.LifeStage
	}

	res, err := w.api.SubmitCalculation(ctx, in)
	if err != nil {
		w.phase = PhaseError
		w.lastErr = err
		return
	}

	w.result = &res
	w.phase = PhaseDone

	// Si el server devolvió un snapshot revisado, el alimento en memoria
	// adopta esos valores para el resto de la sesión.
	if res.Feed != nil && w.feed != nil && res.Feed.ID == w.feed.ID {
		w.feed.Name = res.Feed.Name
		w.feed.Brand = res.Feed.Brand
		w.feed.Price = res.Feed.Price
		w.feed.Nutrients = res.Feed.Nutrients
		w.feed.IsVerified = res.Feed.IsVerified
		w.feed.ReviewCount = res.Feed.ReviewCount
	}
}
