package calcflow

import (
	"context"
	"errors"
	"testing"

	"pet-care-platform/internal/client"
)

type fakeCalcAPI struct {
	updateOut client.Pet
	updateErr error
	submitOut client.CalculationResult
	submitErr error

	updateCalls int
	submitCalls int
	lastInput   client.CalculationInput
}

func (f *fakeCalcAPI) UpdatePet(_ context.Context, _ string, _ client.UpdatePetInput) (client.Pet, error) {
	f.updateCalls++
	return f.updateOut, f.updateErr
}

func (f *fakeCalcAPI) SubmitCalculation(_ context.Context, in client.CalculationInput) (client.CalculationResult, error) {
	f.submitCalls++
	f.lastInput = in
	return f.submitOut, f.submitErr
}

func testFeed() client.Feed {
	return client.Feed{
		ID:         "f1",
		Name:       "NutriCat",
		IsVerified: true,
		Nutrients:  client.Nutrients{Protein: 30, Fat: 12, Carbohydrate: 40},
	}
}

func TestWizard_TemporaryPetOmitsPetID(t *testing.T) {
	api := &fakeCalcAPI{submitOut: client.CalculationResult{DailyMEKcal: 237.6}}
	w := NewWizard(api, nil)
	ctx := context.Background()

	temp := TempPet{Species: "cat", LifeStage: "adult", Weight: 4, Height: 25}
	if err := w.SelectTemporaryPet(temp); err != nil {
		t.Fatalf("select temp: %v", err)
	}
	if err := w.Next(ctx); err != nil {
		t.Fatalf("next to feed: %v", err)
	}
	if err := w.SelectFeed(testFeed(), []string{"kidney disease"}); err != nil {
		t.Fatalf("select feed: %v", err)
	}
	if err := w.Next(ctx); err != nil {
		t.Fatalf("next to result: %v", err)
	}

	if w.Phase() != PhaseDone {
		t.Fatalf("expected done, phase=%v err=%v", w.Phase(), w.Err())
	}
	if api.lastInput.PetID != "" {
		t.Fatalf("temporary pet must never send pet_id, got %q", api.lastInput.PetID)
	}
	if api.lastInput.PetType != "cat" || api.lastInput.Weight != 4 {
		t.Fatalf("unexpected input: %+v", api.lastInput)
	}
	if api.updateCalls != 0 {
		t.Fatalf("temporary pet must not patch any profile")
	}
	if len(api.lastInput.Conditions) != 1 {
		t.Fatalf("conditions lost: %+v", api.lastInput.Conditions)
	}
}

func TestWizard_PersistedPetPatchesChangedBiometrics(t *testing.T) {
	pet := client.Pet{ID: "p1", Species: "dog", LifeStage: "adult", Weight: 12, Height: 40}
	api := &fakeCalcAPI{
		updateOut: client.Pet{ID: "p1", Species: "dog", LifeStage: "adult", Weight: 13, Height: 40},
	}
	w := NewWizard(api, nil)
	ctx := context.Background()

	// Peso distinto al guardado: debe persistirse antes del cálculo.
	if err := w.SelectPersistedPet(pet, 13, 40); err != nil {
		t.Fatalf("select pet: %v", err)
	}
	if err := w.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := w.SelectFeed(testFeed(), nil); err != nil {
		t.Fatalf("select feed: %v", err)
	}
	if err := w.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}

	if api.updateCalls != 1 {
		t.Fatalf("expected one profile patch, got %d", api.updateCalls)
	}
	if api.lastInput.PetID != "p1" || api.lastInput.Weight != 13 {
		t.Fatalf("unexpected input: %+v", api.lastInput)
	}
}

func TestWizard_PersistedPetUnchangedSkipsPatch(t *testing.T) {
	pet := client.Pet{ID: "p1", Species: "dog", LifeStage: "adult", Weight: 12, Height: 40}
	api := &fakeCalcAPI{}
	w := NewWizard(api, nil)
	ctx := context.Background()

	if err := w.SelectPersistedPet(pet, 12, 40); err != nil {
		t.Fatalf("select pet: %v", err)
	}
	_ = w.Next(ctx)
	_ = w.SelectFeed(testFeed(), nil)
	_ = w.Next(ctx)

	if api.updateCalls != 0 {
		t.Fatalf("unchanged biometrics must not patch, got %d calls", api.updateCalls)
	}
}

func TestWizard_RetryRepeatsOnlySubmission(t *testing.T) {
	api := &fakeCalcAPI{submitErr: errors.New("boom")}
	prompter := &fakePrompter{decision: Decision{Do: ActionConfirm}}
	reviewAPI := &fakeReviewAPI{}
	gate := NewReviewGate(reviewAPI, prompter, "u1")

	w := NewWizard(api, gate)
	ctx := context.Background()

	_ = w.SelectTemporaryPet(TempPet{Species: "cat", LifeStage: "adult", Weight: 4, Height: 25})
	_ = w.Next(ctx)

	feed := testFeed()
	feed.IsVerified = false
	feed.CreatorUserID = "someone-else"
	_ = w.SelectFeed(feed, nil)

	if err := w.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}
	if w.Phase() != PhaseError {
		t.Fatalf("expected error phase, got %v", w.Phase())
	}
	promptsBefore := prompter.calls
	if promptsBefore != 1 {
		t.Fatalf("expected one review prompt, got %d", promptsBefore)
	}

	// El retry repite solo la submission: ni prompt ni checks de nuevo.
	api.submitErr = nil
	api.submitOut = client.CalculationResult{DailyMEKcal: 200}
	if err := w.Retry(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if w.Phase() != PhaseDone {
		t.Fatalf("expected done after retry, got %v err=%v", w.Phase(), w.Err())
	}
	if api.submitCalls != 2 {
		t.Fatalf("expected 2 submissions, got %d", api.submitCalls)
	}
	if prompter.calls != promptsBefore || reviewAPI.checkCalls != 1 {
		t.Fatalf("retry must not re-run the review gate")
	}
}

func TestWizard_RetryOnlyFromErrorPhase(t *testing.T) {
	w := NewWizard(&fakeCalcAPI{}, nil)
	if err := w.Retry(context.Background()); !errors.Is(err, ErrNotRetryable) {
		t.Fatalf("expected ErrNotRetryable, got %v", err)
	}
}

func TestWizard_BackFromResultDiscardsCalc(t *testing.T) {
	api := &fakeCalcAPI{submitOut: client.CalculationResult{DailyMEKcal: 100}}
	w := NewWizard(api, nil)
	ctx := context.Background()

	_ = w.SelectTemporaryPet(TempPet{Species: "cat", LifeStage: "adult", Weight: 4, Height: 25})
	_ = w.Next(ctx)
	_ = w.SelectFeed(testFeed(), nil)
	_ = w.Next(ctx)

	if w.Result() == nil {
		t.Fatalf("expected a result")
	}
	if err := w.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if w.Step() != StepSelectFeed || w.Result() != nil || w.Phase() != PhaseIdle {
		t.Fatalf("back must discard result: step=%v phase=%v", w.Step(), w.Phase())
	}

	// Las selecciones sobreviven: se puede avanzar de nuevo directo.
	if err := w.Next(ctx); err != nil {
		t.Fatalf("re-next: %v", err)
	}
	if api.submitCalls != 2 {
		t.Fatalf("expected resubmission, got %d", api.submitCalls)
	}
}

func TestWizard_RevisedSnapshotPatchesFeed(t *testing.T) {
	revised := testFeed()
	revised.Nutrients.Protein = 33
	revised.ReviewCount = 1

	api := &fakeCalcAPI{
		submitOut: client.CalculationResult{DailyMEKcal: 100, Feed: &revised},
	}
	w := NewWizard(api, nil)
	ctx := context.Background()

	_ = w.SelectTemporaryPet(TempPet{Species: "cat", LifeStage: "adult", Weight: 4, Height: 25})
	_ = w.Next(ctx)
	_ = w.SelectFeed(testFeed(), nil)
	_ = w.Next(ctx)

	if w.Feed().Nutrients.Protein != 33 {
		t.Fatalf("in-memory feed must adopt revised snapshot, got %v", w.Feed().Nutrients.Protein)
	}
}

func TestWizard_ValidationGates(t *testing.T) {
	w := NewWizard(&fakeCalcAPI{}, nil)
	ctx := context.Background()

	if err := w.Next(ctx); !errors.Is(err, ErrNoPet) {
		t.Fatalf("expected ErrNoPet, got %v", err)
	}
	if err := w.SelectTemporaryPet(TempPet{Species: "hamster", LifeStage: "adult", Weight: 1, Height: 5}); !errors.Is(err, ErrInvalidPet) {
		t.Fatalf("expected ErrInvalidPet for species, got %v", err)
	}
	if err := w.SelectTemporaryPet(TempPet{Species: "cat", LifeStage: "adult", Weight: 0, Height: 5}); !errors.Is(err, ErrInvalidPet) {
		t.Fatalf("expected ErrInvalidPet for weight, got %v", err)
	}

	_ = w.SelectTemporaryPet(TempPet{Species: "cat", LifeStage: "adult", Weight: 4, Height: 25})
	_ = w.Next(ctx)
	if err := w.Next(ctx); !errors.Is(err, ErrNoFeed) {
		t.Fatalf("expected ErrNoFeed, got %v", err)
	}
}

func TestWizard_NegativeNutrientsBlockFeedStep(t *testing.T) {
	api := &fakeCalcAPI{submitOut: client.CalculationResult{DailyMEKcal: 100}}
	w := NewWizard(api, nil)
	ctx := context.Background()

	_ = w.SelectTemporaryPet(TempPet{Species: "cat", LifeStage: "adult", Weight: 4, Height: 25})
	_ = w.Next(ctx)

	bad := testFeed()
	bad.Nutrients.Protein = -5
	if err := w.SelectFeed(bad, nil); !errors.Is(err, ErrInvalidFeed) {
		t.Fatalf("expected ErrInvalidFeed, got %v", err)
	}
	if err := w.Next(ctx); !errors.Is(err, ErrNoFeed) {
		t.Fatalf("expected ErrNoFeed after rejected feed, got %v", err)
	}
	if api.submitCalls != 0 {
		t.Fatalf("rejected feed must never reach submission, submits=%d", api.submitCalls)
	}

	// Con los valores corregidos el paso avanza normalmente.
	if err := w.SelectFeed(testFeed(), nil); err != nil {
		t.Fatalf("select valid feed: %v", err)
	}
	if err := w.Next(ctx); err != nil {
		t.Fatalf("next to result: %v", err)
	}
	if w.Phase() != PhaseDone || api.submitCalls != 1 {
		t.Fatalf("expected one submission after correction, phase=%v submits=%d", w.Phase(), api.submitCalls)
	}
}
