package feeds_test

import (
	"context"
	"testing"

	mem "pet-care-platform/internal/adapters/storage/memory"
	"pet-care-platform/internal/domain/feeds"
)

func validInput() feeds.CreateInput {
	return feeds.CreateInput{
		Name:  "NutriCat Adult",
		Brand: "NutriCo",
		Price: 25.90,
		Nutrients: feeds.Nutrients{
			ProteinPct:    30,
			FatPct:        12,
			CarbPct:       40,
			CalciumPct:    1.1,
			PhosphorusPct: 0.9,
			MagnesiumG:    0.08,
			SodiumG:       0.35,
		},
	}
}

func TestCreateOrMatch_NewAndExisting(t *testing.T) {
	svc := feeds.NewService(mem.NewFeedRepo())
	ctx := context.Background()

	f, existing, err := svc.CreateOrMatch(ctx, "creator-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if existing {
		t.Fatalf("first create must not be existing")
	}
	if f.CreatorUserID != "creator-1" || f.IsVerified || f.ReviewCount != 0 {
		t.Fatalf("unexpected new feed: %+v", f)
	}

	// Mismo nombre+marca (con mayúsculas y espacios distintos) => match.
	in := validInput()
	in.Name = "  nutricat   ADULT "
	in.Price = 99.99 // distinto: no debe pisar el canónico

	got, existing, err := svc.CreateOrMatch(ctx, "user-2", in)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !existing {
		t.Fatalf("expected existing match")
	}
	if got.ID != f.ID {
		t.Fatalf("expected canonical id %s, got %s", f.ID, got.ID)
	}
	if got.Price != 25.90 {
		t.Fatalf("matched feed must keep original values, got price %v", got.Price)
	}
}

func TestCreateOrMatch_RejectsIncompleteNutrients(t *testing.T) {
	svc := feeds.NewService(mem.NewFeedRepo())

	in := validInput()
	in.Nutrients.ProteinPct = -1

	if _, _, err := svc.CreateOrMatch(context.Background(), "u1", in); err == nil {
		t.Fatalf("expected error for invalid nutrients")
	}
}

func TestIncrementReviewCount_VerifiesAtThresholdAndStops(t *testing.T) {
	svc := feeds.NewService(mem.NewFeedRepo())
	ctx := context.Background()

	f, _, err := svc.CreateOrMatch(ctx, "creator-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 1; i <= feeds.VerifyThreshold; i++ {
		f, err = svc.IncrementReviewCount(ctx, f.ID)
		if err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
		if f.ReviewCount != i {
			t.Fatalf("count at %d: got %d", i, f.ReviewCount)
		}
	}
	if !f.IsVerified {
		t.Fatalf("expected verified at threshold")
	}

	// Verificado es terminal: más incrementos no cambian nada.
	again, err := svc.IncrementReviewCount(ctx, f.ID)
	if err != nil {
		t.Fatalf("increment after verified: %v", err)
	}
	if again.ReviewCount != feeds.VerifyThreshold {
		t.Fatalf("count must freeze at %d, got %d", feeds.VerifyThreshold, again.ReviewCount)
	}
}

func TestApplyCorrection_PartialDiff(t *testing.T) {
	svc := feeds.NewService(mem.NewFeedRepo())
	ctx := context.Background()

	f, _, _ := svc.CreateOrMatch(ctx, "creator-1", validInput())

	newProtein := 32.0
	got, err := svc.ApplyCorrection(ctx, f.ID, feeds.Correction{ProteinPct: &newProtein})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.Nutrients.ProteinPct != 32 {
		t.Fatalf("protein not corrected: %v", got.Nutrients.ProteinPct)
	}
	if got.Nutrients.FatPct != 12 || got.Brand != "NutriCo" {
		t.Fatalf("untouched fields must survive: %+v", got)
	}
}

func TestApplyCorrection_SkipsVerifiedFeed(t *testing.T) {
	svc := feeds.NewService(mem.NewFeedRepo())
	ctx := context.Background()

	f, _, _ := svc.CreateOrMatch(ctx, "creator-1", validInput())
	for i := 0; i < feeds.VerifyThreshold; i++ {
		f, _ = svc.IncrementReviewCount(ctx, f.ID)
	}

	newProtein := 5.0
	got, err := svc.ApplyCorrection(ctx, f.ID, feeds.Correction{ProteinPct: &newProtein})
	if err != nil {
		t.Fatalf("apply on verified: %v", err)
	}
	if got.Nutrients.ProteinPct != 30 {
		t.Fatalf("verified feed must not change, got protein %v", got.Nutrients.ProteinPct)
	}
}
