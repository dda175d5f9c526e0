package reviews_test

import (
	"context"
	"errors"
	"testing"

	mem "pet-care-platform/internal/adapters/storage/memory"
	"pet-care-platform/internal/domain/feeds"
	"pet-care-platform/internal/domain/reviews"
)

func newServices(t *testing.T) (*reviews.Service, *feeds.Service, feeds.Feed) {
	t.Helper()

	feedsSvc := feeds.NewService(mem.NewFeedRepo())
	reviewsSvc := reviews.NewService(mem.NewReviewRepo(), feedsSvc)

	f, _, err := feedsSvc.CreateOrMatch(context.Background(), "creator-1", feeds.CreateInput{
		Name:  "NutriCat Adult",
		Brand: "NutriCo",
		Price: 25.90,
		Nutrients: feeds.Nutrients{
			ProteinPct: 30, FatPct: 12, CarbPct: 40,
			CalciumPct: 1.1, PhosphorusPct: 0.9,
			MagnesiumG: 0.08, SodiumG: 0.35,
		},
	})
	if err != nil {
		t.Fatalf("seed feed: %v", err)
	}
	return reviewsSvc, feedsSvc, f
}

func TestConfirm_ThresholdAndIdempotence(t *testing.T) {
	svc, _, f := newServices(t)
	ctx := context.Background()

	users := []string{"u1", "u2", "u3", "u4", "u5"}
	for i, u := range users {
		got, err := svc.Confirm(ctx, u, f.ID)
		if err != nil {
			t.Fatalf("confirm %s: %v", u, err)
		}
		if got.ReviewCount != i+1 {
			t.Fatalf("confirm %s: count=%d, want %d", u, got.ReviewCount, i+1)
		}
	}

	got, err := svc.Confirm(ctx, "u1", f.ID)
	if err != nil {
		t.Fatalf("repeat confirm: %v", err)
	}
	if got.ReviewCount != 5 || !got.IsVerified {
		t.Fatalf("repeat confirm must not change state: %+v", got)
	}
}

func TestConfirm_RejectsCreator(t *testing.T) {
	svc, _, f := newServices(t)

	_, err := svc.Confirm(context.Background(), "creator-1", f.ID)
	if !errors.Is(err, reviews.ErrOwnFeed) {
		t.Fatalf("expected ErrOwnFeed, got %v", err)
	}
}

func TestCheck_NoDecisionIsZeroValue(t *testing.T) {
	svc, _, f := newServices(t)
	ctx := context.Background()

	d, err := svc.Check(ctx, "nobody", f.ID)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if d.Reviewed || d.Reported {
		t.Fatalf("expected clean decision, got %+v", d)
	}

	if _, err := svc.Confirm(ctx, "u1", f.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	d, _ = svc.Check(ctx, "u1", f.ID)
	if !d.Reviewed {
		t.Fatalf("expected reviewed=true after confirm")
	}
}

func TestReport_AppliesCorrectionAndMarksDecision(t *testing.T) {
	svc, feedsSvc, f := newServices(t)
	ctx := context.Background()

	price := 19.90
	got, err := svc.Report(ctx, "u1", f.ID, reviews.ReportInput{
		Categories: []reviews.Category{reviews.CategoryPrice},
		Corrected:  feeds.Correction{Price: &price},
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if got.Price != 19.90 {
		t.Fatalf("correction not applied: %v", got.Price)
	}

	d, _ := svc.Check(ctx, "u1", f.ID)
	if !d.Reported {
		t.Fatalf("expected reported=true")
	}

	stored, _ := feedsSvc.GetByID(ctx, f.ID)
	if stored.Price != 19.90 {
		t.Fatalf("stored feed must reflect correction: %v", stored.Price)
	}
}

func TestReport_RequiresCategory(t *testing.T) {
	svc, _, f := newServices(t)

	_, err := svc.Report(context.Background(), "u1", f.ID, reviews.ReportInput{})
	if !errors.Is(err, reviews.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty categories, got %v", err)
	}
}

func TestCollapseCategories(t *testing.T) {
	one, err := reviews.CollapseCategories([]reviews.Category{reviews.CategoryBrand})
	if err != nil || one != reviews.CategoryBrand {
		t.Fatalf("single category: got %v, %v", one, err)
	}

	multi, err := reviews.CollapseCategories([]reviews.Category{
		reviews.CategoryBrand, reviews.CategoryPrice,
	})
	if err != nil || multi != reviews.CategoryMultiple {
		t.Fatalf("two categories must collapse to multiple: got %v, %v", multi, err)
	}

	if _, err := reviews.CollapseCategories([]reviews.Category{"bogus"}); err == nil {
		t.Fatalf("unknown category must fail")
	}
}
