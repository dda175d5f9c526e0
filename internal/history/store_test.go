package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pet-care-platform/internal/client"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "history.json"))

	// Reloj determinista para ids únicos y orden estable.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return s
}

func entry(feedName string) Entry {
	return Entry{
		FeedName: feedName,
		Result:   client.CalculationResult{DailyMEKcal: 200, DailyFeedAmountG: 60},
	}
}

func TestStore_AppendPrependsAndCaps(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < MaxEntries+3; i++ {
		if _, err := s.Append(entry("feed-" + string(rune('a'+i)))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got := s.List()
	if len(got) != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, len(got))
	}
	// Más reciente primero; los 3 más viejos se descartaron.
	if got[0].FeedName != "feed-m" {
		t.Fatalf("expected newest first, got %q", got[0].FeedName)
	}
	if got[len(got)-1].FeedName != "feed-d" {
		t.Fatalf("expected oldest kept = feed-d, got %q", got[len(got)-1].FeedName)
	}
}

func TestStore_KeepsPetAndFeedReferences(t *testing.T) {
	s := newTestStore(t)

	e := entry("NutriCat")
	e.PetID = "p1"
	e.PetName = "Michi"
	e.FeedID = "f1"
	e.FeedBrand = "ACME"
	if _, err := s.Append(e); err != nil {
		t.Fatalf("append: %v", err)
	}

	got := s.List()
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].PetID != "p1" || got[0].FeedID != "f1" {
		t.Fatalf("pet/feed ids lost: %+v", got[0])
	}
	if got[0].PetName != "Michi" || got[0].FeedBrand != "ACME" {
		t.Fatalf("names lost: %+v", got[0])
	}
}

func TestStore_IDsDeriveFromTimestamp(t *testing.T) {
	s := newTestStore(t)

	e1, _ := s.Append(entry("one"))
	e2, _ := s.Append(entry("two"))
	if e1.ID == "" || e1.ID == e2.ID {
		t.Fatalf("ids must be unique and non-empty: %q %q", e1.ID, e2.ID)
	}
}

func TestStore_ListSurvivesCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s := NewStore(path)
	if got := s.List(); len(got) != 0 {
		t.Fatalf("corrupt file must read as empty, got %d entries", len(got))
	}

	// Y el siguiente Append re-escribe el archivo sano.
	if _, err := s.Append(entry("fresh")); err != nil {
		t.Fatalf("append after corruption: %v", err)
	}
	if got := s.List(); len(got) != 1 {
		t.Fatalf("expected 1 entry after recovery, got %d", len(got))
	}
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope", "history.json"))
	if got := s.List(); len(got) != 0 {
		t.Fatalf("missing file must read as empty")
	}
}

func TestStore_RemoveAndClear(t *testing.T) {
	s := newTestStore(t)

	e1, _ := s.Append(entry("one"))
	_, _ = s.Append(entry("two"))

	if !s.Remove(e1.ID) {
		t.Fatalf("remove existing must return true")
	}
	if s.Remove(e1.ID) {
		t.Fatalf("remove twice must return false")
	}
	if len(s.List()) != 1 {
		t.Fatalf("expected 1 entry left")
	}

	if !s.Clear() {
		t.Fatalf("clear non-empty must return true")
	}
	if s.Clear() {
		t.Fatalf("clear empty must return false")
	}
	if len(s.List()) != 0 {
		t.Fatalf("expected empty history")
	}
}
