// Package history guarda localmente los últimos cálculos del usuario.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"pet-care-platform/internal/client"
)

// MaxEntries es el tope del historial; al superarlo se descarta lo más viejo.
const MaxEntries = 10

// Entry es un cálculo guardado. ID se deriva del timestamp de guardado.
type Entry struct {
	ID        string                   `json:"id"`
	SavedAt   time.Time                `json:"saved_at"`
	PetID     string                   `json:"pet_id,omitempty"` // vacío para mascotas temporales
	PetName   string                   `json:"pet_name,omitempty"`
	FeedID    string                   `json:"feed_id,omitempty"`
	FeedName  string                   `json:"feed_name,omitempty"`
	FeedBrand string                   `json:"feed_brand,omitempty"`
	Result    client.CalculationResult `json:"result"`
}

// Store persiste el historial en un único archivo JSON.
// Toda operación lee y escribe el archivo completo; con 10 entradas
// como máximo el costo es irrelevante.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Append agrega una entrada al frente y recorta a MaxEntries.
func (s *Store) Append(e Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UTC()
	e.SavedAt = ts
	e.ID = strconv.FormatInt(ts.UnixNano(), 10)

	entries := s.load()
	entries = append([]Entry{e}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	if err := s.save(entries); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// List retorna las entradas, más reciente primero. Un archivo ausente o
// corrupto cuenta como historial vacío: el historial nunca falla la UI.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Remove borra la entrada con ese id. Retorna si existía.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	kept := entries[:0]
	found := false
	for _, e := range entries {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return false
	}
	return s.save(kept) == nil
}

// Clear borra todo el historial. Retorna si había algo que borrar.
func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	if len(entries) == 0 {
		return false
	}
	return s.save(nil) == nil
}

func (s *Store) load() []Entry {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

func (s *Store) save(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, b, 0o644)
}
