package store_test

import (
	"path/filepath"
	"testing"

	"github.com/codeine-ai/reter/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "durability.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordFactIsIdempotentPerSourceAndSignature(t *testing.T) {
	s := openTestStore(t)
	fact := map[string]string{"type": "instance_of", "individual": "rex", "concept": "Dog"}

	if err := s.RecordFact("data", "sig-1", fact); err != nil {
		t.Fatalf("RecordFact: %v", err)
	}
	if err := s.RecordFact("data", "sig-1", fact); err != nil {
		t.Fatalf("RecordFact (repeat): %v", err)
	}

	facts, err := s.FactsOf("data")
	if err != nil {
		t.Fatalf("FactsOf: %v", err)
	}
	if len(facts) != 1 {
		t.Fatalf("expected 1 fact after idempotent re-record, got %d", len(facts))
	}
}

func TestRemoveSourceDeletesItsFacts(t *testing.T) {
	s := openTestStore(t)
	s.RecordFact("data", "sig-1", map[string]string{"type": "instance_of", "individual": "rex", "concept": "Dog"})

	if err := s.RemoveSource("data"); err != nil {
		t.Fatalf("RemoveSource: %v", err)
	}

	facts, err := s.FactsOf("data")
	if err != nil {
		t.Fatalf("FactsOf: %v", err)
	}
	if len(facts) != 0 {
		t.Fatalf("expected 0 facts after removing source, got %d", len(facts))
	}

	sources, err := s.Sources()
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	for _, name := range sources {
		if name == "data" {
			t.Fatal("expected source 'data' to be gone after removal")
		}
	}
}

func TestSourcesListsDistinctSourceNames(t *testing.T) {
	s := openTestStore(t)
	s.RecordFact("schema", "sig-a", map[string]string{"type": "subsumption", "sub": "Dog", "sup": "Animal"})
	s.RecordFact("data", "sig-b", map[string]string{"type": "instance_of", "individual": "rex", "concept": "Dog"})

	sources, err := s.Sources()
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d: %v", len(sources), sources)
	}
}
