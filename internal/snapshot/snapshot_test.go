package snapshot_test

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"

	"github.com/codeine-ai/reter/internal/owl"
	"github.com/codeine-ai/reter/internal/rete"
	"github.com/codeine-ai/reter/internal/snapshot"
)

func newNetwork() *rete.Network {
	net := rete.New(nil)
	owl.InstallMandatory(net)
	return net
}

func TestSaveLoadRoundTripsInferredFacts(t *testing.T) {
	net := newNetwork()
	net.Assert(map[string]string{"type": "subsumption", "sub": "Dog", "sup": "Animal"}, "schema")
	net.Assert(map[string]string{"type": "subsumption", "sub": "Animal", "sup": "LivingThing"}, "schema")
	net.Assert(map[string]string{"type": "instance_of", "individual": "rex", "concept": "Dog"}, "data")

	path := filepath.Join(t.TempDir(), "net.snap")
	if err := snapshot.Save(net, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := newNetwork()
	if err := snapshot.Load(restored, path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	found := false
	for _, w := range restored.AllFacts() {
		if w.Type() != "instance_of" {
			continue
		}
		ind, _ := w.Get("individual")
		con, _ := w.Get("concept")
		if ind == "rex" && con == "LivingThing" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected transitive instance_of(rex, LivingThing) to be re-derived after restore")
	}
}

func TestSaveLoadDoesNotBlowUpNetworkSize(t *testing.T) {
	net := newNetwork()
	net.Assert(map[string]string{"type": "subsumption", "sub": "Dog", "sup": "Animal"}, "schema")
	net.Assert(map[string]string{"type": "instance_of", "individual": "rex", "concept": "Dog"}, "data")

	original := len(net.AllFacts())

	path := filepath.Join(t.TempDir(), "net.snap")
	if err := snapshot.Save(net, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	restored := newNetwork()
	if err := snapshot.Load(restored, path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := len(restored.AllFacts()); got != original {
		t.Fatalf("expected restored network to have %d facts, got %d", original, got)
	}
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.snap")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	img := snapshot.Image{Version: 99, Sources: []snapshot.SourceImage{{Name: "schema"}}}
	if err := gob.NewEncoder(f).Encode(img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	f.Close()

	net := newNetwork()
	if err := snapshot.Load(net, path); err == nil {
		t.Fatal("expected an error loading a mismatched snapshot version")
	}
}
