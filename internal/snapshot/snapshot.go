// Package snapshot persists and restores a rete.Network's source-keyed
// live facts (spec.md §6.5). A snapshot never serializes inferred facts
// or compiled productions directly: replaying only the originally
// asserted facts, source by source, through an already
// wired network (mandatory rules installed, template meta-rules ready to
// specialize) lets the network re-derive every inferred fact and
// re-specialize every template production exactly as it did the first
// time. Persisting and replaying inferred facts as if they were
// independently sourced was the historical mistake this avoids: every
// inferred fact becomes "permanently sourced" instead of
// support-tracked, breaking retraction, and every template re-expands
// against both the original axiom and its own already-derived
// consequences, multiplying the reloaded network's size far past the
// original (the report that motivated this design named a roughly 13x
// blowup).
package snapshot

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"os"

	"github.com/codeine-ai/reter/internal/rete"
	"github.com/codeine-ai/reter/internal/wme"
)

// ErrDeserialize is returned by Load when the file at path cannot be
// decoded as an Image, or carries a format version this build doesn't
// know how to read.
var ErrDeserialize = errors.New("snapshot: could not deserialize image")

// Version is the on-disk snapshot format version. Load rejects any
// other version rather than guessing at a compatible decode.
const Version = 1

// Image is the gob-encoded on-disk representation: one ordered fact list
// per source, in the order ListSources returns them (alphabetical),
// preserving each source's own fact order as FactsOf reported it at save
// time.
type Image struct {
	Version int
	Sources []SourceImage
}

// SourceImage is every fact asserted under one source, as plain
// attribute maps ready for rete.Network.Assert.
type SourceImage struct {
	Name  string
	Facts []map[string]string
}

// Build captures net's current source-keyed live facts into an Image.
// Facts produced by inference (never registered under any source) are
// intentionally excluded.
func Build(net *rete.Network) Image {
	live := make(map[wme.Signature]wme.WME, 64)
	for _, w := range net.AllFacts() {
		live[w.Signature()] = w
	}

	img := Image{Version: Version}
	for _, name := range net.ListSources() {
		src := SourceImage{Name: name}
		for _, sig := range net.FactsOf(name) {
			if w, ok := live[sig]; ok {
				src.Facts = append(src.Facts, w.Attrs())
			}
		}
		img.Sources = append(img.Sources, src)
	}
	return img
}

// Save writes net's current state to path.
func Save(net *rete.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := gob.NewEncoder(w).Encode(Build(net)); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return w.Flush()
}

// Load reads an Image from path and replays it into net: net should
// already have its mandatory rule set installed (e.g. via
// owl.InstallMandatory), so reasserted axiom facts re-specialize their
// template productions and reasserted instance facts re-derive every
// consequence through the normal firing pipeline, rather than through
// any special-cased restore logic.
func Load(net *rete.Network, path string) error {
	img, err := readImage(path)
	if err != nil {
		return err
	}
	Restore(net, img)
	return nil
}

func readImage(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer f.Close()

	var img Image
	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(&img); err != nil {
		return Image{}, fmt.Errorf("%w: decode: %v", ErrDeserialize, err)
	}
	if img.Version != Version {
		return Image{}, fmt.Errorf("%w: unsupported version %d (want %d)", ErrDeserialize, img.Version, Version)
	}
	return img, nil
}

// Restore replays img's facts into net, source by source, fact by fact,
// in the order img lists them. That order within a source is the order
// FactsOf returned at save time, which is not the original assertion
// order.
func Restore(net *rete.Network, img Image) {
	for _, src := range img.Sources {
		for _, fact := range src.Facts {
			net.Assert(fact, src.Name)
		}
	}
}
