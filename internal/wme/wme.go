// Package wme implements the working-memory element (fact) model: the
// atomic, content-addressed data unit exchanged through the reasoning
// network.
package wme

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// Signature is the content address of a WME: a canonical hash over its
// sorted attribute/value pairs. Two facts with the same signature are the
// same fact.
type Signature string

// WME is an unordered attribute/value map with a distinguished "type"
// attribute identifying its kind. Once constructed a WME is immutable; the
// underlying map is copied on construction so callers cannot mutate a live
// fact out from under the network.
type WME struct {
	attrs []kv // sorted by key, built once at construction
	sig   Signature
}

type kv struct {
	key, val string
}

// TypeAttr is the distinguished attribute every WME must carry.
const TypeAttr = "type"

// New builds a WME from an attribute map, computing its canonical
// signature. The map must contain a "type" entry; New panics if it does
// not, since an untyped fact is a caller programming error, not a data
// error (malformed surface syntax is rejected upstream of this layer).
func New(attrs map[string]string) WME {
	if _, ok := attrs[TypeAttr]; !ok {
		panic("wme: fact is missing required \"type\" attribute")
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]kv, len(keys))
	h := fnv.New64a()
	for i, k := range keys {
		v := attrs[k]
		pairs[i] = kv{k, v}
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(v))
		h.Write([]byte{'\x00'})
	}
	return WME{attrs: pairs, sig: Signature(fmt.Sprintf("%016x", h.Sum64()))}
}

// Signature returns the WME's content-addressed identity.
func (w WME) Signature() Signature { return w.sig }

// Type returns the WME's distinguished "type" attribute.
func (w WME) Type() string {
	v, _ := w.Get(TypeAttr)
	return v
}

// Get returns the value of attr and whether it is present.
func (w WME) Get(attr string) (string, bool) {
	// attrs is small (a handful of entries) and sorted; linear scan beats
	// a map allocation per WME.
	for _, p := range w.attrs {
		if p.key == attr {
			return p.val, true
		}
	}
	return "", false
}

// Attrs returns a fresh copy of the WME's attribute map.
func (w WME) Attrs() map[string]string {
	out := make(map[string]string, len(w.attrs))
	for _, p := range w.attrs {
		out[p.key] = p.val
	}
	return out
}

// Keys returns the sorted attribute names.
func (w WME) Keys() []string {
	out := make([]string, len(w.attrs))
	for i, p := range w.attrs {
		out[i] = p.key
	}
	return out
}

// HasSubset reports whether every (attr, value) pair in constraints also
// appears in w. This is the dispatch test the alpha network runs: a
// constraint set matches a WME iff it is a subset of the WME's map.
func (w WME) HasSubset(constraints map[string]string) bool {
	for k, v := range constraints {
		got, ok := w.Get(k)
		if !ok || got != v {
			return false
		}
	}
	return true
}

func (w WME) String() string {
	parts := make([]string, len(w.attrs))
	for i, p := range w.attrs {
		parts[i] = p.key + "=" + p.val
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
