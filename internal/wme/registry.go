package wme

import "sort"

// InternalSource is a source tag name for WMEs produced by rule firings
// rather than external assertion. Nothing in this module registers facts
// under it: inferred WMEs are not recorded in the Registry at all and are
// retracted when their supporting tokens disappear (see internal/rete).
const InternalSource = "__inferred__"

// Registry tracks which facts were introduced by which named source, so a
// source can be added, removed, and re-added without leaking derived
// facts. It does not hold the facts themselves (that's the network's
// alpha-memory contents); it only holds the source -> signature set and
// signature -> refcount needed to decide when a signature becomes dead.
type Registry struct {
	bySource map[string]map[Signature]struct{}
	refcount map[Signature]int
}

// NewRegistry returns an empty source registry.
func NewRegistry() *Registry {
	return &Registry{
		bySource: make(map[string]map[Signature]struct{}),
		refcount: make(map[Signature]int),
	}
}

// Assert records that source introduced sig. It returns true the first
// time (source, sig) is recorded and false on a repeat assertion, which is
// a no-op per spec: idempotent per (signature, source) pair.
func (r *Registry) Assert(source string, sig Signature) (firstForSource bool) {
	set, ok := r.bySource[source]
	if !ok {
		set = make(map[Signature]struct{})
		r.bySource[source] = set
	}
	if _, already := set[sig]; already {
		return false
	}
	set[sig] = struct{}{}
	r.refcount[sig]++
	return true
}

// RemoveSource decrements the refcount of every signature introduced by
// source and returns the set of signatures whose total refcount reached
// zero (these are the WMEs to retract from the network). Removing a
// nonexistent source is a silent no-op, returning nil.
func (r *Registry) RemoveSource(source string) []Signature {
	set, ok := r.bySource[source]
	if !ok {
		return nil
	}
	delete(r.bySource, source)

	var dead []Signature
	for sig := range set {
		r.refcount[sig]--
		if r.refcount[sig] <= 0 {
			delete(r.refcount, sig)
			dead = append(dead, sig)
		}
	}
	return dead
}

// HasSource reports whether source is currently registered.
func (r *Registry) HasSource(source string) bool {
	_, ok := r.bySource[source]
	return ok
}

// ListSources returns the currently registered source identifiers, sorted.
func (r *Registry) ListSources() []string {
	out := make([]string, 0, len(r.bySource))
	for s := range r.bySource {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// FactsOf returns the signatures introduced by source.
func (r *Registry) FactsOf(source string) []Signature {
	set, ok := r.bySource[source]
	if !ok {
		return nil
	}
	out := make([]Signature, 0, len(set))
	for sig := range set {
		out = append(out, sig)
	}
	return out
}

// RefCount returns how many sources currently reference sig.
func (r *Registry) RefCount(sig Signature) int {
	return r.refcount[sig]
}
