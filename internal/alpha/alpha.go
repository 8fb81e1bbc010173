// Package alpha implements the alpha network: the RETE discrimination
// layer that indexes WMEs by attribute constraint sets and dispatches a
// new WME to the exact set of alpha memories it matches in O(2^K) instead
// of O(N) over all registered memories.
package alpha

import (
	"sort"
	"strings"

	"github.com/codeine-ai/reter/internal/wme"
)

// Key canonically identifies a constraint set: its keys, sorted, paired
// with their required values. Two constraint sets with the same
// (attr, value) pairs produce the same Key regardless of map iteration
// order, so memories are deduplicated by Key at registration time.
type Key string

// ConstraintKey canonicalizes a constraint set into a lookup Key.
func ConstraintKey(constraints map[string]string) Key {
	keys := make([]string, 0, len(constraints))
	for k := range constraints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(constraints[k])
	}
	return Key(b.String())
}

// Memory is an alpha memory: the set of live WMEs matching a constraint
// set, plus its registered successors (join-node right inputs). Successors
// are opaque to this package; it only needs to invoke them in order.
type Memory struct {
	Constraints map[string]string
	key         Key
	members     map[wme.Signature]wme.WME
	successors  []Successor
}

// Successor is anything that wants to observe alpha-memory activity. The
// beta/rete packages implement this to receive right-activations.
type Successor interface {
	RightActivate(w wme.WME)
	RightDeactivate(w wme.WME)
}

// Network is the alpha dispatcher: a hash map from constraint-Key to
// Memory, plus the privileged attribute registry used to bound the subset
// enumeration per WME type.
type Network struct {
	memories map[Key]*Memory
	// privileged maps a WME "type" value to the small set of attribute
	// names (always including "type" itself) that alpha memories for that
	// type may be keyed on. This bounds K per spec.md §4.2.
	privileged map[string][]string
}

// MaxPrivilegedAttrs bounds K, the number of attributes enumerated per
// dispatch. Registering a pattern that would need a fifth privileged
// attribute for a given type is a compiler/programmer error, not a
// runtime data error, and panics at registration time.
const MaxPrivilegedAttrs = 4

// NewNetwork returns an empty alpha network.
func NewNetwork() *Network {
	return &Network{
		memories:   make(map[Key]*Memory),
		privileged: make(map[string][]string),
	}
}

// RegisterPrivileged declares the attribute names (beyond "type") that
// dispatch should consider for WMEs of the given type. It is idempotent
// and cumulative: repeated registration only grows the set, never shrinks
// it, since multiple rules/queries may independently need different
// attributes of the same fact type.
func (n *Network) RegisterPrivileged(factType string, attrs ...string) {
	existing := map[string]bool{"type": true}
	for _, a := range n.privileged[factType] {
		existing[a] = true
	}
	for _, a := range attrs {
		existing[a] = true
	}
	out := make([]string, 0, len(existing))
	for a := range existing {
		out = append(out, a)
	}
	sort.Strings(out)
	if len(out) > MaxPrivilegedAttrs {
		panic("alpha: fact type " + factType + " exceeds MaxPrivilegedAttrs")
	}
	n.privileged[factType] = out
}

// GetOrCreate returns the alpha memory for the given constraint set,
// creating it (lazily, per spec.md §3) if this is the first time a
// pattern referencing it has been compiled. constraints must include
// "type" if non-empty; the empty constraint set is the special "matches
// everything" memory used by meta-rules watching all facts of a kind.
func (n *Network) GetOrCreate(constraints map[string]string) *Memory {
	key := ConstraintKey(constraints)
	if m, ok := n.memories[key]; ok {
		return m
	}
	if t, ok := constraints["type"]; ok {
		attrs := make([]string, 0, len(constraints))
		for a := range constraints {
			attrs = append(attrs, a)
		}
		n.RegisterPrivileged(t, attrs...)
	}
	m := &Memory{Constraints: copyMap(constraints), key: key}
	n.memories[key] = m
	return m
}

// Lookup returns the existing memory for a constraint set, or nil.
func (n *Network) Lookup(constraints map[string]string) *Memory {
	return n.memories[ConstraintKey(constraints)]
}

// Activate routes w into every alpha memory whose constraint set is a
// subset of w's attributes, using the privileged-attribute subset
// enumeration: only the 2^k subsets of w's privileged attributes (for
// w.Type()) are looked up, not all N registered memories.
func (n *Network) Activate(w wme.WME) {
	for _, key := range n.candidateKeys(w) {
		m, ok := n.memories[key]
		if !ok {
			continue
		}
		if !w.HasSubset(m.Constraints) {
			// Key collision avoidance: two different constraint sets
			// could in principle canonicalize to keys that only coincide
			// after subset-restriction; the direct HasSubset check is the
			// authoritative test and is O(len(constraints)).
			continue
		}
		if _, already := m.members[w.Signature()]; already {
			continue
		}
		if m.members == nil {
			m.members = make(map[wme.Signature]wme.WME)
		}
		m.members[w.Signature()] = w
		for _, s := range m.successors {
			s.RightActivate(w)
		}
	}
}

// Deactivate is the symmetric retraction path: remove w from every
// matching alpha memory and notify successors.
func (n *Network) Deactivate(w wme.WME) {
	for _, key := range n.candidateKeys(w) {
		m, ok := n.memories[key]
		if !ok {
			continue
		}
		if _, present := m.members[w.Signature()]; !present {
			continue
		}
		delete(m.members, w.Signature())
		for _, s := range m.successors {
			s.RightDeactivate(w)
		}
	}
}

// candidateKeys enumerates the 2^k subsets of w's privileged attributes
// (k <= MaxPrivilegedAttrs) plus the empty key, which always matches.
func (n *Network) candidateKeys(w wme.WME) []Key {
	t := w.Type()
	privileged := n.privileged[t]

	// Gather (attr, value) pairs for privileged attrs actually present.
	type pair struct{ k, v string }
	present := make([]pair, 0, len(privileged))
	for _, a := range privileged {
		if v, ok := w.Get(a); ok {
			present = append(present, pair{a, v})
		}
	}

	keys := make([]Key, 0, 1<<len(present)+1)
	keys = append(keys, ConstraintKey(nil))
	for mask := 1; mask < (1 << len(present)); mask++ {
		constraints := make(map[string]string, popcount(mask))
		for i, p := range present {
			if mask&(1<<i) != 0 {
				constraints[p.k] = p.v
			}
		}
		keys = append(keys, ConstraintKey(constraints))
	}
	return keys
}

func popcount(x int) int {
	c := 0
	for x != 0 {
		c += x & 1
		x >>= 1
	}
	return c
}

// AddSuccessor registers s to receive future right-activations/
// deactivations from m, and immediately replays m's current members so a
// newly compiled rule/query sees facts already present.
func (m *Memory) AddSuccessor(s Successor) {
	m.successors = append(m.successors, s)
	for _, w := range m.members {
		s.RightActivate(w)
	}
}

// Members returns a snapshot slice of the memory's current WMEs.
func (m *Memory) Members() []wme.WME {
	out := make([]wme.WME, 0, len(m.members))
	for _, w := range m.members {
		out = append(out, w)
	}
	return out
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
