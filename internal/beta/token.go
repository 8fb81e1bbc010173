// Package beta implements the beta network's data structures: tokens
// (partial matches with variable bindings) and beta memories, plus the
// hash-indexed join node algorithm used by the production-rule network
// (internal/rete). The REQL executor (internal/reql) does not use this
// package; it joins query patterns with its own nested loops over a
// snapshot of the network's facts.
package beta

import (
	"fmt"
	"sort"
	"strings"

	"github.com/codeine-ai/reter/internal/wme"
)

// Token is an ordered chain of WMEs forming a partial match at some depth
// in a rule's (or query's) left-hand side, plus the variable substitution
// accumulated so far. Tokens form a tree rooted at Root(); every non-root
// token has exactly one parent.
type Token struct {
	Parent    *Token
	Right     wme.WME // the alpha activation that produced this token; zero value at the root
	Bindings  map[string]string
	hasRight  bool
	signature string // cached identity key: parent pointer + right WME signature
}

// Root returns the empty token every join chain descends from.
func Root() *Token {
	return &Token{Bindings: map[string]string{}}
}

// IsRoot reports whether t is the chain root (no right WME, no parent).
func (t *Token) IsRoot() bool { return t.Parent == nil && !t.hasRight }

// Extend produces a child token combining t with a new right-side WME and
// its contribution to the binding substitution. The child's binding map is
// a fresh copy so distinct children never alias each other's bindings.
func (t *Token) Extend(right wme.WME, newBindings map[string]string) *Token {
	merged := make(map[string]string, len(t.Bindings)+len(newBindings))
	for k, v := range t.Bindings {
		merged[k] = v
	}
	for k, v := range newBindings {
		merged[k] = v
	}
	child := &Token{Parent: t, Right: right, Bindings: merged, hasRight: true}
	child.signature = childIdentity(t, right)
	return child
}

// childIdentity is the (parent, right-WME) identity pair two tokens are
// deduplicated on: two alpha memories activating the same join node with
// the same physical WME under different alias paths must collapse to one
// token, or rule firing fans out and can fail to terminate (spec.md §4.3,
// §9).
func childIdentity(parent *Token, right wme.WME) string {
	return fmt.Sprintf("%p|%s", parent, right.Signature())
}

// Ancestors walks from t up to (and including) the root, innermost first.
func (t *Token) Ancestors() []*Token {
	var out []*Token
	for cur := t; cur != nil; cur = cur.Parent {
		out = append(out, cur)
	}
	return out
}

// RightWMEs returns every non-root right WME along the chain from the
// root down to t, in match order.
func (t *Token) RightWMEs() []wme.WME {
	anc := t.Ancestors()
	out := make([]wme.WME, 0, len(anc))
	for i := len(anc) - 1; i >= 0; i-- {
		if anc[i].hasRight {
			out = append(out, anc[i].Right)
		}
	}
	return out
}

// Get returns the bound value of a variable, if any.
func (t *Token) Get(variable string) (string, bool) {
	v, ok := t.Bindings[variable]
	return v, ok
}

func (t *Token) String() string {
	keys := make([]string, 0, len(t.Bindings))
	for k := range t.Bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + t.Bindings[k]
	}
	return "<" + strings.Join(parts, ",") + ">"
}

// Memory holds the set of tokens reaching a particular depth, deduplicated
// by (parent, right WME) identity.
type Memory struct {
	tokens map[string]*Token
	order  []*Token // preserves FIFO insertion order for deterministic iteration
}

// NewMemory returns an empty beta memory.
func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]*Token)}
}

// Add inserts t if no token with the same (parent, right) identity is
// already present. Returns false if t was a duplicate.
func (m *Memory) Add(t *Token) bool {
	if t.hasRight {
		if _, dup := m.tokens[t.signature]; dup {
			return false
		}
		m.tokens[t.signature] = t
	}
	m.order = append(m.order, t)
	return true
}

// Remove deletes t (matched by identity) from the memory.
func (m *Memory) Remove(t *Token) {
	if t.hasRight {
		delete(m.tokens, t.signature)
	}
	for i, cand := range m.order {
		if cand == t {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// All returns the memory's tokens in insertion (FIFO) order.
func (m *Memory) All() []*Token {
	return append([]*Token(nil), m.order...)
}

// Len reports how many tokens the memory currently holds.
func (m *Memory) Len() int { return len(m.order) }
