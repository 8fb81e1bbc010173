package beta

import (
	"github.com/codeine-ai/reter/internal/wme"
)

// Pattern describes how to extract a binding contribution from a
// right-side WME for one pattern position: either the attribute is bound
// to a variable name (captured into Bindings) or it is a fixed literal
// (checked for equality, not captured).
type Pattern struct {
	// Vars maps attribute name -> variable name for attributes this
	// pattern binds from the WME.
	Vars map[string]string
	// Literals maps attribute name -> required literal value.
	Literals map[string]string
}

// BuiltinTest is a post-join filter evaluated after the join succeeds but
// before the token is stored (spec.md §4.3). It receives the full
// binding set of the candidate token.
type BuiltinTest func(bindings map[string]string) bool

// JoinNode connects a left beta memory and a right alpha memory, testing
// equality over shared variables using hash indices on both sides so that
// both right- and left-activation are O(k) in match count, not O(n*m).
type JoinNode struct {
	Left     *Memory
	Pattern  Pattern
	JoinVars []string // variable names present in both left bindings and this pattern's Vars
	Tests    []BuiltinTest

	rightIndex map[string][]wme.WME // join-key -> matching right WMEs
	leftIndex  map[string][]*Token  // join-key -> matching left tokens
	Out        *Memory
	onToken        func(t *Token) // optional: invoked for every accepted token, in addition to storing it
	onTokenRemoved func(t *Token) // optional: invoked whenever a stored output token is retracted
}

// NewJoinNode builds a join node over left and a right-side pattern. Out
// is the beta memory the join's output tokens are stored in; pass a fresh
// Memory per join node.
func NewJoinNode(left *Memory, pattern Pattern, joinVars []string, tests ...BuiltinTest) *JoinNode {
	return &JoinNode{
		Left:       left,
		Pattern:    pattern,
		JoinVars:   joinVars,
		Tests:      tests,
		rightIndex: make(map[string][]wme.WME),
		leftIndex:  make(map[string][]*Token),
		Out:        NewMemory(),
	}
}

// OnToken installs a callback invoked for every token this join accepts
// (after dedup and builtin tests), in addition to the token being stored
// in Out. internal/rete uses this to chain to the next join/production.
// internal/reql does not use join nodes: its queries are evaluated over a
// snapshot of the network's facts with their own nested-loop joins.
func (j *JoinNode) OnToken(fn func(t *Token)) { j.onToken = fn }

// OnTokenRemoved installs a callback invoked whenever a previously
// accepted output token is retracted, letting downstream join nodes
// (internal/rete) or production nodes propagate the retraction cascade.
func (j *JoinNode) OnTokenRemoved(fn func(t *Token)) { j.onTokenRemoved = fn }

func (j *JoinNode) removeOut(t *Token) {
	j.Out.Remove(t)
	if j.onTokenRemoved != nil {
		j.onTokenRemoved(t)
	}
}

// extract pulls this pattern's variable bindings out of a candidate right
// WME, verifying any literal constraints. ok is false if a literal
// constraint fails.
func (p Pattern) extract(w wme.WME) (bindings map[string]string, ok bool) {
	bindings = make(map[string]string, len(p.Vars))
	for attr, lit := range p.Literals {
		v, present := w.Get(attr)
		if !present || v != lit {
			return nil, false
		}
	}
	for attr, variable := range p.Vars {
		v, present := w.Get(attr)
		if !present {
			return nil, false
		}
		bindings[variable] = v
	}
	return bindings, true
}

func joinKey(joinVars []string, lookup func(string) (string, bool)) (string, bool) {
	if len(joinVars) == 0 {
		return "", false // signals "no join vars" -> Cartesian fallback
	}
	key := ""
	for _, v := range joinVars {
		val, ok := lookup(v)
		if !ok {
			return "", false
		}
		key += v + "=" + val + ";"
	}
	return key, true
}

// RightActivate handles a new WME arriving on the alpha side: extract
// bindings, index it, and probe the left index for compatible tokens.
func (j *JoinNode) RightActivate(w wme.WME) {
	bindings, ok := j.Pattern.extract(w)
	if !ok {
		return
	}

	key, indexed := joinKey(j.JoinVars, func(v string) (string, bool) {
		val, present := bindings[v]
		return val, present
	})
	if indexed {
		j.rightIndex[key] = append(j.rightIndex[key], w)
		for _, left := range j.leftIndex[key] {
			j.tryCombine(left, w, bindings)
		}
		return
	}

	// No join variables: Cartesian product against every left token.
	j.rightIndex[""] = append(j.rightIndex[""], w)
	for _, left := range j.Left.All() {
		j.tryCombine(left, w, bindings)
	}
}

// RightDeactivate removes w from the right index and retracts every
// output token whose right-side component is w.
func (j *JoinNode) RightDeactivate(w wme.WME) {
	for key, ws := range j.rightIndex {
		for i, cand := range ws {
			if cand.Signature() == w.Signature() {
				j.rightIndex[key] = append(ws[:i], ws[i+1:]...)
				break
			}
		}
	}
	for _, t := range j.Out.All() {
		if t.hasRight && t.Right.Signature() == w.Signature() {
			j.removeOut(t)
		}
	}
}

// LeftActivate handles a new token arriving from the preceding beta node:
// index it and probe the right index for compatible WMEs.
func (j *JoinNode) LeftActivate(t *Token) {
	key, indexed := joinKey(j.JoinVars, func(v string) (string, bool) {
		val, present := t.Bindings[v]
		return val, present
	})
	if indexed {
		j.leftIndex[key] = append(j.leftIndex[key], t)
		for _, right := range j.rightIndex[key] {
			bindings, ok := j.Pattern.extract(right)
			if !ok {
				continue
			}
			j.tryCombine(t, right, bindings)
		}
		return
	}

	j.leftIndex[""] = append(j.leftIndex[""], t)
	for _, right := range j.rightIndex[""] {
		bindings, ok := j.Pattern.extract(right)
		if !ok {
			continue
		}
		j.tryCombine(t, right, bindings)
	}
}

// LeftDeactivate removes t from the left index and its corresponding
// output tokens.
func (j *JoinNode) LeftDeactivate(t *Token) {
	for key, ts := range j.leftIndex {
		for i, cand := range ts {
			if cand == t {
				j.leftIndex[key] = append(ts[:i], ts[i+1:]...)
				break
			}
		}
	}
	for _, out := range j.Out.All() {
		if out.Parent == t {
			j.removeOut(out)
		}
	}
}

func (j *JoinNode) tryCombine(left *Token, right wme.WME, rightBindings map[string]string) {
	// Consistency check: any variable bound on both sides must agree.
	for k, v := range rightBindings {
		if existing, ok := left.Bindings[k]; ok && existing != v {
			return
		}
	}

	child := left.Extend(right, rightBindings)
	for _, test := range j.Tests {
		if !test(child.Bindings) {
			return
		}
	}
	if !j.Out.Add(child) {
		return // deduplicated
	}
	if j.onToken != nil {
		j.onToken(child)
	}
}
