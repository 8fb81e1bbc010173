// Package rete orchestrates the full discrimination network: it owns the
// alpha dispatcher, compiles ProductionSpecs into chained join nodes,
// fires productions with refraction, installs template-instantiated
// productions, and drives the retraction cascade described in spec.md
// §4.1 and §9.
package rete

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/codeine-ai/reter/internal/alpha"
	"github.com/codeine-ai/reter/internal/beta"
	"github.com/codeine-ai/reter/internal/wme"
)

// Network is the live reasoning network: alpha dispatcher, compiled
// productions, the source registry, and the support bookkeeping needed to
// retract inferred facts when their last supporting token disappears.
type Network struct {
	mu sync.Mutex

	Alpha     *alpha.Network
	Sources   *wme.Registry
	log       *zap.Logger
	facts     map[wme.Signature]wme.WME
	productions map[string]*Production

	// support[sig] is the set of firing tokens that justify inferred WME
	// sig; producedBy[token] is the inverse index used on retraction.
	support    map[wme.Signature]map[*beta.Token]bool
	producedBy map[*beta.Token][]wme.Signature

	queue []wme.WME // FIFO pending activations, drained to fixed point

	stats Stats
}

// Stats mirrors spec.md §6.6's statistics surface.
type Stats struct {
	FiringCounts   map[string]int
	TotalWMEs      int
	TotalTokens    int
	AlphaHits      int
	AlphaMisses    int
	JoinSuccesses  int
	JoinFallbacks  int
}

// New returns an empty network. log may be nil, in which case a no-op
// logger is used.
func New(log *zap.Logger) *Network {
	if log == nil {
		log = zap.NewNop()
	}
	return &Network{
		Alpha:       alpha.NewNetwork(),
		Sources:     wme.NewRegistry(),
		log:         log,
		facts:       make(map[wme.Signature]wme.WME),
		productions: make(map[string]*Production),
		support:     make(map[wme.Signature]map[*beta.Token]bool),
		producedBy:  make(map[*beta.Token][]wme.Signature),
		stats:       Stats{FiringCounts: make(map[string]int)},
	}
}

// Assert ingests fact under source, returning its signature. Idempotent
// per (signature, source): re-asserting the same fact under the same
// source is a no-op beyond the registry bookkeeping (spec.md §4.1).
func (n *Network) Assert(fact map[string]string, source string) wme.Signature {
	n.mu.Lock()
	defer n.mu.Unlock()

	w := wme.New(fact)
	sig := w.Signature()
	isNew := !n.isLive(sig)
	n.Sources.Assert(source, sig)

	if isNew {
		n.facts[sig] = w
		n.enqueue(w)
		n.drain()
	}
	return sig
}

// RetractSource removes every WME solely supported by source, cascading
// through the network. Retracting an unknown source is a silent no-op.
func (n *Network) RetractSource(source string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	dead := n.Sources.RemoveSource(source)
	for _, sig := range dead {
		n.retractWME(sig)
	}
}

// ListSources returns every currently registered source identifier.
func (n *Network) ListSources() []string { n.mu.Lock(); defer n.mu.Unlock(); return n.Sources.ListSources() }

// FactsOf returns the signatures introduced by source.
func (n *Network) FactsOf(source string) []wme.Signature {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.Sources.FactsOf(source)
}

// AllFacts returns every live WME in the network.
func (n *Network) AllFacts() []wme.WME {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]wme.WME, 0, len(n.facts))
	for _, w := range n.facts {
		out = append(out, w)
	}
	return out
}

// QueryByAttributes returns every live WME whose attribute map is a
// superset of constraints (direct introspection, spec.md §4.1).
func (n *Network) QueryByAttributes(constraints map[string]string) []wme.WME {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []wme.WME
	for _, w := range n.facts {
		if w.HasSubset(constraints) {
			out = append(out, w)
		}
	}
	return out
}

func (n *Network) isLive(sig wme.Signature) bool {
	_, ok := n.facts[sig]
	return ok
}

func (n *Network) enqueue(w wme.WME) { n.queue = append(n.queue, w) }

// drain processes the FIFO queue to fixed point: activations and the
// resulting production firings are handled in arrival order, so any WME
// added by a firing is visible to later firings within the same call
// (spec.md §4.3, §5).
func (n *Network) drain() {
	for len(n.queue) > 0 {
		w := n.queue[0]
		n.queue = n.queue[1:]
		n.stats.TotalWMEs++
		n.Alpha.Activate(w)
	}
}

// assertInferred is called by a firing production's RHS to add a derived
// WME, recording tok as (one of) its supporting tokens.
func (n *Network) assertInferred(fact map[string]string, tok *beta.Token) {
	w := wme.New(fact)
	sig := w.Signature()

	if n.support[sig] == nil {
		n.support[sig] = make(map[*beta.Token]bool)
	}
	n.support[sig][tok] = true
	n.producedBy[tok] = append(n.producedBy[tok], sig)

	if !n.isLive(sig) {
		n.facts[sig] = w
		n.enqueue(w)
	}
}

// retractWME removes w entirely: drops it from facts, deactivates it in
// the alpha network (which cascades through every join/production that
// held it), and walks its own support/producedBy bookkeeping so
// downstream inferred facts it solely supported are retracted too.
func (n *Network) retractWME(sig wme.Signature) {
	w, ok := n.facts[sig]
	if !ok {
		return
	}
	delete(n.facts, sig)
	delete(n.support, sig)
	n.Alpha.Deactivate(w)
}

// unmatch is invoked when a production's firing token is retracted: every
// fact that token alone supported loses that support, and is itself
// retracted if no other token still supports it.
func (n *Network) unmatch(tok *beta.Token) {
	sigs := n.producedBy[tok]
	delete(n.producedBy, tok)
	for _, sig := range sigs {
		set := n.support[sig]
		if set == nil {
			continue
		}
		delete(set, tok)
		if len(set) == 0 {
			n.retractWME(sig)
		}
	}
}

// CompileProduction wires a ProductionSpec into the network: one alpha
// memory + join node per pattern step, chained left-deep, terminating in
// a Production that fires on every full match. Installation is idempotent
// by name: re-compiling a spec whose name already exists is a no-op,
// which is what makes template meta-rules (spec.md §4.4) safe to re-fire
// on the same axiom.
func (n *Network) CompileProduction(spec ProductionSpec) *Production {
	if existing, ok := n.productions[spec.Name]; ok {
		return existing
	}
	if len(spec.Pattern) == 0 {
		panic("rete: production " + spec.Name + " has no LHS patterns")
	}

	p := &Production{
		Name:       spec.Name,
		spec:       spec,
		net:        n,
		refraction: make(map[*beta.Token]bool),
	}

	// Pass 1: build every join node and its Out memory, left-deep, without
	// triggering any replay yet.
	root := beta.NewMemory()
	root.Add(beta.Root())

	joins := make([]*beta.JoinNode, len(spec.Pattern))
	amems := make([]*alpha.Memory, len(spec.Pattern))
	bound := map[string]bool{}
	curLeft := root
	for i, step := range spec.Pattern {
		joinVars := sharedVars(bound, step.Vars)
		amems[i] = n.Alpha.GetOrCreate(step.Constraints)
		joins[i] = beta.NewJoinNode(curLeft, beta.Pattern{Vars: step.Vars, Literals: step.Constraints}, joinVars, step.Tests...)
		for _, v := range step.Vars {
			bound[v] = true
		}
		curLeft = joins[i].Out
	}

	// Pass 2: wire every callback before any right-side replay happens.
	// Doing this after pass 1 but before pass 3 guarantees a match found
	// while seeding an already-populated network (a production compiled
	// against pre-existing facts, or a template installed mid-stream) is
	// never missed because its downstream callback wasn't registered yet.
	for i := 0; i < len(joins)-1; i++ {
		this, next := joins[i], joins[i+1]
		this.OnToken(func(t *beta.Token) { next.LeftActivate(t) })
		this.OnTokenRemoved(func(t *beta.Token) { next.LeftDeactivate(t) })
	}
	last := joins[len(joins)-1]
	last.OnToken(p.onMatch)
	last.OnTokenRemoved(p.onUnmatch)

	// Pass 3: seed each join's left index with whatever its predecessor
	// already holds, then replay the right side, left-to-right so each
	// step's matches propagate through the now-fully-wired chain.
	curLeft = root
	for i, j := range joins {
		for _, t := range curLeft.All() {
			j.LeftActivate(t)
		}
		amems[i].AddSuccessor(j)
		curLeft = j.Out
	}

	n.productions[spec.Name] = p
	n.log.Debug("compiled production", zap.String("name", spec.Name), zap.Int("steps", len(spec.Pattern)))
	return p
}

// HasProduction reports whether a production with the given name has
// already been installed (used by templates to stay idempotent).
func (n *Network) HasProduction(name string) bool {
	_, ok := n.productions[name]
	return ok
}

// ProductionNames returns every installed production's name, sorted.
func (n *Network) ProductionNames() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.productions))
	for name := range n.productions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FiringCount returns how many times the named production has fired.
func (n *Network) FiringCount(name string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stats.FiringCounts[name]
}

// StatsSnapshot returns a snapshot of network statistics (spec.md §6.6).
func (n *Network) StatsSnapshot() Stats {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.stats
	out.FiringCounts = make(map[string]int, len(n.stats.FiringCounts))
	for k, v := range n.stats.FiringCounts {
		out.FiringCounts[k] = v
	}
	out.TotalWMEs = len(n.facts)
	return out
}

func sharedVars(bound map[string]bool, vars map[string]string) []string {
	var out []string
	for _, v := range vars {
		if bound[v] {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func substitute(lit map[string]string, varsAttrs map[string]string, bindings map[string]string) (map[string]string, error) {
	fact := make(map[string]string, len(lit)+len(varsAttrs))
	for k, v := range lit {
		fact[k] = v
	}
	for attr, variable := range varsAttrs {
		val, ok := bindings[variable]
		if !ok {
			return nil, fmt.Errorf("rete: variable %q unbound in firing token", variable)
		}
		fact[attr] = val
	}
	return fact, nil
}
