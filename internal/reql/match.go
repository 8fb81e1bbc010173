package reql

import (
	"github.com/codeine-ai/reter/internal/rete"
)

// Binding is one partial solution: variable name (without leading '?') to
// its bound string value.
type Binding map[string]string

func cloneBinding(b Binding) Binding {
	out := make(Binding, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	return out
}

// tripleMatch is one concrete (subject, predicate, object) triple
// surfaced from the live fact store, already resolved from whichever WME
// shape produced it.
type tripleMatch struct{ Subj, Pred, Obj string }

// conceptPredicate is the one reserved predicate name REQL gives a fixed
// meaning: spec.md §8 scenario 5's `?caller concept ?t` queries
// instance_of(individual, concept) directly. Every other predicate name is
// resolved dynamically against role_assertion.role or data_assertion.property,
// since those two fact shapes exist precisely so arbitrary domain
// vocabulary (calls, hasParent, hasAge, ...) can act as RDF-style
// predicates (see DESIGN.md's Open Question decision).
const conceptPredicate = "concept"

// candidateTriples resolves every live fact into the triples t's
// predicate could possibly match, without yet applying subject/object
// bindings -- that join happens in joinTriple.
func candidateTriples(net *rete.Network, t TriplePattern) []tripleMatch {
	predConst := ""
	predIsVar := t.Predicate.Kind == TermVar
	if !predIsVar {
		predConst = t.Predicate.Value
	}

	var out []tripleMatch
	for _, w := range net.AllFacts() {
		switch w.Type() {
		case "instance_of":
			if !predIsVar && predConst != conceptPredicate {
				continue
			}
			ind, _ := w.Get("individual")
			con, _ := w.Get("concept")
			out = append(out, tripleMatch{Subj: ind, Pred: conceptPredicate, Obj: con})
		case "role_assertion":
			role, _ := w.Get("role")
			if !predIsVar && role != predConst {
				continue
			}
			subj, _ := w.Get("subject")
			obj, _ := w.Get("object")
			out = append(out, tripleMatch{Subj: subj, Pred: role, Obj: obj})
		case "data_assertion":
			prop, _ := w.Get("property")
			if !predIsVar && prop != predConst {
				continue
			}
			subj, _ := w.Get("subject")
			val, _ := w.Get("value")
			out = append(out, tripleMatch{Subj: subj, Pred: prop, Obj: val})
		}
	}
	return out
}

// propertyPathTriples resolves a `subject pred* object` pattern by
// building the role_assertion adjacency for pred and returning every pair
// reachable within t.PathBound hops (0 = unbounded), cycle-safe via a
// seen set.
func propertyPathTriples(net *rete.Network, t TriplePattern) []tripleMatch {
	predName := t.Predicate.Value
	adj := map[string][]string{}
	for _, w := range net.AllFacts() {
		if w.Type() != "role_assertion" {
			continue
		}
		role, _ := w.Get("role")
		if role != predName {
			continue
		}
		s, _ := w.Get("subject")
		o, _ := w.Get("object")
		adj[s] = append(adj[s], o)
	}

	var out []tripleMatch
	for s := range adj {
		for o := range bfsReachable(adj, s, t.PathBound) {
			out = append(out, tripleMatch{Subj: s, Pred: predName, Obj: o})
		}
	}
	return out
}

type pathItem struct {
	node  string
	depth int
}

func bfsReachable(adj map[string][]string, start string, bound int) map[string]bool {
	visited := map[string]bool{}
	seen := map[string]bool{start: true}
	queue := []pathItem{{start, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if bound > 0 && cur.depth >= bound {
			continue
		}
		for _, next := range adj[cur.node] {
			visited[next] = true
			if !seen[next] {
				seen[next] = true
				queue = append(queue, pathItem{next, cur.depth + 1})
			}
		}
	}
	return visited
}

// extend tries to unify term against val within b, returning the
// (possibly extended) binding and whether unification succeeded. b itself
// is never mutated.
func extend(b Binding, term Term, val string) (Binding, bool) {
	if term.Kind == TermConst {
		return b, term.Value == val
	}
	if existing, ok := b[term.Value]; ok {
		return b, existing == val
	}
	nb := cloneBinding(b)
	nb[term.Value] = val
	return nb, true
}

// joinTriple extends every binding in in with every way t can match a
// live fact, a plain nested-loop join over a snapshot of candidate
// triples.
func joinTriple(net *rete.Network, in []Binding, t TriplePattern) []Binding {
	var candidates []tripleMatch
	if t.Path {
		candidates = propertyPathTriples(net, t)
	} else {
		candidates = candidateTriples(net, t)
	}

	var out []Binding
	for _, b := range in {
		for _, c := range candidates {
			nb, ok := extend(b, t.Subject, c.Subj)
			if !ok {
				continue
			}
			nb, ok = extend(nb, t.Predicate, c.Pred)
			if !ok {
				continue
			}
			nb, ok = extend(nb, t.Object, c.Obj)
			if !ok {
				continue
			}
			out = append(out, nb)
		}
	}
	return out
}
