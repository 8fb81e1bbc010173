package reql

import (
	"github.com/codeine-ai/reter/internal/reqltable"
	"github.com/codeine-ai/reter/internal/rete"
)

// TripleSpec is one programmatic triple pattern: each slot is either a
// "?var" variable or a bare constant, using the same textual convention
// REQL source uses (a leading '?' marks a variable).
type TripleSpec struct {
	Subject, Predicate, Object string
	Path                       bool
	PathBound                  int
}

// ValuesSpec is a programmatic VALUES clause.
type ValuesSpec struct {
	Var    string
	Values []string
}

// PatternSpec is the programmatic shape spec.md §6.3's `pattern`/
// `live_pattern` entry points accept: triples ANDed together, plus the
// same optional clauses REQL text supports.
type PatternSpec struct {
	Triples   []TripleSpec
	Values    []ValuesSpec
	NotExists []TripleSpec
	Select    []string // variable names to project; empty means SELECT *
}

func termOf(s string) Term {
	if len(s) > 0 && s[0] == '?' {
		return Term{Kind: TermVar, Value: s[1:]}
	}
	return Term{Kind: TermConst, Value: s}
}

// toQuery lowers a PatternSpec into the same AST REQL text compiles to,
// so it runs through the identical planner/executor path.
func (p PatternSpec) toQuery() *Query {
	q := &Query{Limit: -1}
	if len(p.Select) == 0 {
		q.Star = true
	} else {
		for _, v := range p.Select {
			q.Select = append(q.Select, SelectTerm{Var: v})
		}
	}

	for _, t := range p.Triples {
		q.Where.Elements = append(q.Where.Elements, TripleElement{Triple: TriplePattern{
			Subject:   termOf(t.Subject),
			Predicate: termOf(t.Predicate),
			Object:    termOf(t.Object),
			Path:      t.Path,
			PathBound: t.PathBound,
		}})
	}
	for _, v := range p.Values {
		var vals []Term
		for _, raw := range v.Values {
			vals = append(vals, termOf(raw))
		}
		q.Where.Elements = append(q.Where.Elements, ValuesElement{Var: v.Var, Values: vals})
	}
	for _, t := range p.NotExists {
		inner := GroupGraphPattern{Elements: []PatternElement{TripleElement{Triple: TriplePattern{
			Subject:   termOf(t.Subject),
			Predicate: termOf(t.Predicate),
			Object:    termOf(t.Object),
		}}}}
		q.Where.Elements = append(q.Where.Elements, NotExistsElement{Pattern: inner})
	}
	return q
}

// Pattern runs a one-shot materialized query built from spec against net
// (spec.md §6.3's `pattern` entry point).
func Pattern(net *rete.Network, spec PatternSpec) (*reqltable.Table, error) {
	q := spec.toQuery()
	plan, err := Compile(q)
	if err != nil {
		return nil, err
	}
	return Execute(net, plan, 0)
}

// LiveHandle is spec.md §6.3's `live_pattern` handle: accessing it
// re-evaluates the same compiled query against the network's current
// state rather than returning a stored result.
type LiveHandle struct {
	net  *rete.Network
	plan *Plan
}

// LivePattern compiles spec once and returns a handle whose Access method
// re-reflects the network's current state on every call.
func LivePattern(net *rete.Network, spec PatternSpec) (*LiveHandle, error) {
	plan, err := Compile(spec.toQuery())
	if err != nil {
		return nil, err
	}
	return &LiveHandle{net: net, plan: plan}, nil
}

// Access re-executes the compiled plan against the network's live state.
func (h *LiveHandle) Access() (*reqltable.Table, error) {
	return Execute(h.net, h.plan, 0)
}
