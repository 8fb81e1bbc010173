package reql

import (
	"time"

	"github.com/codeine-ai/reter/internal/reqltable"
	"github.com/codeine-ai/reter/internal/rete"
)

// execContext carries the live network and an optional wall-clock
// deadline through one query's (and any nested subquery's) evaluation.
type execContext struct {
	net         *rete.Network
	deadline    time.Time
	hasDeadline bool
}

func newExecContext(net *rete.Network, timeoutMS int) *execContext {
	ctx := &execContext{net: net}
	if timeoutMS > 0 {
		ctx.deadline = time.Now().Add(time.Duration(timeoutMS) * time.Millisecond)
		ctx.hasDeadline = true
	}
	return ctx
}

func (ctx *execContext) checkDeadline() error {
	if ctx.hasDeadline && time.Now().After(ctx.deadline) {
		return ErrTimeout
	}
	return nil
}

// Execute runs a compiled plan to completion and returns its result
// table.
func Execute(net *rete.Network, plan *Plan, timeoutMS int) (*reqltable.Table, error) {
	ctx := newExecContext(net, timeoutMS)
	return ctx.run(plan.Query)
}

// run evaluates one query's WHERE clause and projects/aggregates/orders
// its bindings. It is also the re-entry point evalSubquery uses, so a
// nested SELECT shares this context's deadline.
func (ctx *execContext) run(q *Query) (*reqltable.Table, error) {
	if err := ctx.checkDeadline(); err != nil {
		return nil, err
	}
	bindings, err := ctx.evalGGP(q.Where, []Binding{{}})
	if err != nil {
		return nil, err
	}
	return ctx.project(q, bindings)
}

// evalGGP threads a GroupGraphPattern's elements left to right over an
// input set of bindings, each element transforming the running binding
// set in place (a join for triples, a union/left-join/anti-join for the
// compound forms, a row filter for FILTER, and so on).
func (ctx *execContext) evalGGP(g GroupGraphPattern, in []Binding) ([]Binding, error) {
	cur := in
	for _, el := range g.Elements {
		if err := ctx.checkDeadline(); err != nil {
			return nil, err
		}
		var err error
		switch e := el.(type) {
		case TripleElement:
			cur = joinTriple(ctx.net, cur, e.Triple)
		case UnionElement:
			cur, err = ctx.evalUnion(cur, e)
		case OptionalElement:
			cur, err = ctx.evalOptional(cur, e.Pattern)
		case MinusElement:
			cur, err = ctx.evalMinus(cur, e.Pattern)
		case NotExistsElement:
			cur, err = ctx.evalNotExists(cur, e.Pattern)
		case FilterElement:
			cur = ctx.evalFilter(cur, e.Expr)
		case ValuesElement:
			cur = ctx.evalValues(cur, e)
		case SubqueryElement:
			cur, err = ctx.evalSubquery(cur, e)
		}
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func (ctx *execContext) evalUnion(cur []Binding, e UnionElement) ([]Binding, error) {
	var out []Binding
	for _, b := range cur {
		left, err := ctx.evalGGP(e.Left, []Binding{b})
		if err != nil {
			return nil, err
		}
		right, err := ctx.evalGGP(e.Right, []Binding{b})
		if err != nil {
			return nil, err
		}
		out = append(out, left...)
		out = append(out, right...)
	}
	return out, nil
}

func (ctx *execContext) evalOptional(cur []Binding, pat GroupGraphPattern) ([]Binding, error) {
	var out []Binding
	for _, b := range cur {
		matches, err := ctx.evalGGP(pat, []Binding{b})
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			out = append(out, b)
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}

// evalMinus excludes a binding only when the MINUS pattern shares at
// least one variable with it and produces a compatible match, matching
// SPARQL's MINUS semantics: a pattern with a wholly disjoint variable
// domain never excludes anything.
func (ctx *execContext) evalMinus(cur []Binding, pat GroupGraphPattern) ([]Binding, error) {
	patVars := collectPatternVars(pat)
	var out []Binding
	for _, b := range cur {
		shared := false
		for k := range b {
			if patVars[k] {
				shared = true
				break
			}
		}
		if !shared {
			out = append(out, b)
			continue
		}
		matches, err := ctx.evalGGP(pat, []Binding{b})
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			out = append(out, b)
		}
	}
	return out, nil
}

func (ctx *execContext) evalNotExists(cur []Binding, pat GroupGraphPattern) ([]Binding, error) {
	var out []Binding
	for _, b := range cur {
		matches, err := ctx.evalGGP(pat, []Binding{b})
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			out = append(out, b)
		}
	}
	return out, nil
}

func (ctx *execContext) evalFilter(cur []Binding, expr Expr) []Binding {
	var out []Binding
	for _, b := range cur {
		if ctx.evalBool(expr, b) {
			out = append(out, b)
		}
	}
	return out
}

func (ctx *execContext) evalValues(cur []Binding, e ValuesElement) []Binding {
	var out []Binding
	for _, b := range cur {
		if existing, ok := b[e.Var]; ok {
			for _, v := range e.Values {
				if v.Value == existing {
					out = append(out, b)
					break
				}
			}
			continue
		}
		for _, v := range e.Values {
			nb := cloneBinding(b)
			nb[e.Var] = v.Value
			out = append(out, nb)
		}
	}
	return out
}

// evalSubquery runs e.Query and binds its scalar result to e.Var on
// every current binding. A subquery correlates with the enclosing query
// whenever it mentions (in a triple, or inside a FILTER -- including
// builtin-call arguments) a variable name the current outer binding
// already has a value for (spec.md §4.6, §9's design note); that
// variable is substituted as a constant into a private copy of the
// subquery's AST before it is compiled, so it runs specialized to that
// one outer row instead of unconstrained. Rows whose correlating
// variables take the same combination of values share one execution via
// a small cache; a subquery with no such shared name runs exactly once
// and broadcasts to every row, which falls out of the same code path
// since its correlation key is then identical (empty) for every row.
func (ctx *execContext) evalSubquery(cur []Binding, e SubqueryElement) ([]Binding, error) {
	referenced := collectReferencedVars(e.Query.Where)

	type result struct {
		val string
		ok  bool
	}
	cache := map[string]result{}
	var out []Binding
	for _, b := range cur {
		correlating := map[string]bool{}
		for v := range referenced {
			if _, ok := b[v]; ok {
				correlating[v] = true
			}
		}

		key := correlationKey(correlating, b)
		res, seen := cache[key]
		if !seen {
			q := e.Query
			if len(correlating) > 0 {
				q = substituteQuery(q, correlating, b)
			}
			sub, err := Compile(q)
			if err != nil {
				return nil, err
			}
			tbl, err := ctx.run(sub.Query)
			if err != nil {
				return nil, err
			}
			val, ok := scalarOf(tbl)
			res = result{val, ok}
			cache[key] = res
		}
		nb := cloneBinding(b)
		if res.ok {
			nb[e.Var] = res.val
		}
		out = append(out, nb)
	}
	return out, nil
}

// correlationKey deterministically encodes b's bindings of vars into a
// map key, so repeated outer rows sharing the same correlating values
// reuse one subquery execution instead of re-running it per row.
func correlationKey(vars map[string]bool, b Binding) string {
	names := sortedVars(vars)
	var buf []byte
	for _, v := range names {
		buf = append(buf, v...)
		buf = append(buf, '=')
		buf = append(buf, b[v]...)
		buf = append(buf, 0)
	}
	return string(buf)
}

func scalarOf(t *reqltable.Table) (string, bool) {
	if len(t.Rows) == 0 || len(t.Rows[0]) == 0 || t.Rows[0][0] == nil {
		return "", false
	}
	return *t.Rows[0][0], true
}

func bindingFromRow(t *reqltable.Table, row reqltable.Row) Binding {
	b := Binding{}
	for i, col := range t.Columns {
		if row[i] != nil {
			b[col] = *row[i]
		}
	}
	return b
}
