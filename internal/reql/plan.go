package reql

import (
	"fmt"
	"sort"
)

// Plan is a compiled, validated Query ready for execution. There is no
// separate join-tree intermediate representation: REQL queries are
// one-shot snapshots rather than persistent productions, so the executor
// walks the AST directly against a fresh net.AllFacts() snapshot instead
// of registering alpha memories the way a standing production would (see
// DESIGN.md).
type Plan struct {
	Query *Query
}

// Compile validates q: every projected variable (SELECT or ORDER BY or
// GROUP BY) must actually appear somewhere reachable in WHERE, matching
// spec.md §7's "undefined variable in projection" compile failure.
func Compile(q *Query) (*Plan, error) {
	vars := collectPatternVars(q.Where)
	if !q.Star {
		for _, s := range q.Select {
			if s.Var != "" && !vars[s.Var] {
				return nil, fmt.Errorf("%w: select variable ?%s is not bound in WHERE", ErrCompile, s.Var)
			}
		}
	}
	// ORDER BY may additionally reference a SELECT alias (an aggregate or
	// computed column), which never appears as a WHERE-bound variable.
	orderAllowed := make(map[string]bool, len(vars))
	for v := range vars {
		orderAllowed[v] = true
	}
	for _, s := range q.Select {
		if s.Alias != "" {
			orderAllowed[s.Alias] = true
		}
	}
	for _, o := range q.OrderBy {
		if !orderAllowed[o.Var] {
			return nil, fmt.Errorf("%w: order by variable ?%s is not bound in WHERE", ErrCompile, o.Var)
		}
	}
	for _, g := range q.GroupBy {
		if !vars[g] {
			return nil, fmt.Errorf("%w: group by variable ?%s is not bound in WHERE", ErrCompile, g)
		}
	}
	return &Plan{Query: q}, nil
}

// collectPatternVars returns every variable a WHERE pattern binds that is
// visible outside its own scope. NOT EXISTS's own pattern variables are
// deliberately excluded -- they never escape into the surrounding result
// schema (spec.md §8 scenario 5).
func collectPatternVars(ggp GroupGraphPattern) map[string]bool {
	out := map[string]bool{}
	var walk func(GroupGraphPattern)
	walk = func(g GroupGraphPattern) {
		for _, el := range g.Elements {
			switch e := el.(type) {
			case TripleElement:
				for _, t := range []Term{e.Triple.Subject, e.Triple.Predicate, e.Triple.Object} {
					if t.Kind == TermVar {
						out[t.Value] = true
					}
				}
			case UnionElement:
				walk(e.Left)
				walk(e.Right)
			case OptionalElement:
				walk(e.Pattern)
			case MinusElement:
				walk(e.Pattern)
			case NotExistsElement:
				// intentionally not walked: scoped out of the result schema
			case ValuesElement:
				out[e.Var] = true
			case SubqueryElement:
				out[e.Var] = true
			}
		}
	}
	walk(ggp)
	return out
}

// collectReferencedVars returns every variable mentioned anywhere in a
// pattern -- triple subjects/predicates/objects, FILTER expressions
// (including builtin-call arguments), VALUES, and nested subqueries --
// regardless of whether the pattern also binds that name itself. A
// subquery that reuses an enclosing query's variable name in one of its
// own triples is exactly how REQL expresses correlation (spec.md §4.6,
// §9), so "mentioned" deliberately does not distinguish "mentioned and
// also locally bound" from "mentioned but free": whichever names turn
// out to already be bound in the enclosing row's binding are the
// correlating ones (see evalSubquery).
func collectReferencedVars(ggp GroupGraphPattern) map[string]bool {
	out := map[string]bool{}
	var walkExpr func(Expr)
	walkExpr = func(e Expr) {
		switch v := e.(type) {
		case VarExpr:
			out[v.Name] = true
		case BinaryExpr:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case UnaryExpr:
			walkExpr(v.Operand)
		case CallExpr:
			for _, a := range v.Args {
				walkExpr(a)
			}
		}
	}
	var walk func(GroupGraphPattern)
	walk = func(g GroupGraphPattern) {
		for _, el := range g.Elements {
			switch e := el.(type) {
			case TripleElement:
				for _, t := range []Term{e.Triple.Subject, e.Triple.Predicate, e.Triple.Object} {
					if t.Kind == TermVar {
						out[t.Value] = true
					}
				}
			case UnionElement:
				walk(e.Left)
				walk(e.Right)
			case OptionalElement:
				walk(e.Pattern)
			case MinusElement:
				walk(e.Pattern)
			case NotExistsElement:
				walk(e.Pattern)
			case FilterElement:
				walkExpr(e.Expr)
			case ValuesElement:
				out[e.Var] = true
			case SubqueryElement:
				out[e.Var] = true
				for v := range collectReferencedVars(e.Query.Where) {
					out[v] = true
				}
			}
		}
	}
	walk(ggp)
	return out
}

// substituteQuery returns a copy of q with every reference to a variable
// in vars replaced by its value in b -- a triple-pattern Term becomes a
// TermConst, a FILTER's VarExpr becomes a LitExpr. Used to specialize a
// correlated subquery's AST to one outer binding before compiling it, so
// the existing Compile/Execute path needs no separate notion of
// "inherited bindings".
func substituteQuery(q *Query, vars map[string]bool, b Binding) *Query {
	nq := *q
	nq.Where = substituteGGP(q.Where, vars, b)
	if q.Having != nil {
		nq.Having = substituteExpr(q.Having, vars, b)
	}
	nq.Select = make([]SelectTerm, len(q.Select))
	for i, s := range q.Select {
		ns := s
		if s.Expr != nil {
			ns.Expr = substituteExpr(s.Expr, vars, b)
		}
		nq.Select[i] = ns
	}
	return &nq
}

func substituteGGP(g GroupGraphPattern, vars map[string]bool, b Binding) GroupGraphPattern {
	ng := GroupGraphPattern{Elements: make([]PatternElement, len(g.Elements))}
	for i, el := range g.Elements {
		switch e := el.(type) {
		case TripleElement:
			nt := e.Triple
			nt.Subject = substituteTerm(nt.Subject, vars, b)
			nt.Predicate = substituteTerm(nt.Predicate, vars, b)
			nt.Object = substituteTerm(nt.Object, vars, b)
			ng.Elements[i] = TripleElement{Triple: nt}
		case UnionElement:
			ng.Elements[i] = UnionElement{
				Left:  substituteGGP(e.Left, vars, b),
				Right: substituteGGP(e.Right, vars, b),
			}
		case OptionalElement:
			ng.Elements[i] = OptionalElement{Pattern: substituteGGP(e.Pattern, vars, b)}
		case MinusElement:
			ng.Elements[i] = MinusElement{Pattern: substituteGGP(e.Pattern, vars, b)}
		case NotExistsElement:
			ng.Elements[i] = NotExistsElement{Pattern: substituteGGP(e.Pattern, vars, b)}
		case FilterElement:
			ng.Elements[i] = FilterElement{Expr: substituteExpr(e.Expr, vars, b)}
		case SubqueryElement:
			ng.Elements[i] = SubqueryElement{Query: substituteQuery(e.Query, vars, b), Var: e.Var}
		default:
			ng.Elements[i] = el
		}
	}
	return ng
}

func substituteTerm(t Term, vars map[string]bool, b Binding) Term {
	if t.Kind == TermVar && vars[t.Value] {
		if val, ok := b[t.Value]; ok {
			return Term{Kind: TermConst, Value: val}
		}
	}
	return t
}

func substituteExpr(e Expr, vars map[string]bool, b Binding) Expr {
	switch v := e.(type) {
	case VarExpr:
		if vars[v.Name] {
			if val, ok := b[v.Name]; ok {
				return LitExpr{Value: val}
			}
		}
		return v
	case BinaryExpr:
		return BinaryExpr{Op: v.Op, Left: substituteExpr(v.Left, vars, b), Right: substituteExpr(v.Right, vars, b)}
	case UnaryExpr:
		return UnaryExpr{Op: v.Op, Operand: substituteExpr(v.Operand, vars, b)}
	case CallExpr:
		args := make([]Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = substituteExpr(a, vars, b)
		}
		return CallExpr{Func: v.Func, Args: args}
	default:
		return e
	}
}

func sortedVars(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
