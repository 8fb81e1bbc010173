package reql

import (
	"strconv"
	"strings"

	"github.com/codeine-ai/reter/internal/builtin"
)

// evalBool evaluates expr as a FILTER/HAVING boolean. Any operand that
// fails to resolve (an unbound variable, a malformed builtin call) makes
// the whole expression false rather than erroring the query, mirroring
// SPARQL's error-as-unsatisfied FILTER semantics.
func (ctx *execContext) evalBool(expr Expr, b Binding) bool {
	switch e := expr.(type) {
	case BinaryExpr:
		switch e.Op {
		case "&&":
			return ctx.evalBool(e.Left, b) && ctx.evalBool(e.Right, b)
		case "||":
			return ctx.evalBool(e.Left, b) || ctx.evalBool(e.Right, b)
		case "=", "!=", "<", "<=", ">", ">=":
			lv, lok := ctx.evalScalar(e.Left, b)
			rv, rok := ctx.evalScalar(e.Right, b)
			if !lok || !rok {
				return false
			}
			fn, ok := builtin.Table[e.Op]
			if !ok {
				return false
			}
			v, ok := fn([]string{lv, rv})
			return ok && v == "true"
		}
		return false
	case UnaryExpr:
		if e.Op == "!" {
			return !ctx.evalBool(e.Operand, b)
		}
		return false
	case CallExpr:
		v, ok := ctx.evalCall(e, b)
		return ok && v == "true"
	case VarExpr:
		v, ok := b[e.Name]
		return ok && v != "" && v != "false"
	case LitExpr:
		return e.Value != "" && e.Value != "false"
	}
	return false
}

// evalScalar resolves expr to its string value under b. ok is false when
// expr references an unbound variable or a builtin call could not
// produce a value. Arithmetic and comparison both dispatch through
// internal/builtin.Table, the same registry join-node filter tests use,
// so REQL and the RETE network agree on numeric coercion and formatting.
func (ctx *execContext) evalScalar(expr Expr, b Binding) (string, bool) {
	switch e := expr.(type) {
	case VarExpr:
		v, ok := b[e.Name]
		return v, ok
	case LitExpr:
		return e.Value, true
	case BinaryExpr:
		lv, lok := ctx.evalScalar(e.Left, b)
		rv, rok := ctx.evalScalar(e.Right, b)
		if !lok || !rok {
			return "", false
		}
		fn, ok := builtin.Table[e.Op]
		if !ok {
			return "", false
		}
		return fn([]string{lv, rv})
	case UnaryExpr:
		if e.Op != "-" {
			return "", false
		}
		v, ok := ctx.evalScalar(e.Operand, b)
		if !ok {
			return "", false
		}
		return builtin.Table["-"]([]string{"0", v})
	case CallExpr:
		return ctx.evalCall(e, b)
	}
	return "", false
}

// evalCall dispatches a FILTER builtin. BOUND is special-cased ahead of
// argument evaluation since its whole point is to observe an unbound
// variable without that being a failure, and needs the raw binding map
// rather than an evaluated argument list. UCASE/LCASE/STRLEN are REQL
// conveniences outside spec.md §4.5's closed builtin set, so they stay
// local rather than living in internal/builtin's registry.
func (ctx *execContext) evalCall(e CallExpr, b Binding) (string, bool) {
	fn := strings.ToUpper(e.Func)

	if fn == "BOUND" {
		if len(e.Args) != 1 {
			return "", false
		}
		ve, ok := e.Args[0].(VarExpr)
		if !ok {
			return "", false
		}
		return boolStr(builtin.Bound(b, ve.Name)), true
	}

	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		v, ok := ctx.evalScalar(a, b)
		if !ok {
			return "", false
		}
		args[i] = v
	}

	switch fn {
	case "UCASE":
		if len(args) != 1 {
			return "", false
		}
		return strings.ToUpper(args[0]), true
	case "LCASE":
		if len(args) != 1 {
			return "", false
		}
		return strings.ToLower(args[0]), true
	case "STRLEN":
		if len(args) != 1 {
			return "", false
		}
		return strconv.Itoa(len([]rune(args[0]))), true
	}

	if impl, ok := builtin.Table[fn]; ok {
		return impl(args)
	}
	return "", false
}

func boolStr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
