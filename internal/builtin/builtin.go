// Package builtin implements the closed set of builtin predicates and
// operators spec.md §4.5 defines for join-node filter tests and REQL FILTER
// expressions: numeric/string comparison, string ops, REGEX, Levenshtein
// distance, arithmetic, and BOUND/STR projection. Boolean connectives
// (&&, ||, !) are not here; internal/reql evaluates them itself.
//
// Every WME attribute and token binding in this system is a string, so
// every builtin here operates on strings and coerces internally; coercion
// failure makes a test fail rather than panic or return an error, matching
// spec.md §4.5's "fail, not a runtime error" contract.
package builtin

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParseNumber attempts numeric coercion of s, reporting whether it parsed as
// an integer (so arithmetic between two integral operands can stay integral,
// per spec.md §4.5's `+ - * /` contract).
func ParseNumber(s string) (value float64, isInt bool, ok bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i), true, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, false, true
	}
	return 0, false, false
}

// Equal implements `=`: numeric coercion when both sides parse as numbers,
// falling back to exact string equality otherwise.
func Equal(a, b string) bool {
	if an, _, aok := ParseNumber(a); aok {
		if bn, _, bok := ParseNumber(b); bok {
			return an == bn
		}
	}
	return a == b
}

// NotEqual implements `≠`.
func NotEqual(a, b string) bool { return !Equal(a, b) }

// compare applies op to the numeric coercion of a and b, failing (ok=false)
// if either side isn't numeric — spec.md §4.5: "fail if either side not
// coercible."
func compare(a, b string, op func(x, y float64) bool) (result bool, ok bool) {
	an, _, aok := ParseNumber(a)
	if !aok {
		return false, false
	}
	bn, _, bok := ParseNumber(b)
	if !bok {
		return false, false
	}
	return op(an, bn), true
}

// LessThan implements `<`.
func LessThan(a, b string) (bool, bool) { return compare(a, b, func(x, y float64) bool { return x < y }) }

// LessOrEqual implements `≤`.
func LessOrEqual(a, b string) (bool, bool) {
	return compare(a, b, func(x, y float64) bool { return x <= y })
}

// GreaterThan implements `>`.
func GreaterThan(a, b string) (bool, bool) {
	return compare(a, b, func(x, y float64) bool { return x > y })
}

// GreaterOrEqual implements `≥`.
func GreaterOrEqual(a, b string) (bool, bool) {
	return compare(a, b, func(x, y float64) bool { return x >= y })
}

// formatNumber renders a numeric result the way spec.md §4.5 requires:
// integral formatting when the computation stayed integral, real (decimal)
// otherwise.
func formatNumber(v float64, isInt bool) string {
	if isInt {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func arith(a, b string, intOp func(x, y int64) int64, floatOp func(x, y float64) float64) (string, bool) {
	an, aInt, aok := ParseNumber(a)
	if !aok {
		return "", false
	}
	bn, bInt, bok := ParseNumber(b)
	if !bok {
		return "", false
	}
	if aInt && bInt {
		return formatNumber(float64(intOp(int64(an), int64(bn))), true), true
	}
	return formatNumber(floatOp(an, bn), false), true
}

// Add implements `+`.
func Add(a, b string) (string, bool) {
	return arith(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
}

// Sub implements `-`.
func Sub(a, b string) (string, bool) {
	return arith(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })
}

// Mul implements `*`.
func Mul(a, b string) (string, bool) {
	return arith(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })
}

// Div implements `/`. Division by zero fails the test rather than panicking,
// consistent with the coercion-failure contract.
func Div(a, b string) (string, bool) {
	an, aInt, aok := ParseNumber(a)
	if !aok {
		return "", false
	}
	bn, bInt, bok := ParseNumber(b)
	if !bok || bn == 0 {
		return "", false
	}
	if aInt && bInt && int64(an)%int64(bn) == 0 {
		return formatNumber(float64(int64(an)/int64(bn)), true), true
	}
	return formatNumber(an/bn, false), true
}

// Contains implements `CONTAINS(s, sub)`.
func Contains(s, sub string) bool { return strings.Contains(s, sub) }

// StrStarts implements `STRSTARTS(s, pre)`.
func StrStarts(s, pre string) bool { return strings.HasPrefix(s, pre) }

// StrEnds implements `STRENDS(s, suf)`.
func StrEnds(s, suf string) bool { return strings.HasSuffix(s, suf) }

// Regex implements `REGEX(s, pat)`: match-anywhere, no implicit anchors
// (spec.md §4.5). An invalid pattern is a coercion-style failure, not a
// caller-visible error, since REQL FILTER expressions must fail closed.
func Regex(s, pattern string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

// Levenshtein implements `LEVENSHTEIN(a, b)`: classic O(len(a)*len(b))
// dynamic-programming edit distance over runes (not bytes, so multi-byte
// characters count as single edits).
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// Bound implements `BOUND(?v)`: true iff variable has an entry in bindings,
// distinguishing "bound to empty string" from "not bound at all" — needed
// for OPTIONAL semantics where unmatched variables are absent, not empty.
func Bound(bindings map[string]string, variable string) bool {
	_, ok := bindings[variable]
	return ok
}

// Str implements `STR(?v)`: identity projection at this layer, since every
// binding is already a string; the function exists so REQL's expression
// grammar has a name to dispatch to.
func Str(v string) string { return v }

// Func is the uniform calling convention the REQL expression evaluator
// dispatches through: variadic string arguments in, a string result and an
// ok flag out. Predicates that naturally return bool encode it as "true"/
// "false"; arithmetic and STR return their natural string form.
type Func func(args []string) (result string, ok bool)

// Table is the name-indexed builtin registry REQL's planner/evaluator looks
// functions up in by the literal REQL syntax name.
var Table = map[string]Func{
	"=":           binaryBool(Equal),
	"!=":          binaryBool(NotEqual),
	"<":           binaryBoolOK(LessThan),
	"<=":          binaryBoolOK(LessOrEqual),
	">":           binaryBoolOK(GreaterThan),
	">=":          binaryBoolOK(GreaterOrEqual),
	"+":           binaryStr(Add),
	"-":           binaryStr(Sub),
	"*":           binaryStr(Mul),
	"/":           binaryStr(Div),
	"CONTAINS":    binaryBool(Contains),
	"STRSTARTS":   binaryBool(StrStarts),
	"STRENDS":     binaryBool(StrEnds),
	"REGEX":       binaryBool(Regex),
	"LEVENSHTEIN": binaryLevenshtein,
	"STR":         unaryStr(Str),
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func binaryBool(f func(a, b string) bool) Func {
	return func(args []string) (string, bool) {
		if len(args) != 2 {
			return "", false
		}
		return boolString(f(args[0], args[1])), true
	}
}

func binaryBoolOK(f func(a, b string) (bool, bool)) Func {
	return func(args []string) (string, bool) {
		if len(args) != 2 {
			return "", false
		}
		result, ok := f(args[0], args[1])
		if !ok {
			return "", false
		}
		return boolString(result), true
	}
}

func binaryStr(f func(a, b string) (string, bool)) Func {
	return func(args []string) (string, bool) {
		if len(args) != 2 {
			return "", false
		}
		return f(args[0], args[1])
	}
}

func unaryStr(f func(a string) string) Func {
	return func(args []string) (string, bool) {
		if len(args) != 1 {
			return "", false
		}
		return f(args[0]), true
	}
}

func binaryLevenshtein(args []string) (string, bool) {
	if len(args) != 2 {
		return "", false
	}
	return strconv.Itoa(Levenshtein(args[0], args[1])), true
}

// Describe renders a builtin call in a log/diagnostic-friendly form,
// e.g. Describe("CONTAINS", []string{"a", "b"}) is "CONTAINS(a, b)".
func Describe(name string, args []string) string {
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
}
