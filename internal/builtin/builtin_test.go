package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualNumericCoercion(t *testing.T) {
	assert.True(t, Equal("1", "1.0"))
	assert.True(t, Equal("03", "3"))
	assert.False(t, Equal("abc", "abd"))
	assert.True(t, Equal("abc", "abc"))
}

func TestNotEqual(t *testing.T) {
	assert.True(t, NotEqual("a", "b"))
	assert.False(t, NotEqual("1", "1"))
}

func TestComparisonsFailOnNonNumeric(t *testing.T) {
	_, ok := LessThan("abc", "3")
	assert.False(t, ok)

	result, ok := LessThan("2", "3")
	assert.True(t, ok)
	assert.True(t, result)
}

func TestComparisonOperators(t *testing.T) {
	cases := []struct {
		name   string
		fn     func(a, b string) (bool, bool)
		a, b   string
		want   bool
	}{
		{"lt true", LessThan, "2", "3", true},
		{"lt false", LessThan, "3", "2", false},
		{"le equal", LessOrEqual, "3", "3", true},
		{"gt true", GreaterThan, "5", "3", true},
		{"ge equal", GreaterOrEqual, "3", "3", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := c.fn(c.a, c.b)
			assert.True(t, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestArithmeticStaysIntegralWhenBothOperandsAre(t *testing.T) {
	sum, ok := Add("2", "3")
	assert.True(t, ok)
	assert.Equal(t, "5", sum)

	diff, ok := Sub("10", "4")
	assert.True(t, ok)
	assert.Equal(t, "6", diff)

	prod, ok := Mul("4", "5")
	assert.True(t, ok)
	assert.Equal(t, "20", prod)
}

func TestArithmeticGoesRealWhenEitherOperandIsReal(t *testing.T) {
	sum, ok := Add("2", "3.5")
	assert.True(t, ok)
	assert.Equal(t, "5.5", sum)
}

func TestDivisionByZeroFails(t *testing.T) {
	_, ok := Div("1", "0")
	assert.False(t, ok)
}

func TestDivisionExactIntegerStaysIntegral(t *testing.T) {
	q, ok := Div("10", "2")
	assert.True(t, ok)
	assert.Equal(t, "5", q)
}

func TestDivisionInexactGoesReal(t *testing.T) {
	q, ok := Div("7", "2")
	assert.True(t, ok)
	assert.Equal(t, "3.5", q)
}

func TestStringOps(t *testing.T) {
	assert.True(t, Contains("hello world", "wor"))
	assert.False(t, Contains("hello world", "xyz"))
	assert.True(t, StrStarts("hello", "he"))
	assert.True(t, StrEnds("hello", "lo"))
	assert.False(t, StrStarts("hello", "lo"))
}

func TestRegexMatchesAnywhereWithoutImplicitAnchors(t *testing.T) {
	assert.True(t, Regex("fooBarBaz", "Bar"))
	assert.False(t, Regex("fooBarBaz", "^Bar$"))
	assert.True(t, Regex("abc123", `\d+`))
}

func TestRegexInvalidPatternFailsClosed(t *testing.T) {
	assert.False(t, Regex("abc", "("))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, Levenshtein("same", "same"))
	assert.Equal(t, 1, Levenshtein("cat", "cats"))
	assert.Equal(t, 3, Levenshtein("kitten", "sitting"))
	assert.Equal(t, 3, Levenshtein("", "abc"))
}

func TestBoundDistinguishesAbsentFromEmptyString(t *testing.T) {
	bindings := map[string]string{"x": ""}
	assert.True(t, Bound(bindings, "x"))
	assert.False(t, Bound(bindings, "y"))
}

func TestTableDispatchByName(t *testing.T) {
	fn, ok := Table["CONTAINS"]
	assert.True(t, ok)
	result, ok := fn([]string{"hello", "ell"})
	assert.True(t, ok)
	assert.Equal(t, "true", result)

	fn = Table["LEVENSHTEIN"]
	result, ok = fn([]string{"kitten", "sitting"})
	assert.True(t, ok)
	assert.Equal(t, "3", result)

	fn = Table["+"]
	result, ok = fn([]string{"2", "3"})
	assert.True(t, ok)
	assert.Equal(t, "5", result)
}

func TestTableWrongArityFails(t *testing.T) {
	fn := Table["CONTAINS"]
	_, ok := fn([]string{"only-one"})
	assert.False(t, ok)
}
