package beta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeine-ai/reter/internal/wme"
)

func TestJoinNodeCombinesOnSharedVariable(t *testing.T) {
	left := NewMemory()
	root := Root()
	parentTok := root.Extend(
		wme.New(map[string]string{"type": "role_assertion", "subject": "Alice", "role": "hasParent", "object": "Bob"}),
		map[string]string{"x": "Alice", "y": "Bob"},
	)
	left.Add(parentTok)

	pattern := Pattern{
		Literals: map[string]string{"type": "role_assertion", "role": "hasParent"},
		Vars:     map[string]string{"subject": "y", "object": "z"},
	}
	j := NewJoinNode(left, pattern, []string{"y"})

	var fired []*Token
	j.OnToken(func(tok *Token) { fired = append(fired, tok) })

	for _, tok := range left.All() {
		j.LeftActivate(tok)
	}
	j.RightActivate(wme.New(map[string]string{"type": "role_assertion", "subject": "Bob", "role": "hasParent", "object": "Charlie"}))

	require.Len(t, fired, 1)
	z, ok := fired[0].Get("z")
	require.True(t, ok)
	assert.Equal(t, "Charlie", z)
}

func TestJoinNodeRejectsInconsistentBindings(t *testing.T) {
	left := NewMemory()
	root := Root()
	left.Add(root.Extend(wme.New(map[string]string{"type": "a"}), map[string]string{"y": "Bob"}))

	pattern := Pattern{Vars: map[string]string{"subject": "y"}}
	j := NewJoinNode(left, pattern, []string{"y"})
	var fired int
	j.OnToken(func(*Token) { fired++ })

	for _, tok := range left.All() {
		j.LeftActivate(tok)
	}
	j.RightActivate(wme.New(map[string]string{"type": "b", "subject": "NotBob"}))
	assert.Zero(t, fired)
}

func TestJoinNodeDeduplicatesTokensByParentAndRightWME(t *testing.T) {
	left := NewMemory()
	root := Root()
	tokA := root.Extend(wme.New(map[string]string{"type": "a", "v": "1"}), map[string]string{"x": "1"})
	left.Add(tokA)

	pattern := Pattern{Vars: map[string]string{"v": "x"}, Literals: map[string]string{"type": "a"}}
	j := NewJoinNode(left, pattern, []string{"x"})

	right := wme.New(map[string]string{"type": "a", "v": "1"})
	j.LeftActivate(tokA)
	// Simulate the same right WME reaching this join twice via two alias
	// paths: RightActivate should only produce one stored token.
	j.RightActivate(right)
	j.RightActivate(right)

	assert.Equal(t, 1, j.Out.Len())
}

func TestRightDeactivateRetractsDownstreamTokens(t *testing.T) {
	left := NewMemory()
	root := Root()
	tok := root.Extend(wme.New(map[string]string{"type": "a", "v": "1"}), map[string]string{"x": "1"})
	left.Add(tok)

	pattern := Pattern{Vars: map[string]string{"v": "x"}, Literals: map[string]string{"type": "a"}}
	j := NewJoinNode(left, pattern, []string{"x"})
	j.LeftActivate(tok)

	right := wme.New(map[string]string{"type": "a", "v": "1"})
	j.RightActivate(right)
	require.Equal(t, 1, j.Out.Len())

	j.RightDeactivate(right)
	assert.Zero(t, j.Out.Len())
}

func TestCartesianFallbackWithNoJoinVars(t *testing.T) {
	left := NewMemory()
	root := Root()
	left.Add(root.Extend(wme.New(map[string]string{"type": "a", "id": "1"}), map[string]string{}))
	left.Add(root.Extend(wme.New(map[string]string{"type": "a", "id": "2"}), map[string]string{}))

	pattern := Pattern{Literals: map[string]string{"type": "b"}}
	j := NewJoinNode(left, pattern, nil)
	var fired int
	j.OnToken(func(*Token) { fired++ })

	for _, tok := range left.All() {
		j.LeftActivate(tok)
	}
	j.RightActivate(wme.New(map[string]string{"type": "b"}))
	assert.Equal(t, 2, fired)
}

func TestBuiltinTestFiltersToken(t *testing.T) {
	left := NewMemory()
	left.Add(Root())

	pattern := Pattern{Vars: map[string]string{"n": "n"}, Literals: map[string]string{"type": "num"}}
	j := NewJoinNode(left, pattern, nil, func(b map[string]string) bool {
		return b["n"] == "42"
	})
	var fired int
	j.OnToken(func(*Token) { fired++ })
	for _, tok := range left.All() {
		j.LeftActivate(tok)
	}
	j.RightActivate(wme.New(map[string]string{"type": "num", "n": "1"}))
	j.RightActivate(wme.New(map[string]string{"type": "num", "n": "42"}))
	assert.Equal(t, 1, fired)
}
