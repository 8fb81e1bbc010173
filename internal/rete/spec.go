package rete

import "github.com/codeine-ai/reter/internal/beta"

// PatternSpec is one step of a rule's left-hand side: an alpha-memory
// constraint set (literal attribute/value pairs, including "type"), the
// attributes this step binds to variables, and any builtin tests to
// evaluate once this step's join succeeds (spec.md §4.3: tests run after
// the join, before the token is stored).
type PatternSpec struct {
	Constraints map[string]string
	Vars        map[string]string
	Tests       []beta.BuiltinTest
}

// AssertSpec describes one new fact a production's right-hand side
// asserts, substituting the firing token's bindings into Vars.
type AssertSpec struct {
	Type     string
	Literals map[string]string
	Vars     map[string]string // attr -> variable name, substituted from bindings
}

// TemplateFunc is a meta-rule's right-hand side: instead of asserting a
// fact it installs a new, specialized production into the network using
// the firing token's bindings (spec.md §4.4).
type TemplateFunc func(net *Network, bindings map[string]string)

// RHS is a production's right-hand side: exactly one of Assert or
// Template should be set.
type RHS struct {
	Assert   []AssertSpec
	Template TemplateFunc
}

// ProductionSpec fully describes a rule: its name, ordered LHS patterns,
// and RHS. internal/owl builds these for the mandatory OWL 2 RL rules;
// callers may also register their own SWRL-style rules with the same
// shape.
type ProductionSpec struct {
	Name    string
	Pattern []PatternSpec
	RHS     RHS
}
