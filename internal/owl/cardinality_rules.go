package owl

import (
	"github.com/codeine-ai/reter/internal/beta"
	"github.com/codeine-ai/reter/internal/rete"
)

// installCardinalityRules compiles the four max-cardinality rules:
// unqualified cardinality 0/1 over max_cardinality facts (cls-maxc0,
// cls-maxc1) and their class-qualified counterparts over
// max_qualified_cardinality facts (cls-maxqc0, cls-maxqc1), which add an
// extra instance_of join against the restriction's on_class filler before
// counting.
func installCardinalityRules(net *rete.Network) {
	// cls-maxc0: maxCardinality(on_property=p, 0, restriction_class=c),
	// x:c, x–p→y  ⟹  inconsistency (the class forbids any p-successor at
	// all).
	net.CompileProduction(rete.ProductionSpec{
		Name: "cls-maxc0",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeMaxCardinality, "cardinality": "0"}, Vars: map[string]string{"on_property": "p", "restriction_class": "c"}},
			{Constraints: map[string]string{"type": TypeInstanceOf}, Vars: map[string]string{"individual": "x", "concept": "c"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "x", "role": "p", "object": "y"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeInconsistency, Literals: map[string]string{"rule": "cls-maxc0", "message": "individual has a successor on a property with max cardinality 0"}, Vars: map[string]string{"individual": "x", "class1": "c"}},
		}},
	})

	// cls-maxc1: maxCardinality(p, 1, c), x:c, x–p→y1, x–p→y2, y1≠y2
	//   ⟹  same_as(y1, y2)
	net.CompileProduction(rete.ProductionSpec{
		Name: "cls-maxc1",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeMaxCardinality, "cardinality": "1"}, Vars: map[string]string{"on_property": "p", "restriction_class": "c"}},
			{Constraints: map[string]string{"type": TypeInstanceOf}, Vars: map[string]string{"individual": "x", "concept": "c"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "x", "role": "p", "object": "y1"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "x", "role": "p", "object": "y2"},
				Tests: []beta.BuiltinTest{neqTest("y2", "y1")}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeSameAs, Vars: map[string]string{"ind1": "y1", "ind2": "y2"}},
		}},
	})

	// cls-maxqc0: maxQualifiedCardinality(p, 0, c, on_class=d), x:c, x–p→y,
	// y:d  ⟹  inconsistency
	net.CompileProduction(rete.ProductionSpec{
		Name: "cls-maxqc0",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeMaxQualifiedCardinality, "cardinality": "0"}, Vars: map[string]string{"on_property": "p", "restriction_class": "c", "on_class": "d"}},
			{Constraints: map[string]string{"type": TypeInstanceOf}, Vars: map[string]string{"individual": "x", "concept": "c"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "x", "role": "p", "object": "y"}},
			{Constraints: map[string]string{"type": TypeInstanceOf}, Vars: map[string]string{"individual": "y", "concept": "d"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeInconsistency, Literals: map[string]string{"rule": "cls-maxqc0", "message": "individual has a qualified successor on a property with max qualified cardinality 0"}, Vars: map[string]string{"individual": "x", "class1": "c"}},
		}},
	})

	// cls-maxqc1: maxQualifiedCardinality(p, 1, c, on_class=d), x:c, x–p→y1,
	// y1:d, x–p→y2, y2:d, y1≠y2  ⟹  same_as(y1, y2)
	net.CompileProduction(rete.ProductionSpec{
		Name: "cls-maxqc1",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeMaxQualifiedCardinality, "cardinality": "1"}, Vars: map[string]string{"on_property": "p", "restriction_class": "c", "on_class": "d"}},
			{Constraints: map[string]string{"type": TypeInstanceOf}, Vars: map[string]string{"individual": "x", "concept": "c"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "x", "role": "p", "object": "y1"}},
			{Constraints: map[string]string{"type": TypeInstanceOf}, Vars: map[string]string{"individual": "y1", "concept": "d"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "x", "role": "p", "object": "y2"},
				Tests: []beta.BuiltinTest{neqTest("y2", "y1")}},
			{Constraints: map[string]string{"type": TypeInstanceOf}, Vars: map[string]string{"individual": "y2", "concept": "d"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeSameAs, Vars: map[string]string{"ind1": "y1", "ind2": "y2"}},
		}},
	})
}
