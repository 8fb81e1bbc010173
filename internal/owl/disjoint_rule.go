package owl

import "github.com/codeine-ai/reter/internal/rete"

// installDisjointRule compiles cls-dis (two classes declared disjoint
// sharing a common instance is a contradiction) and eq-diff (an individual
// declared same_as and different_from the same other individual is a
// contradiction too — spec.md §6.1 lists same_as/different_from as a pair,
// but only cls-dis is named in spec.md §4.4's mandatory list; eq-diff
// supplements it so different_from isn't a purely inert ingestable type).
func installDisjointRule(net *rete.Network) {
	net.CompileProduction(rete.ProductionSpec{
		Name: "cls-dis",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeDisjointClasses}, Vars: map[string]string{"class1": "c1", "class2": "c2"}},
			{Constraints: map[string]string{"type": TypeInstanceOf}, Vars: map[string]string{"individual": "x", "concept": "c1"}},
			{Constraints: map[string]string{"type": TypeInstanceOf}, Vars: map[string]string{"individual": "x", "concept": "c2"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeInconsistency, Literals: map[string]string{"rule": "cls-dis", "message": "individual belongs to two disjoint classes"},
				Vars: map[string]string{"individual": "x", "class1": "c1", "class2": "c2"}},
		}},
	})

	net.CompileProduction(rete.ProductionSpec{
		Name: "eq-diff",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeSameAs}, Vars: map[string]string{"ind1": "x", "ind2": "y"}},
			{Constraints: map[string]string{"type": TypeDifferentFrom}, Vars: map[string]string{"ind1": "x", "ind2": "y"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeInconsistency, Literals: map[string]string{"rule": "eq-diff", "message": "individuals asserted both same_as and different_from each other"},
				Vars: map[string]string{"individual": "x", "class1": "y"}},
		}},
	})
}
