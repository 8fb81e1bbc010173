package owl

import "github.com/codeine-ai/reter/internal/rete"

// installClassRules compiles scm-sco (subclass transitivity), cax-sco
// (instance propagation up the hierarchy), and class equivalence ⇄ mutual
// subsumption (spec.md §4.4's "Class equivalence ⇄ mutual subsumption").
//
// Each rule reuses the same variable name across both pattern steps for
// the attribute that must agree between them (e.g. "y" is both the first
// step's sup and the second step's sub); rete.CompileProduction detects
// that reuse as a shared join variable and builds a hash-indexed join on
// it instead of falling back to a Cartesian scan.
func installClassRules(net *rete.Network) {
	net.CompileProduction(rete.ProductionSpec{
		Name: "scm-sco",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeSubsumption}, Vars: map[string]string{"sub": "x", "sup": "y"}},
			{Constraints: map[string]string{"type": TypeSubsumption}, Vars: map[string]string{"sub": "y", "sup": "z"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeSubsumption, Vars: map[string]string{"sub": "x", "sup": "z"}},
		}},
	})

	net.CompileProduction(rete.ProductionSpec{
		Name: "cax-sco",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeInstanceOf}, Vars: map[string]string{"individual": "i", "concept": "c"}},
			{Constraints: map[string]string{"type": TypeSubsumption}, Vars: map[string]string{"sub": "c", "sup": "d"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeInstanceOf, Vars: map[string]string{"individual": "i", "concept": "d"}},
		}},
	})

	net.CompileProduction(rete.ProductionSpec{
		Name: "eq-class-fwd",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeEquivalence}, Vars: map[string]string{"concept1": "a", "concept2": "b"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeSubsumption, Vars: map[string]string{"sub": "a", "sup": "b"}},
		}},
	})

	net.CompileProduction(rete.ProductionSpec{
		Name: "eq-class-rev",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeEquivalence}, Vars: map[string]string{"concept1": "a", "concept2": "b"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeSubsumption, Vars: map[string]string{"sub": "b", "sup": "a"}},
		}},
	})
}
