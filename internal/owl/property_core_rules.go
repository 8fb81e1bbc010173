package owl

import "github.com/codeine-ai/reter/internal/rete"

// installPropertyCoreRules compiles the property-hierarchy and
// characteristic rules that operate directly on role_assertion facts:
// prp-spo1 (subsumption), prp-trp (transitive), prp-symp (symmetric),
// prp-inv1/prp-inv2 (inverse), and equivalent-property ⇄ mutual
// subsumption (mirroring eq-class, but over properties).
func installPropertyCoreRules(net *rete.Network) {
	// prp-spo1: p ⊑ q, s–p→o  ⟹  s–q→o
	net.CompileProduction(rete.ProductionSpec{
		Name: "prp-spo1",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypePropertySubsumption}, Vars: map[string]string{"sub": "p", "sup": "q"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "s", "role": "p", "object": "o"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeRoleAssertion, Vars: map[string]string{"subject": "s", "role": "q", "object": "o"}},
		}},
	})

	// prp-trp: p transitive, x–p→y, y–p→z  ⟹  x–p→z
	net.CompileProduction(rete.ProductionSpec{
		Name: "prp-trp",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeTransitiveProperty}, Vars: map[string]string{"property": "p"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "x", "role": "p", "object": "y"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "y", "role": "p", "object": "z"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeRoleAssertion, Vars: map[string]string{"subject": "x", "role": "p", "object": "z"}},
		}},
	})

	// prp-symp: p symmetric, x–p→y  ⟹  y–p→x
	net.CompileProduction(rete.ProductionSpec{
		Name: "prp-symp",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeSymmetricProperty}, Vars: map[string]string{"property": "p"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "x", "role": "p", "object": "y"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeRoleAssertion, Vars: map[string]string{"subject": "y", "role": "p", "object": "x"}},
		}},
	})

	// prp-inv1: inverse(p, q), x–p→y  ⟹  y–q→x
	net.CompileProduction(rete.ProductionSpec{
		Name: "prp-inv1",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeInverseProperties}, Vars: map[string]string{"property1": "p", "property2": "q"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "x", "role": "p", "object": "y"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeRoleAssertion, Vars: map[string]string{"subject": "y", "role": "q", "object": "x"}},
		}},
	})

	// prp-inv2: inverse(p, q), x–q→y  ⟹  y–p→x (the symmetric direction of
	// the same axiom fact).
	net.CompileProduction(rete.ProductionSpec{
		Name: "prp-inv2",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeInverseProperties}, Vars: map[string]string{"property1": "p", "property2": "q"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "x", "role": "q", "object": "y"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeRoleAssertion, Vars: map[string]string{"subject": "y", "role": "p", "object": "x"}},
		}},
	})

	// prp-eqp1/prp-eqp2: equivalent_property(p, q) ⟹ p ⊑ q and q ⊑ p, then
	// prp-spo1 carries the equivalence through to role_assertion facts —
	// matching how original_source's own test suite describes this pair
	// ("prp-eqp creates sub_property, then prp-spo1 uses it").
	net.CompileProduction(rete.ProductionSpec{
		Name: "prp-eqp1",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeEquivalentProperty}, Vars: map[string]string{"property1": "p", "property2": "q"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypePropertySubsumption, Vars: map[string]string{"sub": "p", "sup": "q"}},
		}},
	})

	net.CompileProduction(rete.ProductionSpec{
		Name: "prp-eqp2",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeEquivalentProperty}, Vars: map[string]string{"property1": "p", "property2": "q"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypePropertySubsumption, Vars: map[string]string{"sub": "q", "sup": "p"}},
		}},
	})
}
