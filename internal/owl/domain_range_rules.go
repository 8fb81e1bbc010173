package owl

import "github.com/codeine-ai/reter/internal/rete"

// installDomainRangeRules compiles the domain/range inference rules: the
// direct rules that type an assertion's subject/object from its property's
// declared domain/range (prp-dom, prp-rng), and the schema-level rules that
// propagate a domain/range declaration up the class hierarchy and down the
// property hierarchy (scm-dom1/scm-dom2, scm-rng1/scm-rng2).
func installDomainRangeRules(net *rete.Network) {
	// prp-dom: domain(p, c), s–p→o  ⟹  instance_of(s, c)
	net.CompileProduction(rete.ProductionSpec{
		Name: "prp-dom",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypePropertyDomain}, Vars: map[string]string{"property": "p", "domain": "c"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "s", "role": "p", "object": "o"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeInstanceOf, Vars: map[string]string{"individual": "s", "concept": "c"}},
		}},
	})

	// prp-rng: range(p, c), s–p→o  ⟹  instance_of(o, c)
	net.CompileProduction(rete.ProductionSpec{
		Name: "prp-rng",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypePropertyRange}, Vars: map[string]string{"property": "p", "range": "c"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "s", "role": "p", "object": "o"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeInstanceOf, Vars: map[string]string{"individual": "o", "concept": "c"}},
		}},
	})

	// scm-dom1: domain(p, c1), c1 ⊑ c2  ⟹  domain(p, c2)
	net.CompileProduction(rete.ProductionSpec{
		Name: "scm-dom1",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypePropertyDomain}, Vars: map[string]string{"property": "p", "domain": "c1"}},
			{Constraints: map[string]string{"type": TypeSubsumption}, Vars: map[string]string{"sub": "c1", "sup": "c2"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypePropertyDomain, Vars: map[string]string{"property": "p", "domain": "c2"}},
		}},
	})

	// scm-dom2: p1 ⊑ p2, domain(p2, c)  ⟹  domain(p1, c)
	net.CompileProduction(rete.ProductionSpec{
		Name: "scm-dom2",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypePropertySubsumption}, Vars: map[string]string{"sub": "p1", "sup": "p2"}},
			{Constraints: map[string]string{"type": TypePropertyDomain}, Vars: map[string]string{"property": "p2", "domain": "c"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypePropertyDomain, Vars: map[string]string{"property": "p1", "domain": "c"}},
		}},
	})

	// scm-rng1: range(p, c1), c1 ⊑ c2  ⟹  range(p, c2)
	net.CompileProduction(rete.ProductionSpec{
		Name: "scm-rng1",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypePropertyRange}, Vars: map[string]string{"property": "p", "range": "c1"}},
			{Constraints: map[string]string{"type": TypeSubsumption}, Vars: map[string]string{"sub": "c1", "sup": "c2"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypePropertyRange, Vars: map[string]string{"property": "p", "range": "c2"}},
		}},
	})

	// scm-rng2: p1 ⊑ p2, range(p2, c)  ⟹  range(p1, c)
	net.CompileProduction(rete.ProductionSpec{
		Name: "scm-rng2",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypePropertySubsumption}, Vars: map[string]string{"sub": "p1", "sup": "p2"}},
			{Constraints: map[string]string{"type": TypePropertyRange}, Vars: map[string]string{"property": "p2", "range": "c"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypePropertyRange, Vars: map[string]string{"property": "p1", "range": "c"}},
		}},
	})
}
