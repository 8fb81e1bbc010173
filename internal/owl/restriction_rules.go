package owl

import "github.com/codeine-ai/reter/internal/rete"

// installRestrictionRules compiles the class-restriction rules: the two
// fixed-arity rules that type individuals from existential/universal
// restrictions (cls-svf2, cls-avf), a fixed-arity consistency check
// (cls-com), and two template meta-rules (cls-uni, cls-int) that install
// one specialized production per union/intersection fact, mirroring
// the variable-arity template idiom prp-spo2 and has-key also use.
func installRestrictionRules(net *rete.Network) {
	// cls-svf2: someValuesFrom(c, p, owl:Thing), s–p→o  ⟹  instance_of(s, c)
	// (the unqualified existential: any filler value at all satisfies it).
	net.CompileProduction(rete.ProductionSpec{
		Name: "cls-svf2",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeSomeValuesFrom, "filler": "owl:Thing"}, Vars: map[string]string{"class": "c", "property": "p"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "s", "role": "p", "object": "o"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeInstanceOf, Vars: map[string]string{"individual": "s", "concept": "c"}},
		}},
	})

	// cls-avf: allValuesFrom(c, p, d), s:c, s–p→o  ⟹  instance_of(o, d)
	net.CompileProduction(rete.ProductionSpec{
		Name: "cls-avf",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeAllValuesFrom}, Vars: map[string]string{"class": "c", "property": "p", "filler": "d"}},
			{Constraints: map[string]string{"type": TypeInstanceOf}, Vars: map[string]string{"individual": "s", "concept": "c"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "s", "role": "p", "object": "o"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeInstanceOf, Vars: map[string]string{"individual": "o", "concept": "d"}},
		}},
	})

	// cls-com: complement(c1, c2), z:c1, z:c2  ⟹  inconsistency (c1 and c2
	// cannot share a member by definition).
	net.CompileProduction(rete.ProductionSpec{
		Name: "cls-com",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeComplement}, Vars: map[string]string{"class1": "c1", "class2": "c2"}},
			{Constraints: map[string]string{"type": TypeInstanceOf}, Vars: map[string]string{"individual": "z", "concept": "c1"}},
			{Constraints: map[string]string{"type": TypeInstanceOf}, Vars: map[string]string{"individual": "z", "concept": "c2"}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeInconsistency, Literals: map[string]string{"rule": "cls-com", "message": "individual belongs to two complementary classes"},
				Vars: map[string]string{"individual": "z", "class1": "c1", "class2": "c2"}},
		}},
	})

	installUnionTemplate(net)
	installIntersectionTemplate(net)
}

// installUnionTemplate watches for union facts and, for each one,
// installs one production per member class: instance_of(i, member) ⟹
// instance_of(i, unionClass). Arity (member count) is only known once the
// fact itself arrives, so this has to be a template rather than a fixed
// ProductionSpec.
func installUnionTemplate(net *rete.Network) {
	net.CompileProduction(rete.ProductionSpec{
		Name: "cls-uni-watch",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeUnion}, Vars: map[string]string{"class": "c", "members": "m"}},
		},
		RHS: rete.RHS{Template: func(net *rete.Network, bindings map[string]string) {
			class := bindings["c"]
			for _, member := range splitList(bindings["m"]) {
				member := member
				net.CompileProduction(rete.ProductionSpec{
					Name: axiomName("cls-uni", class, member),
					Pattern: []rete.PatternSpec{
						{Constraints: map[string]string{"type": TypeInstanceOf, "concept": member}, Vars: map[string]string{"individual": "i"}},
					},
					RHS: rete.RHS{Assert: []rete.AssertSpec{
						{Type: TypeInstanceOf, Literals: map[string]string{"concept": class}, Vars: map[string]string{"individual": "i"}},
					}},
				})
			}
		}},
	})
}

// installIntersectionTemplate watches for intersection facts and, for
// each one, installs a single production requiring instance_of against
// every member class (joined on the shared individual variable) before
// asserting membership in the intersection class itself.
func installIntersectionTemplate(net *rete.Network) {
	net.CompileProduction(rete.ProductionSpec{
		Name: "cls-int-watch",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeIntersection}, Vars: map[string]string{"class": "c", "members": "m"}},
		},
		RHS: rete.RHS{Template: func(net *rete.Network, bindings map[string]string) {
			class := bindings["c"]
			members := splitList(bindings["m"])
			if len(members) == 0 {
				return
			}
			pattern := make([]rete.PatternSpec, len(members))
			for idx, member := range members {
				pattern[idx] = rete.PatternSpec{
					Constraints: map[string]string{"type": TypeInstanceOf, "concept": member},
					Vars:        map[string]string{"individual": "i"},
				}
			}
			net.CompileProduction(rete.ProductionSpec{
				Name:    axiomName("cls-int", class, joinList(members)),
				Pattern: pattern,
				RHS: rete.RHS{Assert: []rete.AssertSpec{
					{Type: TypeInstanceOf, Literals: map[string]string{"concept": class}, Vars: map[string]string{"individual": "i"}},
				}},
			})
		}},
	})
}
