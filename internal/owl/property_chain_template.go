package owl

import (
	"strconv"

	"github.com/codeine-ai/reter/internal/rete"
)

// installPropertyChainTemplate compiles prp-spo2: it watches for
// property_chain facts and, for each one, installs a specialized
// production whose LHS is a left-deep chain of role_assertion steps (one
// per chained property, joined through a run of intermediate-individual
// variables) and whose RHS asserts the chain's super-property between the
// two endpoints. Chain length is only known once the fact itself arrives,
// so — like has-key — this has to be a template rather than a fixed-arity
// ProductionSpec.
func installPropertyChainTemplate(net *rete.Network) {
	net.CompileProduction(rete.ProductionSpec{
		Name: "prp-spo2-watch",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypePropertyChain}, Vars: map[string]string{"chain": "ch", "super": "r"}},
		},
		RHS: rete.RHS{Template: func(net *rete.Network, bindings map[string]string) {
			chain := splitList(bindings["ch"])
			super := bindings["r"]
			if len(chain) == 0 {
				return
			}

			pattern := make([]rete.PatternSpec, len(chain))
			for i, prop := range chain {
				from := chainVar(i)
				to := chainVar(i + 1)
				pattern[i] = rete.PatternSpec{
					Constraints: map[string]string{"type": TypeRoleAssertion, "role": prop},
					Vars:        map[string]string{"subject": from, "object": to},
				}
			}

			net.CompileProduction(rete.ProductionSpec{
				Name:    axiomName("prp-spo2", joinList(chain), super),
				Pattern: pattern,
				RHS: rete.RHS{Assert: []rete.AssertSpec{
					{Type: TypeRoleAssertion, Literals: map[string]string{"role": super},
						Vars: map[string]string{"subject": chainVar(0), "object": chainVar(len(chain))}},
				}},
			})
		}},
	})
}

// chainVar names the intermediate-individual variable at position i along
// a property chain: v0 is the chain's subject, vN its object, and every
// vi in between is shared by step i-1's object and step i's subject.
func chainVar(i int) string {
	return "v" + strconv.Itoa(i)
}
