package owl

import (
	"strconv"

	"github.com/codeine-ai/reter/internal/beta"
	"github.com/codeine-ai/reter/internal/rete"
)

// installHasKeyTemplate compiles prp-key: it watches for has_key facts
// and, for each one, installs a specialized production matching two
// distinct instances of the key's class that agree on every key property's
// value, concluding they are the same individual. Key arity is only known
// once the fact arrives, so this is a template like prp-spo2.
func installHasKeyTemplate(net *rete.Network) {
	net.CompileProduction(rete.ProductionSpec{
		Name: "prp-key-watch",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeHasKey}, Vars: map[string]string{"class": "c", "keys": "k"}},
		},
		RHS: rete.RHS{Template: func(net *rete.Network, bindings map[string]string) {
			class := bindings["c"]
			keys := splitList(bindings["k"])
			if len(keys) == 0 {
				return
			}

			pattern := []rete.PatternSpec{
				{Constraints: map[string]string{"type": TypeInstanceOf, "concept": class}, Vars: map[string]string{"individual": "x"}},
				{Constraints: map[string]string{"type": TypeInstanceOf, "concept": class}, Vars: map[string]string{"individual": "y"},
					Tests: []beta.BuiltinTest{neqTest("y", "x")}},
			}
			for i, key := range keys {
				v := "k" + strconv.Itoa(i)
				pattern = append(pattern,
					rete.PatternSpec{Constraints: map[string]string{"type": TypeRoleAssertion, "role": key}, Vars: map[string]string{"subject": "x", "object": v}},
					rete.PatternSpec{Constraints: map[string]string{"type": TypeRoleAssertion, "role": key}, Vars: map[string]string{"subject": "y", "object": v}},
				)
			}

			net.CompileProduction(rete.ProductionSpec{
				Name:    axiomName("prp-key", class, joinList(keys)),
				Pattern: pattern,
				RHS: rete.RHS{Assert: []rete.AssertSpec{
					{Type: TypeSameAs, Vars: map[string]string{"ind1": "x", "ind2": "y"}},
				}},
			})
		}},
	})
}
