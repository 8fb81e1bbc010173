package owl

import (
	"github.com/codeine-ai/reter/internal/beta"
	"github.com/codeine-ai/reter/internal/rete"
)

// installPropertyCharacteristicRules compiles prp-fp and prp-ifp, the two
// rules that turn a functional/inverse-functional property declaration plus
// two role assertions sharing one endpoint into a same_as fact. Both need an
// explicit inequality test: the two occurrences of the "other" endpoint
// (y1/y2) are deliberately given distinct variable names so they are NOT
// treated as a shared join key, then a neqTest guards against the
// degenerate token where y1 and y2 happen to be the very same role
// assertion (which would otherwise derive the useless same_as(y, y)).
func installPropertyCharacteristicRules(net *rete.Network) {
	// prp-fp: p functional, x–p→y1, x–p→y2, y1≠y2  ⟹  same_as(y1, y2)
	net.CompileProduction(rete.ProductionSpec{
		Name: "prp-fp",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeFunctional}, Vars: map[string]string{"property": "p"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "x", "role": "p", "object": "y1"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "x", "role": "p", "object": "y2"},
				Tests: []beta.BuiltinTest{neqTest("y2", "y1")}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeSameAs, Vars: map[string]string{"ind1": "y1", "ind2": "y2"}},
		}},
	})

	// prp-ifp: p inverse-functional, y1–p→x, y2–p→x, y1≠y2  ⟹  same_as(y1, y2)
	net.CompileProduction(rete.ProductionSpec{
		Name: "prp-ifp",
		Pattern: []rete.PatternSpec{
			{Constraints: map[string]string{"type": TypeInverseFunctional}, Vars: map[string]string{"property": "p"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "y1", "role": "p", "object": "x"}},
			{Constraints: map[string]string{"type": TypeRoleAssertion}, Vars: map[string]string{"subject": "y2", "role": "p", "object": "x"},
				Tests: []beta.BuiltinTest{neqTest("y2", "y1")}},
		},
		RHS: rete.RHS{Assert: []rete.AssertSpec{
			{Type: TypeSameAs, Vars: map[string]string{"ind1": "y1", "ind2": "y2"}},
		}},
	})
}
