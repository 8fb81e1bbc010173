// Package ontology implements the typed-fact ingestion contract external
// collaborators use to hand facts to the core: a fixed table of fact types
// and their required attributes, and the assert(fact, source) entry point
// itself. Ingestion never fails on logical grounds — a fact of an unknown
// type, or missing a required attribute, is still asserted as-is, exactly
// mirroring the teacher's own insertFactLocked/AddFacts behavior of
// rejecting only resource-exhaustion (fact limit) conditions, never
// malformed-but-well-typed data. Strict-mode shape validation is a
// deliberately separate, opt-in layer (see Loader in validate.go).
package ontology

import (
	"github.com/codeine-ai/reter/internal/owl"
	"github.com/codeine-ai/reter/internal/rete"
	"github.com/codeine-ai/reter/internal/wme"
)

// RequiredAttrs is spec.md §6.1's fact-ingestion table: for each ingestable
// type, the attributes a well-formed fact of that type carries beyond
// "type" itself. The table is non-exhaustive by design (spec.md says so
// explicitly) — types internal_owl's rule network also consumes but that
// aren't named here (e.g. disjoint_classes, property_subsumption) are
// still ingestable; they're just not covered by strict-mode validation.
var RequiredAttrs = map[string][]string{
	owl.TypeSubsumption:             {"sub", "sup"},
	owl.TypeEquivalence:             {"concept1", "concept2"},
	owl.TypeInstanceOf:              {"individual", "concept"},
	owl.TypeRoleAssertion:           {"subject", "role", "object"},
	owl.TypeDataAssertion:           {"subject", "property", "value"},
	owl.TypeSameAs:                  {"ind1", "ind2"},
	owl.TypeDifferentFrom:           {"ind1", "ind2"},
	owl.TypePropertyDomain:          {"property", "domain"},
	owl.TypePropertyRange:           {"property", "range"},
	owl.TypeTransitiveProperty:      {"property"},
	owl.TypeSymmetricProperty:       {"property"},
	owl.TypeFunctional:              {"property"},
	owl.TypeInverseFunctional:       {"property"},
	owl.TypeInverseProperties:       {"property1", "property2"},
	owl.TypeEquivalentProperty:      {"property1", "property2"},
	owl.TypePropertyChain:           {"chain", "super"},
	owl.TypeHasKey:                  {"class", "keys"},
	owl.TypeMaxCardinality:          {"cardinality", "on_property", "restriction_class"},
	owl.TypeMinCardinality:          {"cardinality", "on_property", "restriction_class"},
	owl.TypeMaxQualifiedCardinality: {"cardinality", "on_property", "restriction_class", "on_class"},
	owl.TypeUnion:                   {"class", "members"},
	owl.TypeIntersection:            {"class", "members"},
	owl.TypeComplement:              {"class1", "class2"},
	owl.TypeSomeValuesFrom:          {"property", "filler"},
	owl.TypeAllValuesFrom:           {"property", "filler"},
	owl.TypeInconsistency:           {"message"},
	owl.TypeValidationError:         {"message"},
}

// IsKnownType reports whether typ appears in the §6.1 ingestion table.
func IsKnownType(typ string) bool {
	_, ok := RequiredAttrs[typ]
	return ok
}

// MissingAttrs reports which of typ's required attributes (per
// RequiredAttrs) are absent from fact. Returns nil for an unknown type or
// a fully-shaped fact.
func MissingAttrs(fact map[string]string) []string {
	required, ok := RequiredAttrs[fact[wme.TypeAttr]]
	if !ok {
		return nil
	}
	var missing []string
	for _, attr := range required {
		if _, present := fact[attr]; !present {
			missing = append(missing, attr)
		}
	}
	return missing
}

// Assert ingests fact into net under source, with no shape validation:
// ingestion never fails on logical grounds (spec.md §7 — "the alternative
// would leave the network in an indeterminate state"). Callers wanting
// strict-mode validation first should use a Loader instead.
func Assert(net *rete.Network, fact map[string]string, source string) wme.Signature {
	return net.Assert(fact, source)
}
