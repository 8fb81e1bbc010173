// Package owl compiles OWL 2 RL-style class and property axioms into
// rete.ProductionSpec values (spec.md §4.4). Ordinary rules are installed
// once, up front, by InstallMandatory; template rules (property chains,
// hasKey) install a fresh specialized production per axiom fact the first
// time that axiom is seen, named deterministically so re-installation is a
// no-op (rete.Network.CompileProduction is idempotent by name).
package owl

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/codeine-ai/reter/internal/beta"
	"github.com/codeine-ai/reter/internal/builtin"
	"github.com/codeine-ai/reter/internal/rete"
)

// Fact type and attribute names used throughout this package. These mirror
// spec.md §6.1's fact-ingestion table exactly for every type it names
// (`equivalence`/concept1,concept2; `inverse_properties`/property1,property2;
// `union`/`intersection`/`complement`; `max_cardinality` vs
// `max_qualified_cardinality` as distinct types with `on_property` and
// `restriction_class` attributes, not `property`/`class`). Where §6.1 lists
// only required attributes, additive attributes this package also relies on
// (e.g. `some_values_from`'s `class`, naming which defined class the
// restriction itself is) are not a conflict — they're extras the rules need
// to name the restriction, not substitutes for the required ones. Where
// §6.1 is silent on a type's "defining attributes" (`union`, `intersection`,
// `complement`), the shape follows spec.md §4.4's own `property_chain`
// precedent: a comma-joined list attribute plus whatever scalar attributes
// the rule needs (see DESIGN.md's Open Question entry).
const (
	TypeSubsumption            = "subsumption"
	TypeInstanceOf             = "instance_of"
	TypeRoleAssertion          = "role_assertion"
	TypeDataAssertion          = "data_assertion"
	TypeSameAs                 = "same_as"
	TypeDifferentFrom          = "different_from"
	TypeEquivalence            = "equivalence"
	TypeEquivalentProperty     = "equivalent_property"
	TypePropertyDomain         = "property_domain"
	TypePropertyRange          = "property_range"
	TypeFunctional             = "functional"
	TypeInverseFunctional      = "inverse_functional"
	TypeTransitiveProperty     = "transitive_property"
	TypeSymmetricProperty      = "symmetric_property"
	TypePropertySubsumption    = "property_subsumption"
	TypeInverseProperties      = "inverse_properties"
	TypePropertyChain          = "property_chain"
	TypeHasKey                 = "has_key"
	TypeMaxCardinality         = "max_cardinality"
	TypeMinCardinality         = "min_cardinality"
	TypeMaxQualifiedCardinality = "max_qualified_cardinality"
	TypeDisjointClasses        = "disjoint_classes"
	TypeUnion                  = "union"
	TypeIntersection           = "intersection"
	TypeComplement             = "complement"
	TypeSomeValuesFrom         = "some_values_from"
	TypeAllValuesFrom          = "all_values_from"
	TypeInconsistency          = "inconsistency"
	TypeValidationError        = "validation_error"
)

// InstallMandatory compiles every mandatory rule (spec.md §4.4's list)
// into net, including the template meta-rules (prp-spo2, has-key, and the
// cls-uni/cls-int watchers installed with the restriction rules) that
// specialize a production per matching axiom. It is
// idempotent: calling it twice on the same network is a no-op beyond the
// first call, since every production name here is a fixed constant and
// CompileProduction already dedupes by name.
func InstallMandatory(net *rete.Network) {
	installClassRules(net)
	installPropertyCoreRules(net)
	installPropertyCharacteristicRules(net)
	installDomainRangeRules(net)
	installRestrictionRules(net)
	installCardinalityRules(net)
	installDisjointRule(net)

	installPropertyChainTemplate(net)
	installHasKeyTemplate(net)
}

// splitList splits a comma-joined attribute back into its parts. Property
// names and class names are identifiers and never contain commas, so a
// bare strings.Split is exact; see DESIGN.md's Open Question entry on the
// property_chain/has_key wire encoding.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func joinList(parts []string) string { return strings.Join(parts, ",") }

// axiomSuffix renders the short, stable name suffix a template uses to
// derive its specialized production's name: `<family>-<sha1-prefix>` per
// spec.md §4.4 (e.g. `prp-spo2-a1b2c3d4`), computed over the axiom's own
// identifying parts so the same axiom always re-derives the same name.
func axiomSuffix(parts ...string) string {
	h := sha1.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:8]
}

func axiomName(family string, parts ...string) string {
	return family + "-" + axiomSuffix(parts...)
}

// neqTest is a join-step builtin test requiring two already-bound
// variables to carry different values, used by rules (prp-fp, prp-ifp,
// the max-cardinality rules, has-key) whose LHS needs two separate
// pattern steps to disagree on a variable that isn't itself a structural
// join key for that step — e.g. guarding against trivially asserting
// same_as(x, x).
func neqTest(a, b string) beta.BuiltinTest {
	return func(bindings map[string]string) bool {
		return builtin.NotEqual(bindings[a], bindings[b])
	}
}
