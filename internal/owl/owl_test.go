package owl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeine-ai/reter/internal/rete"
)

func assertFact(t *testing.T, net *rete.Network, fact map[string]string) {
	t.Helper()
	net.Assert(fact, "test")
}

func hasFact(net *rete.Network, constraints map[string]string) bool {
	return len(net.QueryByAttributes(constraints)) > 0
}

func newNetwork(t *testing.T) *rete.Network {
	t.Helper()
	net := rete.New(nil)
	InstallMandatory(net)
	return net
}

func TestScmScoTransitiveSubclass(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeSubsumption, "sub": "Dog", "sup": "Mammal"})
	assertFact(t, net, map[string]string{"type": TypeSubsumption, "sub": "Mammal", "sup": "Animal"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeSubsumption, "sub": "Dog", "sup": "Animal"}))
}

func TestCaxScoInstancePropagation(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Rex", "concept": "Dog"})
	assertFact(t, net, map[string]string{"type": TypeSubsumption, "sub": "Dog", "sup": "Mammal"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeInstanceOf, "individual": "Rex", "concept": "Mammal"}))
}

func TestEquivalentClassIsMutualSubsumption(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeEquivalence, "concept1": "Human", "concept2": "Person"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeSubsumption, "sub": "Human", "sup": "Person"}))
	assert.True(t, hasFact(net, map[string]string{"type": TypeSubsumption, "sub": "Person", "sup": "Human"}))
}

func TestPrpSpo1PropagatesSubProperty(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypePropertySubsumption, "sub": "hasMother", "sup": "hasParent"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasMother", "object": "Carol"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasParent", "object": "Carol"}))
}

func TestPrpTrpTransitiveRole(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeTransitiveProperty, "property": "hasAncestor"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasAncestor", "object": "Bob"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Bob", "role": "hasAncestor", "object": "Carol"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasAncestor", "object": "Carol"}))
}

func TestPrpSympSymmetricRole(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeSymmetricProperty, "property": "marriedTo"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "marriedTo", "object": "Bob"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeRoleAssertion, "subject": "Bob", "role": "marriedTo", "object": "Alice"}))
}

func TestPrpInv1And2(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeInverseProperties, "property1": "hasParent", "property2": "hasChild"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasParent", "object": "Bob"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeRoleAssertion, "subject": "Bob", "role": "hasChild", "object": "Alice"}))
}

func TestPrpFpFunctionalPropertyInfersSameAs(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeFunctional, "property": "hasCapital"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "France", "role": "hasCapital", "object": "Paris"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "France", "role": "hasCapital", "object": "CapitalOfFrance"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeSameAs, "ind1": "Paris", "ind2": "CapitalOfFrance"}) ||
		hasFact(net, map[string]string{"type": TypeSameAs, "ind1": "CapitalOfFrance", "ind2": "Paris"}))
}

func TestPrpIfpInverseFunctionalInfersSameAs(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeInverseFunctional, "property": "hasSSN"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasSSN", "object": "123"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice2", "role": "hasSSN", "object": "123"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeSameAs, "ind1": "Alice", "ind2": "Alice2"}) ||
		hasFact(net, map[string]string{"type": TypeSameAs, "ind1": "Alice2", "ind2": "Alice"}))
}

func TestPrpDomAndRng(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypePropertyDomain, "property": "hasParent", "domain": "Person"})
	assertFact(t, net, map[string]string{"type": TypePropertyRange, "property": "hasParent", "range": "Person"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasParent", "object": "Bob"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeInstanceOf, "individual": "Alice", "concept": "Person"}))
	assert.True(t, hasFact(net, map[string]string{"type": TypeInstanceOf, "individual": "Bob", "concept": "Person"}))
}

func TestScmDomPropagatesUpClassHierarchy(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypePropertyDomain, "property": "hasParent", "domain": "Person"})
	assertFact(t, net, map[string]string{"type": TypeSubsumption, "sub": "Person", "sup": "Agent"})

	assert.True(t, hasFact(net, map[string]string{"type": TypePropertyDomain, "property": "hasParent", "domain": "Agent"}))
}

func TestClsSvf2UnqualifiedExistential(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeSomeValuesFrom, "class": "Parent", "property": "hasChild", "filler": "owl:Thing"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasChild", "object": "Bob"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeInstanceOf, "individual": "Alice", "concept": "Parent"}))
}

func TestClsAvfUniversalRestriction(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeAllValuesFrom, "class": "HappyParent", "property": "hasChild", "filler": "HappyPerson"})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Alice", "concept": "HappyParent"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasChild", "object": "Bob"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeInstanceOf, "individual": "Bob", "concept": "HappyPerson"}))
}

func TestClsComComplementIsInconsistent(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeComplement, "class1": "Alive", "class2": "Dead"})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Schrodinger", "concept": "Alive"})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Schrodinger", "concept": "Dead"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeInconsistency, "rule": "cls-com"}))
}

func TestClsDisDisjointClassesIsInconsistent(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeDisjointClasses, "class1": "Cat", "class2": "Dog"})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Ambiguous", "concept": "Cat"})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Ambiguous", "concept": "Dog"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeInconsistency, "rule": "cls-dis"}))
}

func TestClsMaxc0ForbidsAnySuccessor(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeMaxCardinality, "on_property": "hasSpouse", "cardinality": "0", "restriction_class": "Bachelor"})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Tom", "concept": "Bachelor"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Tom", "role": "hasSpouse", "object": "Jane"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeInconsistency, "rule": "cls-maxc0"}))
}

func TestClsMaxc1MergesDistinctFillers(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeMaxCardinality, "on_property": "hasSpouse", "cardinality": "1", "restriction_class": "Monogamist"})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Tom", "concept": "Monogamist"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Tom", "role": "hasSpouse", "object": "Jane"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Tom", "role": "hasSpouse", "object": "Janet"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeSameAs, "ind1": "Jane", "ind2": "Janet"}) ||
		hasFact(net, map[string]string{"type": TypeSameAs, "ind1": "Janet", "ind2": "Jane"}))
}

func TestPropertyChainTwoHop(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypePropertyChain, "chain": joinList([]string{"hasParent", "hasParent"}), "super": "hasGrandparent"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasParent", "object": "Bob"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Bob", "role": "hasParent", "object": "Carol"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasGrandparent", "object": "Carol"}))
}

func TestPropertyChainMixedProperties(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypePropertyChain, "chain": joinList([]string{"hasParent", "hasBrother"}), "super": "hasUncle"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasParent", "object": "Bob"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Bob", "role": "hasBrother", "object": "Charlie"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasUncle", "object": "Charlie"}))
}

func TestHasKeySingleProperty(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeHasKey, "class": "Person", "keys": joinList([]string{"hasSSN"})})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Alice", "concept": "Person"})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Bob", "concept": "Person"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasSSN", "object": "SSN123"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Bob", "role": "hasSSN", "object": "SSN123"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeSameAs, "ind1": "Alice", "ind2": "Bob"}) ||
		hasFact(net, map[string]string{"type": TypeSameAs, "ind1": "Bob", "ind2": "Alice"}))
}

func TestHasKeyCompositeKeyRequiresAllPropertiesToMatch(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeHasKey, "class": "Account", "keys": joinList([]string{"hasUsername", "hasDomain"})})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Account1", "concept": "Account"})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Account2", "concept": "Account"})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Account3", "concept": "Account"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Account1", "role": "hasUsername", "object": "user123"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Account1", "role": "hasDomain", "object": "example.com"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Account2", "role": "hasUsername", "object": "user123"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Account2", "role": "hasDomain", "object": "example.com"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Account3", "role": "hasUsername", "object": "user123"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Account3", "role": "hasDomain", "object": "other.com"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeSameAs, "ind1": "Account1", "ind2": "Account2"}) ||
		hasFact(net, map[string]string{"type": TypeSameAs, "ind1": "Account2", "ind2": "Account1"}))
	assert.False(t, hasFact(net, map[string]string{"type": TypeSameAs, "ind1": "Account1", "ind2": "Account3"}))
	assert.False(t, hasFact(net, map[string]string{"type": TypeSameAs, "ind1": "Account3", "ind2": "Account1"}))
}

func TestHasKeyDoesNotMatchAcrossClasses(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeHasKey, "class": "Person", "keys": joinList([]string{"hasSSN"})})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Alice", "concept": "Person"})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "CorpX", "concept": "Company"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "Alice", "role": "hasSSN", "object": "SSN123"})
	assertFact(t, net, map[string]string{"type": TypeRoleAssertion, "subject": "CorpX", "role": "hasSSN", "object": "SSN123"})

	assert.False(t, hasFact(net, map[string]string{"type": TypeSameAs, "ind1": "Alice", "ind2": "CorpX"}))
}

func TestUnionOfMembershipPropagates(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeUnion, "class": "Pet", "members": joinList([]string{"Cat", "Dog"})})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Rex", "concept": "Dog"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeInstanceOf, "individual": "Rex", "concept": "Pet"}))
}

func TestIntersectionOfRequiresAllMembers(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeIntersection, "class": "WorkingParent", "members": joinList([]string{"Parent", "Employee"})})
	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Alice", "concept": "Parent"})

	require.False(t, hasFact(net, map[string]string{"type": TypeInstanceOf, "individual": "Alice", "concept": "WorkingParent"}))

	assertFact(t, net, map[string]string{"type": TypeInstanceOf, "individual": "Alice", "concept": "Employee"})
	assert.True(t, hasFact(net, map[string]string{"type": TypeInstanceOf, "individual": "Alice", "concept": "WorkingParent"}))
}

func TestEqDiffSameAsAndDifferentFromIsInconsistent(t *testing.T) {
	net := newNetwork(t)
	assertFact(t, net, map[string]string{"type": TypeSameAs, "ind1": "Alice", "ind2": "Bob"})
	assertFact(t, net, map[string]string{"type": TypeDifferentFrom, "ind1": "Alice", "ind2": "Bob"})

	assert.True(t, hasFact(net, map[string]string{"type": TypeInconsistency, "rule": "eq-diff"}))
}

func TestInstallMandatoryIsIdempotent(t *testing.T) {
	net := newNetwork(t)
	InstallMandatory(net)

	assert.True(t, net.HasProduction("scm-sco"))
	assert.True(t, net.HasProduction("prp-spo1"))
}
