package wme

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureStableUnderKeyOrder(t *testing.T) {
	a := New(map[string]string{"type": "subsumption", "sub": "Dog", "sup": "Mammal"})
	b := New(map[string]string{"sup": "Mammal", "type": "subsumption", "sub": "Dog"})
	assert.Equal(t, a.Signature(), b.Signature())
}

func TestSignatureDiffersOnValue(t *testing.T) {
	a := New(map[string]string{"type": "subsumption", "sub": "Dog", "sup": "Mammal"})
	b := New(map[string]string{"type": "subsumption", "sub": "Cat", "sup": "Mammal"})
	assert.NotEqual(t, a.Signature(), b.Signature())
}

func TestNewPanicsWithoutType(t *testing.T) {
	assert.Panics(t, func() {
		New(map[string]string{"sub": "Dog"})
	})
}

func TestHasSubset(t *testing.T) {
	w := New(map[string]string{"type": "role_assertion", "subject": "Alice", "role": "hasParent", "object": "Bob"})
	assert.True(t, w.HasSubset(map[string]string{"type": "role_assertion"}))
	assert.True(t, w.HasSubset(map[string]string{"type": "role_assertion", "role": "hasParent"}))
	assert.False(t, w.HasSubset(map[string]string{"type": "role_assertion", "role": "hasChild"}))
	assert.True(t, w.HasSubset(map[string]string{}))
}

func TestAttrsRoundTrip(t *testing.T) {
	in := map[string]string{"type": "instance_of", "individual": "fido", "concept": "Dog"}
	w := New(in)
	if diff := cmp.Diff(in, w.Attrs()); diff != "" {
		t.Fatalf("Attrs() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryAssertIdempotent(t *testing.T) {
	r := NewRegistry()
	w := New(map[string]string{"type": "instance_of", "individual": "fido", "concept": "Dog"})

	first := r.Assert("file1", w.Signature())
	second := r.Assert("file1", w.Signature())
	require.True(t, first)
	require.False(t, second)
	assert.Equal(t, 1, r.RefCount(w.Signature()))
}

func TestRegistryRefcountAcrossSources(t *testing.T) {
	r := NewRegistry()
	sig := New(map[string]string{"type": "instance_of", "individual": "fido", "concept": "Dog"}).Signature()

	r.Assert("f1", sig)
	r.Assert("f2", sig)
	assert.Equal(t, 2, r.RefCount(sig))

	dead := r.RemoveSource("f1")
	assert.Empty(t, dead, "signature still referenced by f2")
	assert.Equal(t, 1, r.RefCount(sig))

	dead = r.RemoveSource("f2")
	assert.Equal(t, []Signature{sig}, dead)
	assert.Equal(t, 0, r.RefCount(sig))
}

func TestRegistryRemoveUnknownSourceIsNoop(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.RemoveSource("nope"))
}

func TestListSourcesSorted(t *testing.T) {
	r := NewRegistry()
	sig := New(map[string]string{"type": "x"}).Signature()
	r.Assert("zeta", sig)
	r.Assert("alpha", sig)
	assert.Equal(t, []string{"alpha", "zeta"}, r.ListSources())
}
