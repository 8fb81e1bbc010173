package alpha

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeine-ai/reter/internal/wme"
)

type recorder struct {
	activated   []wme.WME
	deactivated []wme.WME
}

func (r *recorder) RightActivate(w wme.WME)   { r.activated = append(r.activated, w) }
func (r *recorder) RightDeactivate(w wme.WME) { r.deactivated = append(r.deactivated, w) }

func TestActivateRoutesToSubsetMemories(t *testing.T) {
	n := NewNetwork()
	all := n.GetOrCreate(map[string]string{"type": "role_assertion"})
	narrow := n.GetOrCreate(map[string]string{"type": "role_assertion", "role": "hasParent"})
	other := n.GetOrCreate(map[string]string{"type": "role_assertion", "role": "hasSpouse"})

	recAll, recNarrow, recOther := &recorder{}, &recorder{}, &recorder{}
	all.AddSuccessor(recAll)
	narrow.AddSuccessor(recNarrow)
	other.AddSuccessor(recOther)

	w := wme.New(map[string]string{"type": "role_assertion", "subject": "Alice", "role": "hasParent", "object": "Bob"})
	n.Activate(w)

	assert.Len(t, recAll.activated, 1)
	assert.Len(t, recNarrow.activated, 1)
	assert.Empty(t, recOther.activated)
}

func TestEmptyConstraintMemoryMatchesEverything(t *testing.T) {
	n := NewNetwork()
	universal := n.GetOrCreate(map[string]string{})
	rec := &recorder{}
	universal.AddSuccessor(rec)

	n.Activate(wme.New(map[string]string{"type": "subsumption", "sub": "Dog", "sup": "Mammal"}))
	n.Activate(wme.New(map[string]string{"type": "instance_of", "individual": "fido", "concept": "Dog"}))

	assert.Len(t, rec.activated, 2)
}

func TestDeactivateRemovesFromMemoryAndNotifies(t *testing.T) {
	n := NewNetwork()
	m := n.GetOrCreate(map[string]string{"type": "role_assertion"})
	rec := &recorder{}
	m.AddSuccessor(rec)

	w := wme.New(map[string]string{"type": "role_assertion", "subject": "A", "role": "r", "object": "B"})
	n.Activate(w)
	require.Len(t, m.Members(), 1)

	n.Deactivate(w)
	assert.Empty(t, m.Members())
	assert.Len(t, rec.deactivated, 1)
}

func TestAddSuccessorReplaysExistingMembers(t *testing.T) {
	n := NewNetwork()
	m := n.GetOrCreate(map[string]string{"type": "instance_of"})
	n.Activate(wme.New(map[string]string{"type": "instance_of", "individual": "fido", "concept": "Dog"}))

	rec := &recorder{}
	m.AddSuccessor(rec) // joins late
	assert.Len(t, rec.activated, 1)
}

func TestRegisterPrivilegedPanicsOverBudget(t *testing.T) {
	n := NewNetwork()
	assert.Panics(t, func() {
		n.RegisterPrivileged("role_assertion", "a", "b", "c", "d")
	})
}

// TestDispatchIsSublinearInMemoryCount exercises the O(1) alpha-dispatch
// property from spec.md §8: routing one WME must not slow down
// proportionally to the total number of registered alpha memories.
func TestDispatchIsSublinearInMemoryCount(t *testing.T) {
	measure := func(numMemories int) time.Duration {
		n := NewNetwork()
		for i := 0; i < numMemories; i++ {
			n.GetOrCreate(map[string]string{"type": fmt.Sprintf("type_%d", i)})
		}
		n.GetOrCreate(map[string]string{"type": "role_assertion", "role": "hasParent"})
		w := wme.New(map[string]string{"type": "role_assertion", "subject": "A", "role": "hasParent", "object": "B"})

		const iterations = 2000
		start := time.Now()
		for i := 0; i < iterations; i++ {
			n.Activate(w)
			n.Deactivate(w)
		}
		return time.Since(start)
	}

	small := measure(10)
	large := measure(5000)

	// Large has 500x the memories of small; dispatch work should stay
	// roughly flat, not scale proportionally. Allow generous slack for
	// noisy CI/benchmark environments while still catching an O(N) scan.
	ratio := float64(large) / float64(small)
	if ratio > 50 {
		t.Fatalf("dispatch time scaled %vx from 10 to 5000 memories, want sublinear (<50x)", ratio)
	}
}
