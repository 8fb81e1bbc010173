package ontology

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/codeine-ai/reter/internal/rete"
	"github.com/codeine-ai/reter/internal/wme"
)

// ErrUnknownFactType is returned by Loader.AssertValidated when a fact's
// "type" attribute does not appear in the §6.1 ingestion table.
var ErrUnknownFactType = errors.New("ontology: unknown fact type")

// ErrInvalidFact is returned by Loader.AssertValidated when a fact fails
// its type's schema (wraps the underlying jsonschema-go validation error).
var ErrInvalidFact = errors.New("ontology: fact does not match its type's schema")

// Loader wraps a Network with optional strict-mode shape validation
// against RequiredAttrs, building one jsonschema-go schema per known type
// lazily and reusing it for every subsequent fact of that type.
type Loader struct {
	net    *rete.Network
	strict bool

	mu      sync.Mutex
	schemas map[string]*jsonschema.Resolved
}

// NewLoader returns a Loader over net. When strict is false,
// AssertValidated behaves exactly like Assert and never returns an error.
func NewLoader(net *rete.Network, strict bool) *Loader {
	return &Loader{net: net, strict: strict, schemas: make(map[string]*jsonschema.Resolved)}
}

// AssertValidated validates fact's shape (when the loader is strict)
// before ingesting it. A non-strict loader skips validation entirely.
func (l *Loader) AssertValidated(fact map[string]string, source string) (wme.Signature, error) {
	if l.strict {
		if err := l.validate(fact); err != nil {
			return "", err
		}
	}
	return l.net.Assert(fact, source), nil
}

func (l *Loader) validate(fact map[string]string) error {
	typ := fact[wme.TypeAttr]
	required, known := RequiredAttrs[typ]
	if !known {
		return fmt.Errorf("%w: %q", ErrUnknownFactType, typ)
	}

	resolved, err := l.schemaFor(typ, required)
	if err != nil {
		return fmt.Errorf("ontology: building schema for %q: %w", typ, err)
	}

	instance := make(map[string]any, len(fact))
	for k, v := range fact {
		instance[k] = v
	}
	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidFact, typ, err)
	}
	return nil
}

// schemaFor returns the resolved schema for typ, building and caching it
// on first use.
func (l *Loader) schemaFor(typ string, required []string) (*jsonschema.Resolved, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if resolved, ok := l.schemas[typ]; ok {
		return resolved, nil
	}

	properties := map[string]*jsonschema.Schema{wme.TypeAttr: {Type: "string"}}
	for _, attr := range required {
		properties[attr] = &jsonschema.Schema{Type: "string"}
	}
	schema := &jsonschema.Schema{
		Type:       "object",
		Required:   required,
		Properties: properties,
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, err
	}
	l.schemas[typ] = resolved
	return resolved, nil
}
