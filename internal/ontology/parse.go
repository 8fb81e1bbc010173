package ontology

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
)

// Variant names the surface dialect a source's text was written in.
// spec.md §1 puts the actual lexers for these dialects (Unicode-DL,
// AI-friendly, programming-identifier variants) explicitly out of scope as
// external collaborators — the core only consumes the typed facts they
// produce. Variant is carried through add_source as the originating
// dialect's label (for logging/telemetry and for a future parser
// collaborator to dispatch on); this package itself only knows how to
// read its own fact-table-shaped encoding, VariantJSONLines, since no
// grammar for the other three is specified anywhere in the retrieved
// material.
type Variant string

const (
	// VariantJSONLines is one JSON object per line, each object the
	// attr->value fact map spec.md §6.1 describes directly — the only
	// variant this package parses itself.
	VariantJSONLines Variant = "jsonlines"
	// VariantUnicodeDL, VariantAIFriendly, and VariantIdentifier name the
	// three dialects spec.md §1 excludes from the core; ParseText rejects
	// them with ErrUnsupportedVariant rather than guessing at an
	// unspecified grammar.
	VariantUnicodeDL   Variant = "unicode-dl"
	VariantAIFriendly  Variant = "ai-friendly"
	VariantIdentifier  Variant = "programming-identifier"
)

// ErrUnsupportedVariant is returned by ParseText for any Variant this
// package has no parser for.
var ErrUnsupportedVariant = fmt.Errorf("ontology: unsupported source variant")

// ParseText parses text into a list of facts according to variant. Blank
// lines and lines beginning with "#" are skipped as comments.
func ParseText(text string, variant Variant) ([]map[string]string, error) {
	if variant != VariantJSONLines {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVariant, variant)
	}

	var facts []map[string]string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fact := make(map[string]string)
		if err := json.Unmarshal([]byte(line), &fact); err != nil {
			return nil, fmt.Errorf("ontology: line %d: %w", lineNo, err)
		}
		if _, ok := fact["type"]; !ok {
			return nil, fmt.Errorf("ontology: line %d: fact missing required \"type\" attribute", lineNo)
		}
		facts = append(facts, fact)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ontology: %w", err)
	}
	return facts, nil
}
