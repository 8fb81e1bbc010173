// Package reter is the public facade spec.md §6 describes: a single
// Reasoner type wiring together the RETE network, the OWL 2 RL rule set,
// REQL query execution, and the optional durability/watch conveniences
// of §6.7, the way the corpus's own top-level packages wrap their
// internal subsystems behind one entry point.
package reter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/codeine-ai/reter/internal/config"
	"github.com/codeine-ai/reter/internal/ontology"
	"github.com/codeine-ai/reter/internal/owl"
	"github.com/codeine-ai/reter/internal/reql"
	"github.com/codeine-ai/reter/internal/reqltable"
	"github.com/codeine-ai/reter/internal/rete"
	"github.com/codeine-ai/reter/internal/snapshot"
	"github.com/codeine-ai/reter/internal/store"
	"github.com/codeine-ai/reter/internal/telemetry"
	"github.com/codeine-ai/reter/internal/wme"
)

// Reasoner is the incremental forward-chaining reasoner: assert facts,
// query them with REQL or the programmatic pattern API, manage sources,
// and snapshot/restore the whole network.
type Reasoner struct {
	net    *rete.Network
	loader *ontology.Loader
	cfg    *config.Config
	log    *zap.Logger

	durability *store.Store
	watchers   map[string]*sourceWatcher
}

// New builds a Reasoner with the mandatory OWL 2 RL rule set installed
// and ready to specialize its template rules (property chains, hasKey)
// the first time a matching axiom is asserted. cfg and log may be nil;
// DefaultConfig and a no-op logger are used respectively.
func New(cfg *config.Config, log *zap.Logger) *Reasoner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = telemetry.Noop()
	}

	net := rete.New(telemetry.Named(log, telemetry.SubsystemNetwork))
	owl.InstallMandatory(net)

	return &Reasoner{
		net:      net,
		loader:   ontology.NewLoader(net, false),
		cfg:      cfg,
		log:      log,
		watchers: make(map[string]*sourceWatcher),
	}
}

// Network exposes the underlying RETE network for callers that need
// direct access (e.g. to hand it to a package built against
// *rete.Network rather than *Reasoner).
func (r *Reasoner) Network() *rete.Network { return r.net }

// StrictMode toggles §6.1 shape validation: when on, AssertFact rejects
// facts of an unknown type or missing a required attribute instead of
// ingesting them as-is.
func (r *Reasoner) StrictMode(strict bool) {
	r.loader = ontology.NewLoader(r.net, strict)
}

// AssertFact ingests fact under source (spec.md §6.1). When durability
// is enabled, the fact is first validated and asserted into the network
// and then mirrored to the sqlite store; a failed store write is logged
// as a warning and does not make AssertFact return an error.
func (r *Reasoner) AssertFact(fact map[string]string, source string) (wme.Signature, error) {
	sig, err := r.loader.AssertValidated(fact, source)
	if err != nil {
		return "", err
	}
	if r.durability != nil {
		if derr := r.durability.RecordFact(source, string(sig), fact); derr != nil {
			r.log.Warn("durability mirror failed", zap.Error(derr), zap.String("source", source))
		}
	}
	return sig, nil
}

// RetractSource removes every fact introduced by source, cascading
// through every fact and production it alone supported (spec.md §6.4).
func (r *Reasoner) RetractSource(source string) {
	r.net.RetractSource(source)
	if r.durability != nil {
		if err := r.durability.RemoveSource(source); err != nil {
			r.log.Warn("durability source removal failed", zap.Error(err), zap.String("source", source))
		}
	}
}

// ListSources returns every currently registered source identifier.
func (r *Reasoner) ListSources() []string { return r.net.ListSources() }

// FactsOf returns the signatures introduced by source.
func (r *Reasoner) FactsOf(source string) []wme.Signature { return r.net.FactsOf(source) }

// REQL compiles and executes text against the current network state
// (spec.md §6.2). timeoutMS of 0 means unbounded; a negative value is
// treated as the configured default timeout.
func (r *Reasoner) REQL(text string, timeoutMS int) (*reqltable.Table, error) {
	return reql.Query(r.net, text, r.resolveTimeout(timeoutMS))
}

// Pattern runs a one-shot materialized query built from spec (spec.md
// §6.3's `pattern` entry point).
func (r *Reasoner) Pattern(spec reql.PatternSpec) (*reqltable.Table, error) {
	return reql.Pattern(r.net, spec)
}

// LivePattern compiles spec once and returns a handle whose Access
// method re-reflects the network's current state on every call (spec.md
// §6.3's `live_pattern` entry point).
func (r *Reasoner) LivePattern(spec reql.PatternSpec) (*reql.LiveHandle, error) {
	return reql.LivePattern(r.net, spec)
}

func (r *Reasoner) resolveTimeout(timeoutMS int) int {
	if timeoutMS >= 0 {
		return timeoutMS
	}
	return int(r.cfg.Query.DefaultTimeout.Milliseconds())
}

// Save writes the network's current source-keyed facts to path (spec.md
// §6.5).
func (r *Reasoner) Save(path string) error {
	return snapshot.Save(r.net, path)
}

// Load replays a previously saved snapshot into the network. The
// mandatory rule set is already installed by New, so replayed axiom
// facts re-specialize their template productions exactly as they did the
// first time (spec.md §6.5).
func (r *Reasoner) Load(path string) error {
	return snapshot.Load(r.net, path)
}

// Stats returns a snapshot of network statistics (spec.md §6.6).
func (r *Reasoner) Stats() rete.Stats {
	return r.net.StatsSnapshot()
}

// ProductionNames returns every installed production's name, sorted.
func (r *Reasoner) ProductionNames() []string {
	return r.net.ProductionNames()
}

// Close releases any resources the reasoner opened (durability database,
// source watchers). A Reasoner that never called EnableDurability or
// WatchSource has nothing to release.
func (r *Reasoner) Close() error {
	for path, w := range r.watchers {
		w.stop()
		delete(r.watchers, path)
	}
	if r.durability != nil {
		if err := r.durability.Close(); err != nil {
			return fmt.Errorf("reter: close durability store: %w", err)
		}
	}
	return nil
}
