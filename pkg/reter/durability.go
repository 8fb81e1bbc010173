package reter

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/codeine-ai/reter/internal/store"
)

// EnableDurability opens (or creates) a sqlite database at path and
// begins mirroring every subsequent AssertFact/RetractSource call to it.
// It does not itself replay anything already in the database into the
// network — call WarmFromDurability for that, typically once at startup
// before any fresh assertions.
func (r *Reasoner) EnableDurability(path string) error {
	db, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("reter: enable durability: %w", err)
	}
	r.durability = db
	r.log.Info("durability enabled", zap.String("path", path))
	return nil
}

// WarmFromDurability replays every fact recorded in the durability store,
// source by source in their stored order, into the network. Call this
// once after EnableDurability and before ingesting new data, to resume
// from where a previous process left off. ctx is checked between
// sources so a caller can bound how long a very large warm-up runs.
func (r *Reasoner) WarmFromDurability(ctx context.Context) error {
	if r.durability == nil {
		return fmt.Errorf("reter: warm from durability: durability is not enabled")
	}
	sources, err := r.durability.Sources()
	if err != nil {
		return fmt.Errorf("reter: warm from durability: %w", err)
	}
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("reter: warm from durability: %w", err)
		}
		facts, err := r.durability.FactsOf(source)
		if err != nil {
			return fmt.Errorf("reter: warm from durability: source %q: %w", source, err)
		}
		for _, fact := range facts {
			r.net.Assert(fact, source)
		}
	}
	r.log.Info("warmed network from durability store", zap.Int("sources", len(sources)))
	return nil
}
