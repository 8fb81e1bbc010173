package reter

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/codeine-ai/reter/internal/ontology"
	"github.com/codeine-ai/reter/internal/telemetry"
)

// sourceWatcher re-ingests one file-backed source whenever its file
// changes, debounced so a burst of writes (an editor's save-as-temp-then-
// rename dance) triggers one re-ingestion rather than several.
type sourceWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	debounce time.Duration
}

func (w *sourceWatcher) stop() {
	select {
	case <-w.stopCh:
		return // already stopped
	default:
	}
	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

// WatchSource begins watching path for writes and re-ingests its
// contents under sourceID every time it changes, reusing ParseText's
// variant dialect (spec.md §6.7, following the original CLI's --watch
// convenience). The returned stop func tears down the watch; it is also
// torn down automatically by Reasoner.Close.
func (r *Reasoner) WatchSource(path, sourceID string, variant ontology.Variant) (stop func(), err error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("reter: watch source %q: %w", sourceID, err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("reter: watch source %q: %w", sourceID, err)
	}

	sw := &sourceWatcher{
		watcher:  fw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		debounce: r.cfg.Watch.Debounce,
	}
	log := telemetry.Named(r.log, telemetry.SubsystemWatch).With(zap.String("source", sourceID), zap.String("path", path))

	// Ingest once up front so the source is live immediately, not only
	// after the first subsequent write.
	if err := r.reingest(path, sourceID, variant, log); err != nil {
		log.Warn("initial ingestion failed", zap.Error(err))
	}

	go sw.run(r, path, sourceID, variant, log)

	r.watchers[sourceID] = sw
	return sw.stop, nil
}

func (sw *sourceWatcher) run(r *Reasoner, path, sourceID string, variant ontology.Variant, log *zap.Logger) {
	defer close(sw.doneCh)

	var pending bool
	timer := time.NewTimer(24 * time.Hour)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-sw.stopCh:
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = true
			timer.Reset(sw.debounce)

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Error("watch error", zap.Error(err))

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := r.reingest(path, sourceID, variant, log); err != nil {
				log.Warn("re-ingestion failed", zap.Error(err))
			}
		}
	}
}

// reingest re-asserts every fact in path under sourceID. Re-asserting an
// already-live fact is a no-op (spec.md §4.1), so an unchanged file
// between writes costs nothing beyond the re-parse; a line removed from
// the file is not retracted automatically — WatchSource supplements
// add_source, it does not replace RetractSource for that case.
func (r *Reasoner) reingest(path, sourceID string, variant ontology.Variant, log *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	facts, err := ontology.ParseText(string(data), variant)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, fact := range facts {
		if _, err := r.AssertFact(fact, sourceID); err != nil {
			log.Warn("fact rejected during re-ingestion", zap.Error(err))
		}
	}
	log.Debug("re-ingested source", zap.Int("facts", len(facts)))
	return nil
}
