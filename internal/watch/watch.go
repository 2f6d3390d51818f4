// Package watch watches a directory of paired *.gt.bracket / *.pred.bracket
// files and re-runs the TEDS evaluation for a pair whenever either side is
// saved. It is a direct port of the teacher's internal/watcher package,
// re-themed from re-indexing a changed file to re-scoring a changed
// evaluation pair, with the same fsnotify + debounce-timer design.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/docling-project/docling-metrics/internal/store"
	"github.com/docling-project/docling-metrics/internal/teds"
)

const (
	gtSuffix   = ".gt.bracket"
	predSuffix = ".pred.bracket"
)

// Watcher re-evaluates a paired sample whenever one of its two files is
// saved, persisting the resulting SampleEval into a Store under a single
// run id generated at construction time.
type Watcher struct {
	fw       *fsnotify.Watcher
	mgr      *teds.Manager
	st       *store.Store
	runID    string
	debounce time.Duration
	onResult func(teds.SampleEval)
}

// New creates a Watcher backed by mgr and st, persisting every result
// under a freshly generated run id. onResult, if non-nil, is called with
// every result in addition to it being persisted — the CLI uses it to
// print progress.
func New(mgr *teds.Manager, st *store.Store, debounce time.Duration, onResult func(teds.SampleEval)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: fsnotify: %w", err)
	}
	return &Watcher{
		fw: fw, mgr: mgr, st: st,
		runID: uuid.NewString(), debounce: debounce, onResult: onResult,
	}, nil
}

// RunID returns the run id this Watcher tags every result with.
func (w *Watcher) RunID() string { return w.runID }

// Watch adds rootDir to the watch list and processes events until done is
// closed. Call this in a goroutine; it blocks.
func (w *Watcher) Watch(rootDir string, done <-chan struct{}) error {
	if err := w.fw.Add(rootDir); err != nil {
		return fmt.Errorf("watch %s: %w", rootDir, err)
	}

	pending := make(map[string]*time.Timer)

	for {
		select {
		case <-done:
			return w.fw.Close()

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			path := event.Name
			base, ok := sampleBase(path)
			if !ok {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if t, ok := pending[base]; ok {
				t.Stop()
			}
			dir := filepath.Dir(path)
			pending[base] = time.AfterFunc(w.debounce, func() {
				w.reevaluate(dir, base)
			})

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "[watch] error: %v\n", err)
		}
	}
}

// reevaluate reads both sides of a sample pair and, if both are present,
// scores and persists the result.
func (w *Watcher) reevaluate(dir, base string) {
	gtPath := filepath.Join(dir, base+gtSuffix)
	predPath := filepath.Join(dir, base+predSuffix)

	gt, err := os.ReadFile(gtPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[watch] %s: waiting on ground truth: %v\n", base, err)
		return
	}
	pred, err := os.ReadFile(predPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[watch] %s: waiting on prediction: %v\n", base, err)
		return
	}

	result := w.mgr.EvaluateSample(base, string(gt), string(pred))
	if err := w.st.Insert(w.runID, result); err != nil {
		fmt.Fprintf(os.Stderr, "[watch] %s: store error: %v\n", base, err)
		return
	}
	if w.onResult != nil {
		w.onResult(result)
	}
}

// sampleBase strips a recognized suffix from path's base name, returning
// the shared sample id and whether path matched one of the two suffixes.
func sampleBase(path string) (string, bool) {
	name := filepath.Base(path)
	if strings.HasSuffix(name, gtSuffix) {
		return strings.TrimSuffix(name, gtSuffix), true
	}
	if strings.HasSuffix(name, predSuffix) {
		return strings.TrimSuffix(name, predSuffix), true
	}
	return "", false
}
