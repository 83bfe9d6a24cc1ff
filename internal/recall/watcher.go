package recall

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Sma1lboy/ArcticAI/internal/session"
)

// Watcher keeps the recall index in sync with the session directory. Writes
// are debounced so a burst of saves triggers one re-index.
type Watcher struct {
	store   *session.Store
	index   *Index
	watcher *fsnotify.Watcher

	debounceTime time.Duration
	mu           sync.Mutex
	pending      map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher over the store's session directory.
func NewWatcher(store *session.Store, index *Index) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		store:        store,
		index:        index,
		watcher:      fw,
		debounceTime: 500 * time.Millisecond,
		pending:      make(map[string]bool),
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

// Start begins watching. The session directory must exist.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.store.Dir()); err != nil {
		return fmt.Errorf("failed to watch session directory: %w", err)
	}

	w.wg.Add(2)
	go w.eventLoop()
	go w.debounceLoop()
	return nil
}

// Stop stops the watcher and waits for its goroutines.
func (w *Watcher) Stop() error {
	w.cancel()
	w.wg.Wait()
	return w.watcher.Close()
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("WARNING: recall watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".json") {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	id := strings.TrimSuffix(filepath.Base(event.Name), ".json")
	w.mu.Lock()
	// Removes and renames are recorded too; sync decides delete vs re-index.
	w.pending[id] = true
	w.mu.Unlock()
}

func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounceTime)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.sync()
		}
	}
}

// sync re-indexes every pending session, deleting index entries whose
// transcript file is gone.
func (w *Watcher) sync() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	ids := make([]string, 0, len(w.pending))
	for id := range w.pending {
		ids = append(ids, id)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	for _, id := range ids {
		sess, err := w.store.Load(id)
		if err != nil {
			if err := w.index.DeleteSession(id); err != nil {
				log.Printf("WARNING: recall: failed to drop session %s from index: %v", id, err)
			}
			continue
		}
		if err := w.index.IndexSession(sess); err != nil {
			log.Printf("WARNING: recall: failed to index session %s: %v", id, err)
		}
	}
}

// Rebuild indexes every stored session. Used at startup to catch changes made
// while the watcher was not running.
func (w *Watcher) Rebuild() error {
	metas, err := w.store.List()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	for _, meta := range metas {
		sess, err := w.store.Load(meta.ID)
		if err != nil {
			continue
		}
		if err := w.index.IndexSession(sess); err != nil {
			return fmt.Errorf("failed to index session %s: %w", meta.ID, err)
		}
	}
	return nil
}
