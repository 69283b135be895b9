// internal/app/system/reconcile/reconciler.go
package reconcile

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/learnloop/learnloop/internal/app/store/persist"
	"github.com/learnloop/learnloop/internal/domain/models"
)

// Reconciler is a background worker that re-reads the message and
// response partitions on an interval so every process sees writes made
// through other paths. It keeps an in-memory snapshot that readers
// consume; a failed read leaves the previous snapshot in place.
type Reconciler struct {
	store    persist.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	refresh  chan chan error

	runMu   sync.Mutex
	running bool

	mu        sync.RWMutex
	messages  []models.Message
	responses []models.Response
	syncedAt  time.Time
}

// NewReconciler creates a new reconcile worker.
func NewReconciler(store persist.Store, logger *zap.Logger, interval time.Duration) *Reconciler {
	return &Reconciler{
		store:    store,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
		refresh:  make(chan chan error),
	}
}

// Start primes the snapshot and begins the background loop.
func (w *Reconciler) Start(ctx context.Context) {
	if err := w.reconcile(ctx); err != nil {
		w.log.Warn("initial reconcile failed; starting with empty snapshot", zap.Error(err))
	}
	w.runMu.Lock()
	w.running = true
	w.runMu.Unlock()
	w.wg.Add(1)
	go w.run()
	w.log.Info("reconcile worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *Reconciler) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.runMu.Lock()
	w.running = false
	w.runMu.Unlock()
	w.log.Info("reconcile worker stopped")
}

// Refresh forces an immediate reconcile and resets the interval timer,
// so a caller that just wrote does not wait a full tick to observe its
// own write alongside everyone else's. Without a running loop there is
// no timer to reset, so the reconcile happens on the caller's goroutine.
func (w *Reconciler) Refresh(ctx context.Context) error {
	w.runMu.Lock()
	running := w.running
	w.runMu.Unlock()
	if !running {
		return w.reconcile(ctx)
	}

	done := make(chan error, 1)
	select {
	case w.refresh <- done:
	case <-w.stopCh:
		return w.reconcile(ctx)
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Messages returns the current snapshot of messages for a group in
// append order.
func (w *Reconciler) Messages(groupID string) []models.Message {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []models.Message
	for _, m := range w.messages {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out
}

// Responses returns the current snapshot of responses for a message.
func (w *Reconciler) Responses(messageID string) []models.Response {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []models.Response
	for _, r := range w.responses {
		if r.MessageID == messageID {
			out = append(out, r)
		}
	}
	return out
}

// HasResponded reports whether the user already answered the message
// according to the current snapshot.
func (w *Reconciler) HasResponded(messageID, userID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, r := range w.responses {
		if r.MessageID == messageID && r.UserID == userID {
			return true
		}
	}
	return false
}

// SyncedAt returns when the snapshot was last refreshed successfully.
func (w *Reconciler) SyncedAt() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.syncedAt
}

func (w *Reconciler) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case done := <-w.refresh:
			done <- w.tick()
			ticker.Reset(w.interval)
		case <-ticker.C:
			if err := w.tick(); err != nil {
				w.log.Error("reconcile failed; keeping previous snapshot", zap.Error(err))
			}
		}
	}
}

func (w *Reconciler) tick() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return w.reconcile(ctx)
}

// reconcile replaces the snapshot only when both partition reads
// succeed, so readers never observe a half-refreshed view.
func (w *Reconciler) reconcile(ctx context.Context) error {
	var messages []models.Message
	if err := w.store.Read(ctx, persist.PartitionMessages, &messages); err != nil {
		return err
	}
	var responses []models.Response
	if err := w.store.Read(ctx, persist.PartitionResponses, &responses); err != nil {
		return err
	}

	w.mu.Lock()
	w.messages = messages
	w.responses = responses
	w.syncedAt = time.Now().UTC()
	w.mu.Unlock()
	return nil
}
