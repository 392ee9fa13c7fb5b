// Package audit implements the write-behind batching sink for audit entries.
// Logging is best-effort: delivery is never guaranteed to the caller.
package audit

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

const (
	DefaultBatchSize     = 10
	DefaultFlushInterval = 5 * time.Second

	// DefaultMaxPending is the hard cap on the pending buffer under
	// sustained store outage. Entries beyond it are dropped, not requeued.
	DefaultMaxPending = 100
)

// Sink is the external store the batcher flushes to.
type Sink interface {
	WriteAuditBatch(ctx context.Context, entries []models.AuditEntry) error
}

// Batcher buffers audit entries and flushes them on batch size, on a fixed
// period and on Close. Failed flushes requeue at the front of the pending
// buffer while it stays under the hard cap.
type Batcher struct {
	sink          Sink
	batchSize     int
	flushInterval time.Duration
	maxPending    int

	mu      sync.Mutex
	pending []models.AuditEntry
	dropped int64

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewBatcher creates a batcher and starts its flush timer.
func NewBatcher(sink Sink, batchSize int, flushInterval time.Duration, maxPending int) *Batcher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if flushInterval <= 0 {
		flushInterval = DefaultFlushInterval
	}
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}

	b := &Batcher{
		sink:          sink,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		maxPending:    maxPending,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}

	go b.flushLoop()

	return b
}

// Log enqueues one entry. Fire and forget: overflow and store failures are
// absorbed here, never surfaced to the caller.
func (b *Batcher) Log(entry models.AuditEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	b.mu.Lock()
	b.pending = append(b.pending, entry)
	shouldFlush := len(b.pending) >= b.batchSize
	b.mu.Unlock()

	if shouldFlush {
		b.Flush(context.Background())
	}
}

// Flush attempts to write every pending entry to the sink. On failure the
// batch is re-prepended ahead of entries enqueued meanwhile, bounded by the
// hard cap.
func (b *Batcher) Flush(ctx context.Context) {
	b.mu.Lock()
	if len(b.pending) == 0 {
		b.mu.Unlock()
		return
	}
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()

	if err := b.sink.WriteAuditBatch(ctx, batch); err != nil {
		log.Printf("Warning: audit flush failed (%d entries): %v", len(batch), err)
		b.requeue(batch)
	}
}

// requeue puts failed entries back at the front of the pending buffer in
// their original order, dropping whatever would push the buffer past the cap.
func (b *Batcher) requeue(failed []models.AuditEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := b.maxPending - len(b.pending)
	if room < 0 {
		room = 0
	}

	kept := failed
	if len(kept) > room {
		kept = kept[:room]
	}
	droppedNow := len(failed) - len(kept)

	if droppedNow > 0 {
		b.dropped += int64(droppedNow)
		log.Printf("Warning: audit buffer at cap (%d), dropped %d entries (total dropped: %d)",
			b.maxPending, droppedNow, b.dropped)
	}

	b.pending = append(kept, b.pending...)
}

// PendingCount reports the current pending buffer size.
func (b *Batcher) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// DroppedCount reports how many entries were dropped under the cap policy.
func (b *Batcher) DroppedCount() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close stops the timer and performs a final synchronous flush.
func (b *Batcher) Close() {
	b.stopOnce.Do(func() {
		close(b.stop)
		<-b.done
		b.Flush(context.Background())
	})
}

func (b *Batcher) flushLoop() {
	defer close(b.done)

	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.Flush(context.Background())
		case <-b.stop:
			return
		}
	}
}
