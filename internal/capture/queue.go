// Package capture buffers live-captured URLs and releases them to the
// analysis pipeline in batches.
package capture

import (
	"log"
	"sync"
	"time"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

const (
	// DefaultBatchSize triggers an immediate drain when reached.
	DefaultBatchSize = 10

	// DefaultFlushInterval bounds worst-case capture-to-analysis latency
	// when the batch size is never reached.
	DefaultFlushInterval = 5 * time.Second
)

// BatchSink receives drained batches. Errors are logged, never propagated to
// the capturing caller.
type BatchSink func(batch []models.QueuedURL) error

// Status is the non-mutating snapshot returned by Status().
type Status struct {
	IsCapturing bool `json:"is_capturing"`
	QueueSize   int  `json:"queue_size"`
}

// Queue is the capture buffer state machine: Stopped (initial) -> Start() ->
// Capturing -> Stop() -> Stopped. Restartable; capture while Stopped is a
// silent no-op.
type Queue struct {
	sink          BatchSink
	batchSize     int
	flushInterval time.Duration

	mu        sync.Mutex
	capturing bool
	buffer    []models.QueuedURL
	stopTimer chan struct{}
}

// NewQueue creates a stopped queue draining into sink.
func NewQueue(sink BatchSink, batchSize int, flushInterval time.Duration) *Queue {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if flushInterval <= 0 {
		flushInterval = DefaultFlushInterval
	}

	return &Queue{
		sink:          sink,
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Start transitions to Capturing and arms the periodic drain timer. Starting
// an already capturing queue is a no-op.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.capturing {
		return
	}

	q.capturing = true
	q.buffer = q.buffer[:0]
	q.stopTimer = make(chan struct{})

	go q.timerLoop(q.stopTimer)

	log.Printf("Capture queue started (batch=%d, flush=%s)", q.batchSize, q.flushInterval)
}

// Stop cancels the timer, synchronously drains any remaining buffered items
// and transitions to Stopped. No item is lost on stop.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.capturing {
		q.mu.Unlock()
		return
	}
	q.capturing = false
	close(q.stopTimer)
	q.stopTimer = nil
	batch := q.snapshotLocked()
	q.mu.Unlock()

	q.dispatch(batch)

	log.Printf("Capture queue stopped (final batch: %d items)", len(batch))
}

// Capture appends one item to the buffer. Outside an active session the item
// is silently ignored. Reaching the batch size drains immediately.
func (q *Queue) Capture(item models.QueuedURL) {
	q.mu.Lock()
	if !q.capturing {
		q.mu.Unlock()
		return
	}

	q.buffer = append(q.buffer, item)

	var batch []models.QueuedURL
	if len(q.buffer) >= q.batchSize {
		batch = q.snapshotLocked()
	}
	q.mu.Unlock()

	q.dispatch(batch)
}

// Status reports the current state without mutating it.
func (q *Queue) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()

	return Status{
		IsCapturing: q.capturing,
		QueueSize:   len(q.buffer),
	}
}

// snapshotLocked atomically takes and clears the buffer. Callers must hold
// q.mu; items straddling a drain boundary land in exactly one batch.
func (q *Queue) snapshotLocked() []models.QueuedURL {
	if len(q.buffer) == 0 {
		return nil
	}
	batch := make([]models.QueuedURL, len(q.buffer))
	copy(batch, q.buffer)
	q.buffer = q.buffer[:0]
	return batch
}

func (q *Queue) dispatch(batch []models.QueuedURL) {
	if len(batch) == 0 {
		return
	}
	if err := q.sink(batch); err != nil {
		log.Printf("Warning: capture batch sink failed (%d items): %v", len(batch), err)
	}
}

func (q *Queue) timerLoop(stop chan struct{}) {
	ticker := time.NewTicker(q.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			q.mu.Lock()
			batch := q.snapshotLocked()
			q.mu.Unlock()
			q.dispatch(batch)
		case <-stop:
			return
		}
	}
}
