package capture_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/capture"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

type recordingSink struct {
	mu      sync.Mutex
	batches [][]models.QueuedURL
}

func (s *recordingSink) sink(batch []models.QueuedURL) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, batch)
	return nil
}

func (s *recordingSink) batchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func (s *recordingSink) totalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, b := range s.batches {
		total += len(b)
	}
	return total
}

func item(n int) models.QueuedURL {
	return models.QueuedURL{
		URL:        fmt.Sprintf("http://e.com/page%d", n),
		Method:     "GET",
		SourceIP:   "10.0.0.1",
		CapturedAt: time.Now(),
	}
}

func TestQueue_CaptureWhileStoppedIsNoOp(t *testing.T) {
	s := &recordingSink{}
	q := capture.NewQueue(s.sink, 10, time.Minute)

	q.Capture(item(1))

	status := q.Status()
	assert.False(t, status.IsCapturing)
	assert.Equal(t, 0, status.QueueSize)
	assert.Equal(t, 0, s.batchCount())
}

func TestQueue_BatchSizeTriggersSingleDispatchInOrder(t *testing.T) {
	s := &recordingSink{}
	q := capture.NewQueue(s.sink, 10, time.Minute)

	q.Start()
	defer q.Stop()

	for i := 0; i < 10; i++ {
		q.Capture(item(i))
	}

	require.Equal(t, 1, s.batchCount())
	batch := s.batches[0]
	require.Len(t, batch, 10)
	for i, got := range batch {
		assert.Equal(t, fmt.Sprintf("http://e.com/page%d", i), got.URL, "submission order preserved")
	}
	assert.Equal(t, 0, q.Status().QueueSize)
}

func TestQueue_StopDrainsPartialBatch(t *testing.T) {
	s := &recordingSink{}
	q := capture.NewQueue(s.sink, 10, time.Minute)

	q.Start()
	for i := 0; i < 3; i++ {
		q.Capture(item(i))
	}

	q.Stop()

	require.Equal(t, 1, s.batchCount())
	assert.Len(t, s.batches[0], 3)

	status := q.Status()
	assert.False(t, status.IsCapturing)
	assert.Equal(t, 0, status.QueueSize)
}

func TestQueue_TimerDrainsBufferedItems(t *testing.T) {
	s := &recordingSink{}
	q := capture.NewQueue(s.sink, 100, 20*time.Millisecond)

	q.Start()
	defer q.Stop()

	q.Capture(item(1))
	q.Capture(item(2))

	assert.Eventually(t, func() bool {
		return s.totalItems() == 2
	}, time.Second, 10*time.Millisecond, "timer flush should drain the partial buffer")
}

func TestQueue_EmptyTimerTickDispatchesNothing(t *testing.T) {
	s := &recordingSink{}
	q := capture.NewQueue(s.sink, 10, 10*time.Millisecond)

	q.Start()
	time.Sleep(50 * time.Millisecond)
	q.Stop()

	assert.Equal(t, 0, s.batchCount())
}

func TestQueue_IsRestartable(t *testing.T) {
	s := &recordingSink{}
	q := capture.NewQueue(s.sink, 10, time.Minute)

	q.Start()
	q.Capture(item(1))
	q.Stop()

	q.Start()
	q.Capture(item(2))
	q.Stop()

	assert.Equal(t, 2, s.batchCount())
	assert.Equal(t, 2, s.totalItems())
}

func TestQueue_ConcurrentCapturesLoseNothing(t *testing.T) {
	s := &recordingSink{}
	q := capture.NewQueue(s.sink, 10, 10*time.Millisecond)

	q.Start()

	var wg sync.WaitGroup
	const total = 200
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			q.Capture(item(n))
		}(i)
	}
	wg.Wait()

	q.Stop()

	assert.Equal(t, total, s.totalItems(), "no item dropped or double-processed across drain boundaries")
}
