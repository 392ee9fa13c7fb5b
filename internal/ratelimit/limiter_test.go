package ratelimit_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/ratelimit"
)

func TestCheckLimit_AdmitsUpToLimit(t *testing.T) {
	l := ratelimit.New(time.Minute)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		decision := l.CheckLimit("1.2.3.4:analyze", 5, time.Minute)
		assert.True(t, decision.Allowed, "call %d should be admitted", i+1)
		assert.Equal(t, 5-(i+1), decision.Remaining)
	}
}

func TestCheckLimit_RejectsOverLimit(t *testing.T) {
	l := ratelimit.New(time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.CheckLimit("1.2.3.4:analyze", 3, time.Minute)
	}

	decision := l.CheckLimit("1.2.3.4:analyze", 3, time.Minute)
	require.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
	assert.Greater(t, decision.RetryAfter, int64(0))
	assert.GreaterOrEqual(t, decision.ResetAt, time.Now().Unix())
}

func TestCheckLimit_NewWindowAfterReset(t *testing.T) {
	l := ratelimit.New(time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.CheckLimit("1.2.3.4:analyze", 2, 20*time.Millisecond)
	}

	time.Sleep(40 * time.Millisecond)

	decision := l.CheckLimit("1.2.3.4:analyze", 2, 20*time.Millisecond)
	require.True(t, decision.Allowed, "a fresh window admits the first call")
	assert.Equal(t, 1, decision.Remaining)
}

func TestCheckLimit_IdentifiersAreIndependent(t *testing.T) {
	l := ratelimit.New(time.Minute)
	defer l.Stop()

	for i := 0; i < 2; i++ {
		l.CheckLimit("1.2.3.4:analyze", 2, time.Minute)
	}

	rejected := l.CheckLimit("1.2.3.4:analyze", 2, time.Minute)
	assert.False(t, rejected.Allowed)

	other := l.CheckLimit("5.6.7.8:analyze", 2, time.Minute)
	assert.True(t, other.Allowed, "another caller's window is unaffected")

	sameIPOtherRoute := l.CheckLimit("1.2.3.4:query", 2, time.Minute)
	assert.True(t, sameIPOtherRoute.Allowed, "another route class is unaffected")
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "10.0.0.1:upload", ratelimit.Identifier("10.0.0.1", "upload"))
}

func TestCheckLimit_ConcurrentCallersRespectLimit(t *testing.T) {
	l := ratelimit.New(time.Minute)
	defer l.Stop()

	const limit = 50
	var admitted int64
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.CheckLimit("9.9.9.9:analyze", limit, time.Minute).Allowed {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), admitted)
}

func TestSweep_RemovesStaleWindows(t *testing.T) {
	l := ratelimit.New(20 * time.Millisecond)
	defer l.Stop()

	l.CheckLimit("1.1.1.1:analyze", 5, 10*time.Millisecond)
	l.CheckLimit("2.2.2.2:analyze", 5, time.Minute)

	assert.Eventually(t, func() bool {
		return l.ActiveWindows() == 1
	}, time.Second, 10*time.Millisecond)
}
