package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodicRunsAndStops(t *testing.T) {
	var calls int32
	p := NewPeriodic("count", func(context.Context) { atomic.AddInt32(&calls, 1) }, PeriodicConfig{Interval: time.Second})

	p.Start(context.Background())
	p.Start(context.Background())
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 1 }, 3*time.Second, 50*time.Millisecond)

	p.Stop()
	after := atomic.LoadInt32(&calls)
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&calls))
}

func TestPeriodicRecoversFromPanic(t *testing.T) {
	var calls int32
	p := NewPeriodic("panicky", func(context.Context) {
		atomic.AddInt32(&calls, 1)
		panic("boom")
	}, PeriodicConfig{Interval: time.Second})

	p.Start(context.Background())
	defer p.Stop()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 }, 4*time.Second, 50*time.Millisecond)
}

func TestStopWithoutStart(t *testing.T) {
	p := NewPeriodic("idle", func(context.Context) {}, PeriodicConfig{})
	p.Stop()
}
