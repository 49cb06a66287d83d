package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is invoked on every tick.
type Task func(context.Context)

// PeriodicConfig configures a Periodic runner.
type PeriodicConfig struct {
	Interval time.Duration
	Logger   *zap.Logger
}

// Periodic runs a task on a fixed interval in a single goroutine.
type Periodic struct {
	name     string
	task     Task
	interval time.Duration
	logger   *zap.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewPeriodic builds a runner. Intervals below one second are raised to one
// second.
func NewPeriodic(name string, task Task, cfg PeriodicConfig) *Periodic {
	if cfg.Interval < time.Second {
		cfg.Interval = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Periodic{name: name, task: task, interval: cfg.Interval, logger: cfg.Logger}
}

// Start launches the ticker goroutine. Safe to call once.
func (p *Periodic) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	var runCtx context.Context
	runCtx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go p.loop(runCtx)
	p.started = true
	p.logger.Sugar().Infow("periodic task started", "task", p.name, "interval", p.interval)
}

// Stop cancels the loop and waits for it to exit.
func (p *Periodic) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.started = false
	p.mu.Unlock()
	p.wg.Wait()
	p.logger.Sugar().Infow("periodic task stopped", "task", p.name)
}

func (p *Periodic) loop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.run(ctx)
		}
	}
}

func (p *Periodic) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Sugar().Errorw("periodic task panicked", "task", p.name, "panic", r)
		}
	}()
	p.task(ctx)
}
