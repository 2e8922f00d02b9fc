// Package poller provides the timer-driven refresh loop used by background
// jobs: a fixed interval, an explicit start/stop lifecycle, and no backoff;
// a failed tick logs and retries on the next one.
package poller

import (
	"context"
	"log/slog"
	"time"
)

// Task is one unit of periodic work.
type Task func(ctx context.Context) error

// Poller re-runs a task on a fixed interval between Start and Stop.
type Poller struct {
	name     string
	interval time.Duration
	task     Task
	ticker   *time.Ticker
	done     chan struct{}
}

// New creates a stopped poller.
func New(name string, interval time.Duration, task Task) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		task:     task,
		done:     make(chan struct{}),
	}
}

// Start launches the loop. The task runs once immediately, then on every
// tick until Stop.
func (p *Poller) Start(ctx context.Context) {
	slog.Info("Starting poller", "name", p.name, "interval", p.interval.String())

	p.ticker = time.NewTicker(p.interval)

	go p.run(ctx)

	go func() {
		for {
			select {
			case <-p.ticker.C:
				go p.run(ctx)
			case <-p.done:
				slog.Info("Poller stopped", "name", p.name)
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the loop. A tick already in flight finishes on its own.
func (p *Poller) Stop() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
	close(p.done)
}

func (p *Poller) run(ctx context.Context) {
	if err := p.task(ctx); err != nil {
		// Silent retry on the next tick
		slog.Error("Poller tick failed", "name", p.name, "error", err)
	}
}
