package sync

import (
	"context"
	"log/slog"
	"time"
)

// LayoutSource refetches tables and fixtures from the backend.
type LayoutSource interface {
	RefreshLayout(ctx context.Context) error
}

// Poller reconciles the working copy on an interval, covering anything the
// feed missed. Cycles are skipped while a gesture is in flight so a
// refetch never fights the pointer.
type Poller struct {
	interval time.Duration
	layout   LayoutSource
	center   *Center
	busy     func() bool
	log      *slog.Logger
}

func NewPoller(interval time.Duration, layout LayoutSource, center *Center, busy func() bool, log *slog.Logger) *Poller {
	if interval == 0 {
		interval = 5 * time.Second
	}
	return &Poller{interval: interval, layout: layout, center: center, busy: busy, log: log}
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick runs one reconciliation cycle.
func (p *Poller) Tick(ctx context.Context) {
	if p.busy != nil && p.busy() {
		return
	}

	if err := p.layout.RefreshLayout(ctx); err != nil {
		p.log.Warn("layout poll failed", "error", err)
	}
	if err := p.center.Poll(ctx); err != nil {
		p.log.Warn("notification poll failed", "error", err)
	}
}
