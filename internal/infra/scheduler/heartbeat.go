package scheduler

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/tradeforge/listsync/internal/usecase/relist"
)

// Heartbeat polls account status on a timer and feeds it to the relist
// monitor. One poll at a time; an overrunning poll just skips a tick.
type Heartbeat struct {
	Monitor  *relist.Monitor
	Interval time.Duration
	Timeout  time.Duration
	Logger   *slog.Logger

	running int32
}

func (h *Heartbeat) Start(ctx context.Context) {
	interval := h.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	go func() {
		// stagger startup so restarts don't align with other timers
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(5+rand.IntN(20)) * time.Second):
		}
		h.beat(ctx, timeout)

		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if !atomic.CompareAndSwapInt32(&h.running, 0, 1) {
					continue
				}
				h.beat(ctx, timeout)
				atomic.StoreInt32(&h.running, 0)
			}
		}
	}()
}

func (h *Heartbeat) beat(ctx context.Context, timeout time.Duration) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	h.Monitor.Heartbeat(cctx)
	if h.Logger != nil {
		h.Logger.Debug("heartbeat", "relist", h.Monitor.Phase())
	}
}
