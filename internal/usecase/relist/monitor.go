// Package relist keeps listings fresh on marketplaces that silently let
// them go stale. Premium accounts get this server-side, so the monitor only
// arms itself for non-premium accounts with the forced-bump option on.
package relist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tradeforge/listsync/internal/config"
	"github.com/tradeforge/listsync/internal/domain/account"
	"github.com/tradeforge/listsync/internal/infra/metrics"
)

type Phase string

const (
	PhaseDisabled Phase = "disabled"
	// PhaseTempDisabled is a status-fetch failure, not an operator choice:
	// the next successful heartbeat re-enables without intervention.
	PhaseTempDisabled Phase = "disabled_temporary"
	PhaseWaiting      Phase = "waiting"
	PhaseRelisting    Phase = "relisting"
)

// Runner is the slice of the sync engine the monitor drives.
type Runner interface {
	RemoveAll(ctx context.Context) error
	ReconcileAll(ctx context.Context, throttled bool) error
}

type Monitor struct {
	Status   account.StatusProvider
	Runner   Runner
	Options  *config.Options
	Interval time.Duration // default 30m
	Logger   *slog.Logger

	mu    sync.Mutex
	phase Phase
	timer *time.Timer
}

func NewMonitor(status account.StatusProvider, runner Runner, opts *config.Options) *Monitor {
	return &Monitor{Status: status, Runner: runner, Options: opts, phase: PhaseDisabled}
}

func (m *Monitor) log() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

func (m *Monitor) interval() time.Duration {
	if m.Interval > 0 {
		return m.Interval
	}
	return 30 * time.Minute
}

func (m *Monitor) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Heartbeat digests one account-status poll and moves the state machine.
// A failed fetch skips this cycle's decision entirely.
func (m *Monitor) Heartbeat(ctx context.Context) {
	st, err := m.Status.Fetch(ctx)
	if err != nil {
		m.log().Warn("account status fetch failed", "err", err)
		m.disable(PhaseTempDisabled)
		return
	}

	if st.Premium {
		if was := m.Phase(); was == PhaseWaiting || was == PhaseRelisting {
			m.log().Info("premium detected, auto-relist off")
		}
		m.disable(PhaseDisabled)
		if m.Options.ForcedBump() {
			// premium makes forced bumping pointless; flip the operator
			// option off through the normal path
			m.Options.SetForcedBump(false)
			m.log().Info("forced bump option turned off")
		}
		return
	}

	if !m.Options.ForcedBump() {
		m.disable(PhaseDisabled)
		return
	}
	m.enable(ctx)
}

func (m *Monitor) enable(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseWaiting || m.phase == PhaseRelisting {
		return
	}
	m.phase = PhaseWaiting
	bg := context.WithoutCancel(ctx)
	m.timer = time.AfterFunc(m.interval(), func() { m.relist(bg) })
	m.log().Info("auto-relist armed", "interval", m.interval())
}

func (m *Monitor) disable(p Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = p
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Monitor) relist(ctx context.Context) {
	m.mu.Lock()
	if m.phase != PhaseWaiting {
		m.mu.Unlock()
		return
	}
	m.phase = PhaseRelisting
	m.mu.Unlock()

	metrics.RelistCycles.Inc()
	m.log().Info("relist cycle: wipe and rebuild")

	if err := m.Runner.RemoveAll(ctx); err != nil {
		m.log().Warn("relist: removal failed", "err", err)
	} else if err := m.Runner.ReconcileAll(ctx, false); err != nil {
		m.log().Warn("relist: rebuild failed", "err", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseRelisting {
		return // disabled while the cycle ran
	}
	m.phase = PhaseWaiting
	m.timer = time.AfterFunc(m.interval(), func() { m.relist(ctx) })
}
