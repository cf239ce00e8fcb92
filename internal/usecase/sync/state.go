package sync

import "sync"

// State is the per-account operation state: one sweep and one removal at a
// time, cooperative sweep cancellation, and a queue that collapses callers
// arriving while a removal is in flight into a single deferred invocation
// per operation name.
type State struct {
	mu       sync.Mutex
	sweeping bool
	removing bool
	cancel   bool
	deferred map[string]func()
}

func NewState() *State {
	return &State{deferred: make(map[string]func())}
}

// BeginSweep reports whether the caller may run the sweep now. While a
// removal is in flight the sweep is queued instead (first caller wins, later
// callers collapse into it); a sweep already running absorbs the request.
func (s *State) BeginSweep(queued func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removing {
		if _, ok := s.deferred["sweep"]; !ok {
			s.deferred["sweep"] = queued
		}
		return false
	}
	if s.sweeping {
		return false
	}
	s.sweeping = true
	return true
}

// EndSweep clears the sweep and cancel flags so the next run starts clean.
func (s *State) EndSweep() {
	s.mu.Lock()
	s.sweeping = false
	s.cancel = false
	s.mu.Unlock()
}

// CancelSweep asks a running sweep to exit at its next iteration boundary.
func (s *State) CancelSweep() {
	s.mu.Lock()
	if s.sweeping {
		s.cancel = true
	}
	s.mu.Unlock()
}

func (s *State) CancelRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel
}

// BeginRemoval reports whether the caller may run the removal now;
// concurrent callers collapse into one queued follow-up.
func (s *State) BeginRemoval(queued func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removing {
		if _, ok := s.deferred["removal"]; !ok {
			s.deferred["removal"] = queued
		}
		return false
	}
	s.removing = true
	return true
}

// EndRemoval clears the removal flag and hands back whatever was queued
// behind it, in a stable order (removal follow-up before sweep).
func (s *State) EndRemoval() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removing = false
	var out []func()
	for _, k := range []string{"removal", "sweep"} {
		if fn, ok := s.deferred[k]; ok {
			out = append(out, fn)
			delete(s.deferred, k)
		}
	}
	return out
}

func (s *State) Sweeping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweeping
}

func (s *State) Removing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removing
}
