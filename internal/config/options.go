package config

import "sync"

// Options holds the operator-mutable runtime switches. Operator commands
// and the auto-relist monitor go through the same setters, so turning
// forced bump off from either side looks identical downstream.
type Options struct {
	mu         sync.Mutex
	forcedBump bool
}

func NewOptions(forcedBump bool) *Options {
	return &Options{forcedBump: forcedBump}
}

func (o *Options) ForcedBump() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.forcedBump
}

func (o *Options) SetForcedBump(v bool) {
	o.mu.Lock()
	o.forcedBump = v
	o.mu.Unlock()
}
