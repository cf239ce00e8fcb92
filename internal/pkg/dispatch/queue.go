// Package dispatch is a sequential job queue with a configurable inter-job
// delay: FIFO, one job in flight, the delay grows while the remote side
// signals throttling and decays back once it stops. The same pacing shape
// serves listing writes and alert delivery, so it lives here once.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

// ErrThrottled tells the queue the remote refused the job for rate reasons;
// the job is requeued at the front and the inter-job delay doubles.
var ErrThrottled = errors.New("dispatch: remote throttled")

type Job func(ctx context.Context) error

type Queue struct {
	Delay    time.Duration // base inter-job delay
	MaxDelay time.Duration
	Logger   *slog.Logger

	mu      sync.Mutex
	jobs    []Job
	running bool
	delay   time.Duration
	wake    chan struct{}
}

func New(base, max time.Duration) *Queue {
	if base <= 0 {
		base = 200 * time.Millisecond
	}
	if max < base {
		max = 10 * base
	}
	return &Queue{Delay: base, MaxDelay: max, delay: base}
}

func (q *Queue) log() *slog.Logger {
	if q.Logger != nil {
		return q.Logger
	}
	return slog.Default()
}

// Run drains jobs until ctx is done. Call once, in its own goroutine.
func (q *Queue) Run(ctx context.Context) {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.wake = make(chan struct{}, 1)
	q.mu.Unlock()

	for {
		j, ok := q.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-q.wake:
				continue
			}
		}

		err := j(ctx)
		q.adjust(err)
		if errors.Is(err, ErrThrottled) {
			q.pushFront(j)
		} else if err != nil {
			q.log().Warn("dispatch job failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(q.nextDelay()):
		}
	}
}

func (q *Queue) Enqueue(j Job) {
	q.mu.Lock()
	q.jobs = append(q.jobs, j)
	wake := q.wake
	q.mu.Unlock()
	if wake != nil {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func (q *Queue) pop() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return nil, false
	}
	j := q.jobs[0]
	q.jobs = q.jobs[1:]
	return j, true
}

func (q *Queue) pushFront(j Job) {
	q.mu.Lock()
	q.jobs = append([]Job{j}, q.jobs...)
	q.mu.Unlock()
}

func (q *Queue) adjust(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if errors.Is(err, ErrThrottled) {
		q.delay *= 2
		if q.delay > q.MaxDelay {
			q.delay = q.MaxDelay
		}
		return
	}
	// decay back toward the base once the remote stops pushing back
	if q.delay > q.Delay {
		q.delay /= 2
		if q.delay < q.Delay {
			q.delay = q.Delay
		}
	}
}

func (q *Queue) nextDelay() time.Duration {
	q.mu.Lock()
	d := q.delay
	q.mu.Unlock()
	// jitter 25%
	return d + time.Duration(rand.Int63n(int64(d)/4+1))
}

// CurrentDelay exposes the live inter-job delay, mainly for tests and gauges.
func (q *Queue) CurrentDelay() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.delay
}
