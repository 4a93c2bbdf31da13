package cleandisk

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Refiller is the producer: it regenerates every consumed buffer of a
// BufferSet and otherwise sleeps.
type Refiller struct {
	set  *BufferSet
	idle time.Duration

	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
}

// NewRefiller creates a Refiller for set that checks the buffers at least
// every idle interval.
func NewRefiller(set *BufferSet, idle time.Duration) *Refiller {
	return &Refiller{
		set:  set,
		idle: idle,
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
}

// Run regenerates buffers until Stop is called or ctx is done. It always
// returns nil; the error result lets it run on an errgroup.
func (r *Refiller) Run(ctx context.Context) error {
	timer := time.NewTimer(r.idle)
	defer timer.Stop()
	for {
		for _, b := range r.set.Buffers() {
			if r.stopped.Load() || ctx.Err() != nil {
				return nil
			}
			b.Generate()
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(r.idle)
		select {
		case <-r.wake:
		case <-timer.C:
		case <-r.stop:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// Wake cuts the current idle sleep short. It never blocks, and several wakes
// before the Refiller gets to run collapse into one.
func (r *Refiller) Wake() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Stop asks Run to return. It does not block and may be called more than
// once. Run checks for it before every buffer, so at most the generation
// already under way completes.
func (r *Refiller) Stop() {
	r.stopOnce.Do(func() {
		r.stopped.Store(true)
		close(r.stop)
	})
}
