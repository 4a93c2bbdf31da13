package cleandisk

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// A source hands the Filler one buffer of fill data per write pass.
type source interface {
	// acquire blocks until a buffer is ready and claims it.
	acquire(ctx context.Context) (*Buffer, error)
	// release gives back a buffer returned by acquire, whether or not the
	// pass that used it succeeded.
	release(b *Buffer)
}

// doubleBuffered alternates between the two buffers of a set that a Refiller
// keeps filled in the background.
type doubleBuffered struct {
	set      *BufferSet
	refiller *Refiller
	poll     time.Duration
	log      Logger
	active   *Buffer
}

func newDoubleBuffered(set *BufferSet, r *Refiller, poll time.Duration, log Logger) *doubleBuffered {
	return &doubleBuffered{
		set:      set,
		refiller: r,
		poll:     poll,
		log:      orNop(log),
		active:   set.A(),
	}
}

// acquire waits for the active buffer. Each round nudges the refiller; the
// wait ends as soon as the buffer changes state or after the poll interval,
// whichever comes first.
func (s *doubleBuffered) acquire(ctx context.Context) (*Buffer, error) {
	b := s.active
	timer := time.NewTimer(s.poll)
	defer timer.Stop()
	for waited := false; ; waited = true {
		ok, changed := b.TryAcquire()
		if ok {
			return b, nil
		}
		if !waited {
			s.log.Infof("random data %s not ready yet, waiting", b.Name())
		}
		s.refiller.Wake()
		select {
		case <-changed:
		case <-timer.C:
			timer.Reset(s.poll)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (s *doubleBuffered) release(b *Buffer) {
	b.MarkConsumed()
	s.active = s.set.Other(b)
	s.refiller.Wake()
}

// inline generates its single buffer synchronously right before each pass.
type inline struct {
	buf *Buffer
}

func newInline(size int) (*inline, error) {
	if err := checkStepSize(size); err != nil {
		return nil, err
	}
	return &inline{buf: newBuffer("A", size)}, nil
}

func (s *inline) acquire(ctx context.Context) (*Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.buf.Generate()
	if ok, _ := s.buf.TryAcquire(); !ok {
		return nil, errors.Errorf("buffer %s is %s after generating", s.buf.Name(), s.buf.State())
	}
	return s.buf, nil
}

func (s *inline) release(b *Buffer) {
	b.MarkConsumed()
}
