package cleandisk

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/homedev/cleandisk/machine"
)

// BufferState is where a Buffer is in its fill/drain cycle.
type BufferState int

const (
	// Empty buffers hold stale data (or none yet) and may be regenerated.
	Empty BufferState = iota
	Filling
	Ready
	Draining
)

func (s BufferState) String() string {
	switch s {
	case Empty:
		return "empty"
	case Filling:
		return "filling"
	case Ready:
		return "ready"
	case Draining:
		return "draining"
	}
	return "invalid"
}

// Buffer is a fixed-size block of random fill data plus the state that decides
// who may touch it.
//
// The state moves Empty -> Filling -> Ready -> Draining -> Empty. Only the
// goroutine that moved a buffer to Filling writes its bytes, and only the
// goroutine that moved it to Draining reads them, so the bytes themselves are
// never accessed under the lock.
type Buffer struct {
	name string
	data []byte
	rng  *rand.Rand

	mu    sync.Mutex
	state BufferState
	// closed and replaced on every state change
	changed chan struct{}

	// instrumentation
	users       atomic.Int32
	overlaps    atomic.Uint64
	generations atomic.Uint64
}

func newBuffer(name string, size int) *Buffer {
	return &Buffer{
		name:    name,
		data:    make([]byte, size),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		changed: make(chan struct{}),
	}
}

func (b *Buffer) Name() string {
	return b.name
}

func (b *Buffer) Len() int {
	return len(b.data)
}

// requires b.mu held
func (b *Buffer) setState(s BufferState) {
	b.state = s
	close(b.changed)
	b.changed = make(chan struct{})
}

func (b *Buffer) State() BufferState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// enter and exit bracket every access to b.data so tests can check that a
// fill and a drain never run at the same time.
func (b *Buffer) enter() {
	if b.users.Add(1) > 1 {
		b.overlaps.Add(1)
	}
}

func (b *Buffer) exit() {
	b.users.Add(-1)
}

// Generate refills an Empty buffer with fresh random data and makes it Ready.
//
// In any other state it does nothing and returns false; in particular a Ready
// buffer keeps its content bit for bit.
func (b *Buffer) Generate() bool {
	b.mu.Lock()
	if b.state != Empty {
		b.mu.Unlock()
		return false
	}
	b.setState(Filling)
	b.mu.Unlock()

	b.enter()
	machine.FillUInt32(b.data, b.rng.Uint32)
	b.exit()

	b.generations.Add(1)
	b.mu.Lock()
	b.setState(Ready)
	b.mu.Unlock()
	return true
}

// IsReady reports whether the buffer holds fresh data nobody has started
// writing yet.
func (b *Buffer) IsReady() bool {
	return b.State() == Ready
}

// TryAcquire claims a Ready buffer for writing.
//
// If the buffer is not Ready it returns false and a channel that is closed at
// the buffer's next state change.
func (b *Buffer) TryAcquire() (ok bool, changed <-chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Ready {
		return false, b.changed
	}
	b.setState(Draining)
	b.enter()
	return true, nil
}

// MarkConsumed hands the buffer back to the producer once all reads of its
// content are done.
func (b *Buffer) MarkConsumed() {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case Draining:
		b.exit()
		b.setState(Empty)
	case Ready:
		b.setState(Empty)
	}
}

// Bytes returns the buffer content.
//
// Only valid between a successful TryAcquire and the matching MarkConsumed.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Overlaps counts the times a fill and a drain of this buffer were in flight
// at once. Always zero unless the state machine is broken.
func (b *Buffer) Overlaps() uint64 {
	return b.overlaps.Load()
}

// Generations counts completed fills.
func (b *Buffer) Generations() uint64 {
	return b.generations.Load()
}

// BufferSet is the pair of buffers shared by the producer and the consumer.
type BufferSet struct {
	a, b *Buffer
}

// NewBufferSet allocates two buffers of size bytes each.
//
// size must be a positive multiple of 4, since the data is produced one
// 32-bit word at a time.
func NewBufferSet(size int) (*BufferSet, error) {
	if err := checkStepSize(size); err != nil {
		return nil, err
	}
	return &BufferSet{
		a: newBuffer("A", size),
		b: newBuffer("B", size),
	}, nil
}

func checkStepSize(size int) error {
	if size <= 0 {
		return errors.Errorf("buffer size must be positive (got %d)", size)
	}
	if size%4 != 0 {
		return errors.Errorf("buffer size must be a multiple of 4 (got %d)", size)
	}
	return nil
}

func (s *BufferSet) A() *Buffer {
	return s.a
}

func (s *BufferSet) B() *Buffer {
	return s.b
}

// Other returns the companion of buf: A for B and B for A.
func (s *BufferSet) Other(buf *Buffer) *Buffer {
	if buf == s.a {
		return s.b
	}
	return s.a
}

// Buffers returns both buffers, A first.
func (s *BufferSet) Buffers() []*Buffer {
	return []*Buffer{s.a, s.b}
}
