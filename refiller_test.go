package cleandisk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRefiller(t *testing.T, r *Refiller) <-chan error {
	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()
	t.Cleanup(r.Stop)
	return done
}

func waitDone(t *testing.T, done <-chan error) {
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("refiller did not stop")
	}
}

func TestRefillerFillsBothBuffers(t *testing.T) {
	set, err := NewBufferSet(1024)
	require.NoError(t, err)
	r := NewRefiller(set, time.Hour)
	done := startRefiller(t, r)

	assert.Eventually(t, func() bool {
		return set.A().IsReady() && set.B().IsReady()
	}, 5*time.Second, time.Millisecond)

	r.Stop()
	waitDone(t, done)
}

func TestRefillerWake(t *testing.T) {
	set, err := NewBufferSet(1024)
	require.NoError(t, err)
	// without a wake-up the second generation would take an hour
	r := NewRefiller(set, time.Hour)
	startRefiller(t, r)
	require.Eventually(t, func() bool {
		return set.A().IsReady() && set.B().IsReady()
	}, 5*time.Second, time.Millisecond)

	ok, _ := set.A().TryAcquire()
	require.True(t, ok)
	set.A().MarkConsumed()
	r.Wake()

	assert.Eventually(t, func() bool {
		return set.A().IsReady()
	}, 5*time.Second, time.Millisecond)
	assert.Equal(t, uint64(2), set.A().Generations())
	assert.Equal(t, uint64(1), set.B().Generations())
}

func TestRefillerWakeDoesNotBlock(t *testing.T) {
	set, err := NewBufferSet(16)
	require.NoError(t, err)
	r := NewRefiller(set, time.Hour)
	// nobody is running the loop
	for i := 0; i < 10; i++ {
		r.Wake()
	}
}

func TestRefillerStopBeforeRun(t *testing.T) {
	set, err := NewBufferSet(16)
	require.NoError(t, err)
	r := NewRefiller(set, time.Hour)
	r.Stop()
	r.Stop()
	require.NoError(t, r.Run(context.Background()))
	assert.Zero(t, set.A().Generations())
	assert.Zero(t, set.B().Generations())
}

func TestRefillerStopsOnContext(t *testing.T) {
	set, err := NewBufferSet(16)
	require.NoError(t, err)
	r := NewRefiller(set, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()
	waitDone(t, done)
}

func TestRefillerNoGenerationAfterStop(t *testing.T) {
	set, err := NewBufferSet(1024)
	require.NoError(t, err)
	r := NewRefiller(set, time.Millisecond)
	done := startRefiller(t, r)
	require.Eventually(t, func() bool {
		return set.A().IsReady() && set.B().IsReady()
	}, 5*time.Second, time.Millisecond)

	r.Stop()
	waitDone(t, done)
	set.A().MarkConsumed()
	set.B().MarkConsumed()
	r.Wake()
	time.Sleep(20 * time.Millisecond)
	assert.False(t, set.A().IsReady())
	assert.False(t, set.B().IsReady())
}
