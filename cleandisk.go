// Package cleandisk overwrites the free space of a volume with random data,
// so that deleted files can no longer be recovered from a disk image.
//
// Files of Config.Ceiling bytes are written one after another until the
// volume is full. Run keeps two buffers of random data and refills one in the
// background while the other is written; RunSimple does everything on the
// calling goroutine with a single buffer.
package cleandisk

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/homedev/cleandisk/machine/filesys"
)

// Run fills fs using a background Refiller and two buffers.
//
// Running out of space is the expected end of a run and is reported in
// Stats.Cause, not as an error.
func Run(ctx context.Context, fs filesys.Filesys, cfg Config, log Logger) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	set, err := NewBufferSet(int(cfg.StepSize))
	if err != nil {
		return Stats{}, err
	}
	refiller := NewRefiller(set, cfg.IdleInterval.Duration())
	filler := newFiller(fs,
		newDoubleBuffered(set, refiller, cfg.PollInterval.Duration(), log),
		cfg, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return refiller.Run(gctx)
	})
	var stats Stats
	g.Go(func() error {
		defer refiller.Stop()
		var err error
		stats, err = filler.Fill(gctx)
		return err
	})
	err = g.Wait()
	return stats, err
}

// RunSimple fills fs without any background work: a single buffer is
// regenerated right before each pass.
func RunSimple(ctx context.Context, fs filesys.Filesys, cfg Config, log Logger) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	src, err := newInline(int(cfg.StepSize))
	if err != nil {
		return Stats{}, err
	}
	return newFiller(fs, src, cfg, log).Fill(ctx)
}
