package cleandisk

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/homedev/cleandisk/machine/filesys"
)

// Filler is the consumer: it writes files of random data into a directory
// until the volume refuses a write.
type Filler struct {
	fs      filesys.Filesys
	src     source
	ceiling int64
	passes  int
	double  bool
	log     Logger
}

func newFiller(fs filesys.Filesys, src source, cfg Config, log Logger) *Filler {
	passes := 1
	if cfg.DoubleOverwrite {
		passes = cfg.Passes
	}
	return &Filler{
		fs:      fs,
		src:     src,
		ceiling: int64(cfg.Ceiling),
		passes:  passes,
		double:  cfg.DoubleOverwrite,
		log:     orNop(log),
	}
}

// cursor tracks where the fill loop is.
type cursor struct {
	index int
	name  string
	file  filesys.File
}

func fileName(i int) string {
	return fmt.Sprintf("f%d.dat", i)
}

// selectName creates the first f{i}.dat at or above the cursor's index that
// does not exist yet. Existing files are skipped without being opened.
func (f *Filler) selectName(c *cursor) error {
	for {
		name := fileName(c.index)
		c.index++
		fd, ok, err := f.fs.CreateExcl(name)
		if err != nil {
			return err
		}
		if ok {
			c.name = name
			c.file = fd
			return nil
		}
	}
}

// Fill runs the write loop.
//
// A failed create, write or delete (normally because the disk is full) ends
// the loop; it is recorded in Stats.Cause and Fill returns a nil error. Fill
// only returns an error if ctx is cancelled first.
func (f *Filler) Fill(ctx context.Context) (Stats, error) {
	stats := Stats{
		Start:           time.Now(),
		Ceiling:         f.ceiling,
		Passes:          f.passes,
		DoubleOverwrite: f.double,
	}
	var c cursor
	for {
		if err := ctx.Err(); err != nil {
			stats.End = time.Now()
			return stats, err
		}
		err := f.selectName(&c)
		if err != nil {
			stats.Cause = err
			break
		}
		stats.LastFile = c.name
		err = f.writeFile(ctx, &c, &stats)
		if err != nil {
			if ctx.Err() != nil {
				stats.PartialBytes = f.partialSize(c.name)
				stats.End = time.Now()
				return stats, ctx.Err()
			}
			stats.Cause = err
			stats.PartialBytes = f.partialSize(c.name)
			break
		}
		stats.FilesCompleted++
	}
	stats.End = time.Now()
	return stats, nil
}

// writeFile writes the cursor's file once per pass. The file is already open
// from selectName; later passes delete it and start over with the next
// buffer.
func (f *Filler) writeFile(ctx context.Context, c *cursor, stats *Stats) error {
	for pass := 0; pass < f.passes; pass++ {
		if pass > 0 {
			err := f.fs.Delete(c.name)
			if err != nil {
				return err
			}
			c.file, err = f.fs.Create(c.name)
			if err != nil {
				return err
			}
		}
		b, err := f.src.acquire(ctx)
		if err != nil {
			f.closeFile(c)
			return err
		}
		f.log.Infof("Writing %s with new random data %s", c.name, b.Name())
		n, err := f.streamWrite(ctx, c.file, b.Bytes())
		stats.BytesWritten += n
		f.src.release(b)
		f.closeFile(c)
		if err != nil {
			return err
		}
	}
	return nil
}

// streamWrite appends data to fd until the file reaches the ceiling or ctx is
// cancelled. The last append may go past the ceiling by up to len(data)-1
// bytes.
func (f *Filler) streamWrite(ctx context.Context, fd filesys.File, data []byte) (int64, error) {
	var written int64
	for written < f.ceiling {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, err := f.fs.Append(fd, data)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// closeFile closes the current file. The data is already written, so a
// failure is only reported.
func (f *Filler) closeFile(c *cursor) {
	err := f.fs.Close(c.file)
	if err != nil {
		f.log.Warnf("%v", errors.Wrapf(err, "closing %s", c.name))
	}
}

func (f *Filler) partialSize(name string) int64 {
	size, err := f.fs.Size(name)
	if err != nil {
		return 0
	}
	return size
}
