package cleandisk

import (
	"fmt"
	"time"
)

const (
	mib = 1 << 20
	gib = 1 << 30
)

// Stats summarizes a finished run.
type Stats struct {
	Start time.Time
	End   time.Time
	// FilesCompleted counts files that got all their passes up to the ceiling.
	FilesCompleted int
	// Ceiling is the nominal size of a completed file.
	Ceiling int64
	// PartialBytes is the length of the file being written when the run
	// ended.
	PartialBytes int64
	// Passes is how many times each file is written.
	Passes          int
	DoubleOverwrite bool
	// BytesWritten is what actually went to disk, overshoot included.
	BytesWritten int64
	// LastFile is the file being written when the run ended.
	LastFile string
	// Cause is the I/O error that ended the run.
	Cause error
}

func (s Stats) Elapsed() time.Duration {
	return s.End.Sub(s.Start)
}

func (s Stats) Minutes() float64 {
	return s.Elapsed().Minutes()
}

// TotalBytes is the amount of disk covered: completed files at their nominal
// size plus the partial file, counted once per pass when double overwrite is
// on.
func (s Stats) TotalBytes() int64 {
	total := int64(s.FilesCompleted)*s.Ceiling + s.PartialBytes
	if s.DoubleOverwrite && s.Passes > 1 {
		total *= int64(s.Passes)
	}
	return total
}

func (s Stats) GB() float64 {
	return float64(s.TotalBytes()) / gib
}

// MBPerMinute is the throughput over the whole run (0 if no time elapsed).
func (s Stats) MBPerMinute() float64 {
	minutes := s.Minutes()
	if minutes <= 0 {
		return 0
	}
	return float64(s.TotalBytes()) / mib / minutes
}

func (s Stats) String() string {
	return fmt.Sprintf("Used: %3.2fMin written ca.:%3.2fGByte performance ca.:%3.2fMB/Min",
		s.Minutes(), s.GB(), s.MBPerMinute())
}
