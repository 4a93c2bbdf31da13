package cleandisk

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/c2h5oh/datasize"
)

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (l *recordingLogger) Infof(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

// writes returns the "Writing ..." progress lines in order.
func (l *recordingLogger) writes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var lines []string
	for _, s := range l.infos {
		if strings.HasPrefix(s, "Writing ") {
			lines = append(lines, s)
		}
	}
	return lines
}

func testConfig(step, ceiling datasize.ByteSize, double bool) Config {
	cfg := DefaultConfig()
	cfg.StepSize = step
	cfg.Ceiling = ceiling
	cfg.DoubleOverwrite = double
	cfg.IdleInterval = Duration(10 * time.Millisecond)
	cfg.PollInterval = Duration(time.Millisecond)
	return cfg
}
