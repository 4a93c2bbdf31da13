// Command cleandisk overwrites the free space of a volume with random data.
// One goroutine writes files while another refills the buffer just written.
package main

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/homedev/cleandisk"
	"github.com/homedev/cleandisk/util"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	code := util.Clean(ctx, "cleandisk", cleandisk.Run, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
