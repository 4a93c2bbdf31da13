// Command cleandisk-simple is cleandisk without the background refill: each
// buffer of random data is generated right before it is written.
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
	code := util.Clean(ctx, "cleandisk-simple", cleandisk.RunSimple, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
