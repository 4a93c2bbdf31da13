package util

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/c2h5oh/datasize"
	"github.com/davecgh/go-spew/spew"

	"github.com/homedev/cleandisk"
	"github.com/homedev/cleandisk/machine/disk"
	"github.com/homedev/cleandisk/machine/filesys"
)

// Mode is one way of filling a volume (cleandisk.Run or cleandisk.RunSimple).
type Mode func(context.Context, filesys.Filesys, cleandisk.Config, cleandisk.Logger) (cleandisk.Stats, error)

type sizeFlag struct {
	size datasize.ByteSize
	set  bool
}

func (f *sizeFlag) String() string {
	return f.size.String()
}

func (f *sizeFlag) Set(s string) error {
	f.set = true
	return f.size.UnmarshalText([]byte(s))
}

// Clean is the whole command line program: it parses args (without the
// program name), checks the volume and fills it using mode. It returns the
// exit status.
func Clean(ctx context.Context, prog string, mode Mode, args []string, stdout, stderr io.Writer) int {
	con := NewConsole(stdout, stderr)

	fl := flag.NewFlagSet(prog, flag.ContinueOnError)
	fl.SetOutput(stderr)
	fl.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] <volume> [true|false]\n", prog)
		fl.PrintDefaults()
	}
	var configPath string
	fl.StringVar(&configPath, "config", "",
		"toml file overriding the defaults")
	var step, fileSize sizeFlag
	fl.Var(&step, "step", "size of a random data buffer (e.g. 20MB)")
	fl.Var(&fileSize, "file-size", "size of each file written (e.g. 3GB)")
	var debug bool
	fl.BoolVar(&debug, "debug", false, "dump the resolved configuration")

	if err := fl.Parse(args); err != nil {
		return 1
	}
	volume, double, err := ParseArgs(fl.Args())
	if err != nil {
		con.Errorf("%v", err)
		fl.Usage()
		return 1
	}

	cfg, err := cleandisk.ReadConfig(configPath)
	if err != nil {
		con.Errorf("%v", err)
		return 1
	}
	if step.set {
		cfg.StepSize = step.size
	}
	if fileSize.set {
		cfg.Ceiling = fileSize.size
	}
	// the positional switch wins over the config file when it is given
	if fl.NArg() == 2 {
		cfg.DoubleOverwrite = double
	}
	if err := cfg.Validate(); err != nil {
		con.Errorf("invalid configuration: %v", err)
		return 1
	}
	if debug {
		con.Infof("%s", spew.Sdump(cfg))
	}

	if err := CheckVolume(volume); err != nil {
		con.Errorf("%v", err)
		return 1
	}
	if usage, err := disk.Stat(volume); err != nil {
		con.Warnf("%v", err)
	} else {
		con.Infof("Free space on %s: %s of %s (%s used)", volume,
			datasize.ByteSize(usage.Avail).HumanReadable(),
			datasize.ByteSize(usage.Total).HumanReadable(),
			datasize.ByteSize(usage.Used()).HumanReadable())
	}

	dir, err := PrepareDir(volume, cfg.Dir)
	if err != nil {
		con.Errorf("%v", err)
		return 1
	}
	fs, err := filesys.NewDirFs(dir)
	if err != nil {
		con.Errorf("%v", err)
		return 1
	}
	defer func() {
		if err := fs.Release(); err != nil {
			con.Warnf("%v", err)
		}
	}()

	stats, err := mode(ctx, fs, cfg, con)
	if err != nil {
		con.Errorf("%v", err)
		if !stats.Start.IsZero() {
			con.Resultf("%v", stats)
		}
		return 1
	}
	switch {
	case stats.Cause == nil:
	case filesys.IsNoSpace(stats.Cause):
		con.Warnf("Volume full while writing %s: %v", stats.LastFile, stats.Cause)
	default:
		con.Errorf("Stopped at %s: %v", stats.LastFile, stats.Cause)
	}
	con.Resultf("%v", stats)
	con.Infof("Written to disk: %s", datasize.ByteSize(stats.BytesWritten).HumanReadable())
	con.Infof("Normal program termination. Delete directory '%s'", cfg.Dir)
	return 0
}
