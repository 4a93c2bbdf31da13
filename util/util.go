// Package util holds the command-line driver shared by the cleandisk
// binaries.
package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

var (
	ErrNotExist    = errors.New("does not exist")
	ErrNotDir      = errors.New("is not a directory")
	ErrNotWritable = errors.New("is not writable")
)

// ParseArgs splits the positional arguments into the volume and the double
// overwrite switch. Only a case-insensitive "true" turns the switch on.
func ParseArgs(args []string) (volume string, double bool, err error) {
	if len(args) < 1 || len(args) > 2 {
		return "", false, errors.New("expected <volume> [true|false]")
	}
	volume = args[0]
	if len(args) == 2 {
		double = strings.EqualFold(args[1], "true")
	}
	return volume, double, nil
}

// CheckVolume verifies that path is an existing directory the process may
// write to.
func CheckVolume(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(ErrNotExist, "volume %s", path)
	} else if err != nil {
		return errors.Wrapf(err, "volume %s", path)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrNotDir, "volume %s", path)
	}
	if err := unix.Access(path, unix.W_OK); err != nil {
		return errors.Wrapf(ErrNotWritable, "volume %s", path)
	}
	return nil
}

// PrepareDir creates the working directory name under volume if it is not
// there yet and returns its path.
func PrepareDir(volume, name string) (string, error) {
	dir := filepath.Join(volume, name)
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return "", errors.Wrapf(err, "could not create %s", dir)
	}
	return dir, nil
}
