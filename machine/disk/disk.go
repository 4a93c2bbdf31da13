package disk

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Usage describes the capacity of the volume holding some path, in bytes.
type Usage struct {
	// Total is the size of the volume
	Total uint64
	// Free is the space not used by any file, including blocks reserved for
	// the superuser
	Free uint64
	// Avail is what an unprivileged writer can still fill
	Avail uint64
}

// Used reports how much of the volume is taken.
func (u Usage) Used() uint64 {
	return u.Total - u.Free
}

// Stat reports the usage of the volume that contains path.
func Stat(path string) (Usage, error) {
	var st unix.Statfs_t
	err := unix.Statfs(path, &st)
	if err != nil {
		return Usage{}, errors.Wrapf(err, "statfs %s", path)
	}
	bsize := uint64(st.Bsize)
	return Usage{
		Total: uint64(st.Blocks) * bsize,
		Free:  uint64(st.Bfree) * bsize,
		Avail: uint64(st.Bavail) * bsize,
	}, nil
}
