package filesys

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// A File is a file descriptor
// (either a real OS fd or an in-memory "inode number")
type File int

func (f File) fd() int {
	return int(f)
}

// Filesys provides access to a single directory.
//
// All names are plain file names relative to that directory.
type Filesys interface {
	// CreateExcl creates fname for writing. It reports ok=false, without
	// touching the existing file, if fname is already taken.
	CreateExcl(fname string) (f File, ok bool, err error)
	// Create creates fname for writing, truncating it if it exists.
	Create(fname string) (File, error)
	// Append writes data at the end of f. On error n is the number of bytes
	// of data that did reach the file.
	Append(f File, data []byte) (n int, err error)
	Close(f File) error
	Delete(fname string) error
	// Size reports the current length of fname.
	Size(fname string) (int64, error)
}

// IsNoSpace reports whether err means the volume (or the user's quota on it)
// is full.
func IsNoSpace(err error) bool {
	return errors.Is(err, unix.ENOSPC) || errors.Is(err, unix.EDQUOT)
}
