package filesys

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// DirFs is a Filesys backed by a directory on some host filesystem.
type DirFs struct {
	rootFd int
}

var _ Filesys = DirFs{}

// NewDirFs creates a DirFs using root as the directory for all operations.
func NewDirFs(root string) (DirFs, error) {
	rootFd, err := unix.Open(root, unix.O_DIRECTORY|unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return DirFs{}, errors.Wrapf(err, "open %s", root)
	}
	return DirFs{rootFd: rootFd}, nil
}

// Release closes the root directory. The DirFs is unusable afterwards.
func (fs DirFs) Release() error {
	return unix.Close(fs.rootFd)
}

func (fs DirFs) CreateExcl(fname string) (f File, ok bool, err error) {
	fd, err := unix.Openat(fs.rootFd, fname,
		unix.O_CREAT|unix.O_EXCL|unix.O_WRONLY|unix.O_CLOEXEC, 0644)
	if err == unix.EEXIST {
		return File(-1), false, nil
	}
	if err != nil {
		return File(-1), false, errors.Wrapf(err, "create %s", fname)
	}
	return File(fd), true, nil
}

func (fs DirFs) Create(fname string) (File, error) {
	fd, err := unix.Openat(fs.rootFd, fname,
		unix.O_CREAT|unix.O_TRUNC|unix.O_WRONLY|unix.O_CLOEXEC, 0644)
	if err != nil {
		return File(-1), errors.Wrapf(err, "create %s", fname)
	}
	return File(fd), nil
}

func (fs DirFs) Append(f File, data []byte) (int, error) {
	written := 0
	for written < len(data) {
		n, err := unix.Write(f.fd(), data[written:])
		if n > 0 {
			written += n
		}
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return written, errors.Wrapf(err, "write fd %d", f.fd())
		}
		if n == 0 {
			return written, errors.Errorf("short write: %d < %d bytes", written, len(data))
		}
	}
	return written, nil
}

func (fs DirFs) Close(f File) error {
	err := unix.Close(f.fd())
	if err != nil {
		return errors.Wrapf(err, "close fd %d", f.fd())
	}
	return nil
}

func (fs DirFs) Delete(fname string) error {
	err := unix.Unlinkat(fs.rootFd, fname, 0)
	if err != nil {
		return errors.Wrapf(err, "unlink(%s)", fname)
	}
	return nil
}

func (fs DirFs) Size(fname string) (int64, error) {
	var st unix.Stat_t
	err := unix.Fstatat(fs.rootFd, fname, &st, 0)
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", fname)
	}
	return st.Size, nil
}
