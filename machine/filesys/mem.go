package filesys

import (
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

type inode struct {
	size int64
}

// MemFs is an in-memory, thread-safe implementation of filesys.Filesys.
//
// Only file lengths are stored, not contents, so a MemFs can stand in for a
// volume of hundreds of megabytes. Writes past the capacity are cut short and
// fail with ENOSPC, like a full disk.
type MemFs struct {
	m sync.Mutex
	// 0 means unlimited
	capacity int64
	used     int64
	lastIno  int
	// fd -> inode
	// (fds and inodes overlap; an fd is only valid while open)
	inodes  map[int]*inode
	dirents map[string]int
	// solely for catching misuse we track open files
	openFiles map[int]bool
	// per-name operation counts, for tests
	creates map[string]int
	deletes map[string]int
}

var _ Filesys = (*MemFs)(nil)

// NewMemFs creates an empty MemFs that holds at most capacity bytes
// (0 for no limit).
func NewMemFs(capacity int64) *MemFs {
	return &MemFs{
		capacity:  capacity,
		inodes:    make(map[int]*inode),
		dirents:   make(map[string]int),
		openFiles: make(map[int]bool),
		creates:   make(map[string]int),
		deletes:   make(map[string]int),
	}
}

// unlink drops fname and gives its space back.
//
// requires fs.m held
func (fs *MemFs) unlink(fname string) bool {
	ino, ok := fs.dirents[fname]
	if !ok {
		return false
	}
	delete(fs.dirents, fname)
	fs.used -= fs.inodes[ino].size
	delete(fs.inodes, ino)
	delete(fs.openFiles, ino)
	return true
}

// requires fs.m held
func (fs *MemFs) create(fname string) File {
	fs.lastIno++
	ino := fs.lastIno
	fs.inodes[ino] = &inode{}
	fs.dirents[fname] = ino
	fs.openFiles[ino] = true
	fs.creates[fname]++
	return File(ino)
}

func (fs *MemFs) CreateExcl(fname string) (f File, ok bool, err error) {
	fs.m.Lock()
	defer fs.m.Unlock()
	if _, exists := fs.dirents[fname]; exists {
		return File(-1), false, nil
	}
	return fs.create(fname), true, nil
}

func (fs *MemFs) Create(fname string) (File, error) {
	fs.m.Lock()
	defer fs.m.Unlock()
	fs.unlink(fname)
	return fs.create(fname), nil
}

func (fs *MemFs) Append(f File, data []byte) (int, error) {
	fs.m.Lock()
	defer fs.m.Unlock()
	if !fs.openFiles[f.fd()] {
		return 0, errors.Errorf("use of unopened file %d", f.fd())
	}
	n := int64(len(data))
	if fs.capacity > 0 && fs.used+n > fs.capacity {
		n = fs.capacity - fs.used
	}
	fs.inodes[f.fd()].size += n
	fs.used += n
	if n < int64(len(data)) {
		return int(n), errors.Wrapf(unix.ENOSPC, "write fd %d", f.fd())
	}
	return int(n), nil
}

func (fs *MemFs) Close(f File) error {
	fs.m.Lock()
	defer fs.m.Unlock()
	if !fs.openFiles[f.fd()] {
		return errors.Errorf("close of unopened fd %d", f.fd())
	}
	delete(fs.openFiles, f.fd())
	return nil
}

func (fs *MemFs) Delete(fname string) error {
	fs.m.Lock()
	defer fs.m.Unlock()
	if !fs.unlink(fname) {
		return errors.Wrapf(unix.ENOENT, "unlink(%s)", fname)
	}
	fs.deletes[fname]++
	return nil
}

func (fs *MemFs) Size(fname string) (int64, error) {
	fs.m.Lock()
	defer fs.m.Unlock()
	ino, ok := fs.dirents[fname]
	if !ok {
		return 0, errors.Wrapf(unix.ENOENT, "stat %s", fname)
	}
	return fs.inodes[ino].size, nil
}

// List returns the names of all files, in no particular order.
func (fs *MemFs) List() []string {
	fs.m.Lock()
	defer fs.m.Unlock()
	names := make([]string, 0, len(fs.dirents))
	for n := range fs.dirents {
		names = append(names, n)
	}
	return names
}

// Used reports how many bytes the files currently hold.
func (fs *MemFs) Used() int64 {
	fs.m.Lock()
	defer fs.m.Unlock()
	return fs.used
}

// Creates reports how many times fname was created (exclusively or not).
func (fs *MemFs) Creates(fname string) int {
	fs.m.Lock()
	defer fs.m.Unlock()
	return fs.creates[fname]
}

// Deletes reports how many times fname was deleted.
func (fs *MemFs) Deletes(fname string) int {
	fs.m.Lock()
	defer fs.m.Unlock()
	return fs.deletes[fname]
}
