package system

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Mount flags re-exported so callers need not import x/sys/unix.
const (
	MountReadOnly  uintptr = unix.MS_RDONLY
	MountReadWrite uintptr = 0
)

// Unix is an implementation wrapping Unix operating system functions.
type Unix struct{}

// Mount wraps around [unix.Mount].
func (*Unix) Mount(source, target, fstype string, flags uintptr, data string) error {
	return unix.Mount(source, target, fstype, flags, data)
}

// Unmount wraps around [unix.Unmount].
func (*Unix) Unmount(target string, flags int) error {
	return unix.Unmount(target, flags)
}

// Sync wraps around [unix.Sync].
func (*Unix) Sync() {
	unix.Sync()
}

// Geteuid wraps around [unix.Geteuid].
func (*Unix) Geteuid() int {
	return unix.Geteuid()
}

// RootDevice resolves the block device holding "/" through its device
// number, which also works when the mount table only says "/dev/root".
func (*Unix) RootDevice() (string, error) {
	var st unix.Stat_t
	if err := unix.Stat("/", &st); err != nil {
		return "", fmt.Errorf("(system-unix) failed to stat root: %w", err)
	}

	dev := uint64(st.Dev) //nolint:unconvert
	link, err := os.Readlink(fmt.Sprintf("/sys/dev/block/%d:%d", unix.Major(dev), unix.Minor(dev)))
	if err != nil {
		return "", fmt.Errorf("(system-unix) failed to resolve root device: %w", err)
	}

	return EnsureDevPrefix(filepath.Base(link)), nil
}
