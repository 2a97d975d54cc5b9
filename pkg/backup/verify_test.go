package backup

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/woliveiras/sdbackup/pkg/system"
)

func TestVerify_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	mnt := f.h.cfg.CheckMount

	writeFile(t, filepath.Join(mnt, "etc", "hostname"), "raspberrypi\n")
	writeFile(t, filepath.Join(mnt, "etc", "passwd"), "root:x:0:0:root:/root:/bin/bash\n")
	writeFile(t, filepath.Join(f.h.liveRoot, "etc", "hostname"), "raspberrypi\n")
	writeFile(t, filepath.Join(f.h.liveRoot, "etc", "passwd"), "root:x:0:0:root:/root:/bin/bash\n")

	f.expectBlkid("/dev/sda2", rootExport)
	f.unix.On("Mount", "/dev/sda2", mnt, "ext4", system.MountReadOnly, "").Return(nil)
	f.unix.On("Unmount", mnt, 0).Return(nil)
	f.disks.On("Usage", mock.Anything, mnt).Return(&disk.UsageStat{Total: 31 << 30, Used: 5 << 30, UsedPercent: 16.1}, nil)

	require.NoError(t, f.h.Verify(context.Background(), f.plan()))

	logs := f.logs.String()
	assert.Contains(t, logs, "Verifying backup integrity...")
	assert.Contains(t, logs, "Backup partition /dev/sda2 is mountable.")
	assert.Contains(t, logs, "System files found on backup.")
	assert.Contains(t, logs, `used="5.0 GiB"`)
	assert.NotContains(t, logs, "differs")
}

// TestVerify_ReportsDifferences ensures mismatching critical files are
// logged but do not fail verification.
func TestVerify_ReportsDifferences(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	mnt := f.h.cfg.CheckMount

	writeFile(t, filepath.Join(mnt, "etc", "hostname"), "raspberrypi\n")
	writeFile(t, filepath.Join(f.h.liveRoot, "etc", "hostname"), "garage-pi\n")
	writeFile(t, filepath.Join(f.h.liveRoot, "etc", "passwd"), "root:x:0:0:root:/root:/bin/bash\n")

	f.expectBlkid("/dev/sda2", rootExport)
	f.unix.On("Mount", "/dev/sda2", mnt, "ext4", system.MountReadOnly, "").Return(nil)
	f.unix.On("Unmount", mnt, 0).Return(nil)
	f.disks.On("Usage", mock.Anything, mnt).Return(nil, errors.New("statfs failed"))

	require.NoError(t, f.h.Verify(context.Background(), f.plan()))

	logs := f.logs.String()
	assert.Contains(t, logs, "file=etc/hostname reason=\"content differs\"")
	assert.Contains(t, logs, "file=etc/passwd reason=\"missing on backup\"")
}

func TestVerify_MarkerMissing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	mnt := f.h.cfg.CheckMount

	f.expectBlkid("/dev/sda2", rootExport)
	f.unix.On("Mount", "/dev/sda2", mnt, "ext4", system.MountReadOnly, "").Return(nil)
	f.unix.On("Unmount", mnt, 0).Return(nil)
	f.disks.On("Usage", mock.Anything, mnt).Return(&disk.UsageStat{}, nil)

	require.NoError(t, f.h.Verify(context.Background(), f.plan()))
	assert.Contains(t, f.logs.String(), "System file not found on backup.")
}

// TestVerify_MountFailure ensures an unmountable clone fails the step and
// nothing is unmounted.
func TestVerify_MountFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	mnt := f.h.cfg.CheckMount

	f.expectBlkid("/dev/sda2", rootExport)
	f.unix.On("Mount", "/dev/sda2", mnt, "ext4", system.MountReadOnly, "").Return(errors.New("invalid argument"))

	err := f.h.Verify(context.Background(), f.plan())
	require.ErrorIs(t, err, ErrMountFailed)
	assert.Contains(t, f.logs.String(), "Backup partition could not be mounted!")
	f.unix.AssertNotCalled(t, "Unmount", mock.Anything, mock.Anything)
}

func TestVerify_BlkidFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.cmd.On("Output", mock.Anything, "blkid", mock.Anything).Return(nil, errors.New("exit status 2"))

	err := f.h.Verify(context.Background(), f.plan())
	require.ErrorIs(t, err, ErrMountFailed)
}

func TestVerify_UnknownFilesystem(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expectBlkid("/dev/sda2", "DEVNAME=/dev/sda2\nPARTUUID=2d1a4e6b-02\n")

	err := f.h.Verify(context.Background(), f.plan())
	require.ErrorIs(t, err, ErrMountFailed)
	require.ErrorIs(t, err, ErrUnknownFilesystem)
}

func TestVerify_UnmountFailureIsLogged(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	mnt := f.h.cfg.CheckMount
	f.h.cfg.CompareFiles = nil

	f.expectBlkid("/dev/sda2", rootExport)
	f.unix.On("Mount", "/dev/sda2", mnt, "ext4", system.MountReadOnly, "").Return(nil)
	f.unix.On("Unmount", mnt, 0).Return(errors.New("device busy"))
	f.disks.On("Usage", mock.Anything, mnt).Return(&disk.UsageStat{}, nil)

	require.NoError(t, f.h.Verify(context.Background(), f.plan()))
	assert.Contains(t, f.logs.String(), "Failed to unmount.")
}
