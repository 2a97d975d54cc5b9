package backup

import "errors"

var (
	// ErrNotRaspberryPi is returned when the model identifier file is missing
	// or does not name a Raspberry Pi.
	ErrNotRaspberryPi = errors.New("this host is not a Raspberry Pi")

	// ErrCloneToolMissing is returned when the clone tool is not on PATH.
	ErrCloneToolMissing = errors.New("clone tool not found")

	// ErrToolMissing is returned when a helper command is not on PATH.
	ErrToolMissing = errors.New("required command not found")

	// ErrNotRoot is returned when the process lacks root privileges.
	ErrNotRoot = errors.New("must run as root")

	ErrNoTarget          = errors.New("no target disk given")
	ErrTargetIsPartition = errors.New("target is a partition, not a whole disk")
	ErrTargetMissing     = errors.New("target disk does not exist")
	ErrTargetIsBootDisk  = errors.New("target is the disk the system booted from")
	ErrTargetMounted     = errors.New("target disk has mounted partitions")

	ErrCloneFailed       = errors.New("clone failed")
	ErrMountFailed       = errors.New("mount failed")
	ErrUnknownFilesystem = errors.New("unknown filesystem type")
	ErrNoPARTUUID        = errors.New("could not determine backup disk PARTUUID")
	ErrNoRootParameter   = errors.New("no root=PARTUUID= parameter in cmdline.txt")

	// ErrStepsFailed is returned by [Report.Err] when at least one step failed.
	ErrStepsFailed = errors.New("backup steps failed")
)
