package system

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// ErrRootNotFound is returned when no partition is mounted at "/".
var ErrRootNotFound = errors.New("root mount not found")

// Disks is an implementation wrapping gopsutil disk discovery.
type Disks struct{}

// Partitions returns every mounted filesystem, including pseudo ones.
func (*Disks) Partitions(ctx context.Context) ([]disk.PartitionStat, error) {
	parts, err := disk.PartitionsWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("(system-disks) failed to list partitions: %w", err)
	}

	return parts, nil
}

// Usage wraps around [disk.UsageWithContext].
func (*Disks) Usage(ctx context.Context, path string) (*disk.UsageStat, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("(system-disks) failed to get usage of %s: %w", path, err)
	}

	return usage, nil
}

// RootPartition returns the device mounted at "/".
func RootPartition(parts []disk.PartitionStat) (string, error) {
	for _, p := range parts {
		if p.Mountpoint == "/" {
			return p.Device, nil
		}
	}

	return "", ErrRootNotFound
}

// MountedOn returns the partitions of parts that belong to the whole disk
// diskDev, including the disk itself when it is mounted directly.
func MountedOn(parts []disk.PartitionStat, diskDev string) []disk.PartitionStat {
	base := BaseDisk(EnsureDevPrefix(diskDev))

	var res []disk.PartitionStat
	for _, p := range parts {
		if !isDevice(p.Device) {
			continue
		}
		if BaseDisk(p.Device) == base {
			res = append(res, p)
		}
	}

	return res
}

func isDevice(dev string) bool {
	return strings.HasPrefix(dev, devPrefix) && dev != devPrefix
}
