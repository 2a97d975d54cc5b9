package system

import (
	"fmt"
	"regexp"
	"strings"
)

const devPrefix = "/dev/"

var (
	// mmcblk0p2, nvme0n1p1, loop0p1: partitions carry a "p" separator.
	separatedDisk = regexp.MustCompile(`^(mmcblk\d+|nvme\d+n\d+|loop\d+)(p\d+)?$`)
	// sda1, vdb2: partition number follows the disk letters directly.
	plainDisk = regexp.MustCompile(`^(.*[^0-9])(\d*)$`)
)

// EnsureDevPrefix turns "sda" into "/dev/sda". Empty input stays empty.
func EnsureDevPrefix(name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, devPrefix) {
		return name
	}

	return devPrefix + name
}

// DeviceName strips the "/dev/" prefix.
func DeviceName(dev string) string {
	return strings.TrimPrefix(dev, devPrefix)
}

// PartitionDevice returns the device path of partition index on disk,
// e.g. ("sda", 2) is "/dev/sda2" and ("mmcblk0", 1) is "/dev/mmcblk0p1".
func PartitionDevice(disk string, index int) string {
	name := DeviceName(EnsureDevPrefix(disk))
	if separatedDisk.MatchString(name) {
		return fmt.Sprintf("%s%sp%d", devPrefix, name, index)
	}

	return fmt.Sprintf("%s%s%d", devPrefix, name, index)
}

// BaseDisk takes a device like "/dev/mmcblk0p2" or "/dev/sda1" and returns
// the whole disk device ("/dev/mmcblk0" or "/dev/sda"). Anything outside
// /dev is returned unchanged.
func BaseDisk(dev string) string {
	if !strings.HasPrefix(dev, devPrefix) {
		return dev
	}
	name := DeviceName(dev)

	if m := separatedDisk.FindStringSubmatch(name); m != nil {
		return devPrefix + m[1]
	}
	if m := plainDisk.FindStringSubmatch(name); m != nil {
		return devPrefix + m[1]
	}

	return dev
}

// LooksLikePartition reports whether dev names a partition rather than a
// whole disk (/dev/sda1, /dev/mmcblk0p1, /dev/nvme0n1p3).
func LooksLikePartition(dev string) bool {
	name := DeviceName(dev)
	if name == "" {
		return false
	}

	if m := separatedDisk.FindStringSubmatch(name); m != nil {
		return m[2] != ""
	}
	if strings.HasPrefix(name, "mmcblk") || strings.HasPrefix(name, "nvme") || strings.HasPrefix(name, "loop") {
		return false
	}

	last := name[len(name)-1]

	return last >= '0' && last <= '9'
}

// SameDisk reports whether both devices live on the same whole disk.
func SameDisk(a, b string) bool {
	return BaseDisk(EnsureDevPrefix(a)) == BaseDisk(EnsureDevPrefix(b))
}
