// Package system is the boundary between sdbackup and the operating system:
// block device naming, external command execution, mount syscalls, disk
// discovery and blkid probing. Everything that touches the host lives here
// behind small types so callers can swap in test doubles.
package system
