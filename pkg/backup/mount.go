package backup

import (
	"context"
	"fmt"
	"os"

	"github.com/woliveiras/sdbackup/pkg/system"
)

// probe asks blkid for the attributes of dev.
func (h *Handler) probe(ctx context.Context, dev string) (system.Probe, error) {
	out, err := h.cmdHandler.Output(ctx, blkidCommand, system.BlkidArgs(dev)...)
	if err != nil {
		return system.Probe{}, fmt.Errorf("blkid %s: %w", dev, err)
	}

	return system.ParseBlkidExport(out)
}

// mountPartition creates target and mounts dev on it with the filesystem
// type blkid reports.
func (h *Handler) mountPartition(ctx context.Context, dev, target string, flags uintptr) error {
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("%w: cannot create mount point %s: %w", ErrMountFailed, target, err)
	}

	probe, err := h.probe(ctx, dev)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMountFailed, err)
	}
	if probe.Type == "" {
		return fmt.Errorf("%w: %w on %s", ErrMountFailed, ErrUnknownFilesystem, dev)
	}

	if err := h.unixHandler.Mount(dev, target, probe.Type, flags, ""); err != nil {
		return fmt.Errorf("%w: %s (%s) on %s: %w", ErrMountFailed, dev, probe.Type, target, err)
	}
	h.log.Debug("Mounted partition.", "device", dev, "target", target, "fstype", probe.Type)

	return nil
}

func (h *Handler) unmount(target string) {
	if err := h.unixHandler.Unmount(target, 0); err != nil {
		h.log.Warn("Failed to unmount.", "target", target, "err", err)

		return
	}
	h.log.Debug("Unmounted partition.", "target", target)
}
