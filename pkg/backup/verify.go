package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/woliveiras/sdbackup/pkg/system"
)

// Verify performs a sanity check of the clone: it mounts the target's root
// partition read-only, looks for a well-known system file, reports the
// space in use and compares critical files with the running system. Only a
// failed mount fails the check; everything else is logged.
func (h *Handler) Verify(ctx context.Context, plan Plan) error {
	h.log.Info("Verifying backup integrity...")

	mnt := h.cfg.CheckMount
	if err := h.mountPartition(ctx, plan.RootPartition, mnt, system.MountReadOnly); err != nil {
		h.log.Error("Backup partition could not be mounted!", "partition", plan.RootPartition, "err", err)

		return err
	}
	defer h.unmount(mnt)

	h.log.Info(fmt.Sprintf("Backup partition %s is mountable.", plan.RootPartition))

	marker := filepath.Join(mnt, h.cfg.MarkerFile)
	if st, err := os.Stat(marker); err == nil && !st.IsDir() {
		h.log.Info("System files found on backup.", "file", h.cfg.MarkerFile)
	} else {
		h.log.Warn("System file not found on backup.", "file", h.cfg.MarkerFile)
	}

	if usage, err := h.diskHandler.Usage(ctx, mnt); err == nil {
		h.log.Info("Backup root filesystem usage.",
			"used", humanize.IBytes(usage.Used),
			"total", humanize.IBytes(usage.Total),
			"percent", fmt.Sprintf("%.1f%%", usage.UsedPercent),
		)
	} else {
		h.log.Debug("Could not read backup filesystem usage.", "err", err)
	}

	for _, diff := range h.compareFiles(mnt) {
		h.log.Warn("Backup differs from the running system.", "file", diff.Path, "reason", diff.Reason)
	}

	return nil
}
