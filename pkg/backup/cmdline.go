package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/woliveiras/sdbackup/pkg/system"
)

// CmdlineFile is the kernel command line file at the root of the boot
// partition.
const CmdlineFile = "cmdline.txt"

var rootPARTUUID = regexp.MustCompile(`root=PARTUUID=\S*`)

// FixCmdline mounts the target's boot partition and rewrites the
// root=PARTUUID= parameter in cmdline.txt to the PARTUUID of the target's
// root partition, so the clone boots from itself.
func (h *Handler) FixCmdline(ctx context.Context, plan Plan) error {
	h.log.Info("Fixing cmdline.txt PARTUUID...")

	mnt := h.cfg.BootMount
	if err := h.mountPartition(ctx, plan.BootPartition, mnt, system.MountReadWrite); err != nil {
		h.log.Error("Could not mount boot partition to fix cmdline.txt", "partition", plan.BootPartition, "err", err)

		return err
	}
	defer h.unmount(mnt)

	probe, err := h.probe(ctx, plan.RootPartition)
	if err != nil || probe.PARTUUID == "" {
		h.log.Error("Could not determine backup disk PARTUUID", "partition", plan.RootPartition, "err", err)

		if err != nil {
			return fmt.Errorf("%w: %w", ErrNoPARTUUID, err)
		}

		return ErrNoPARTUUID
	}

	changed, err := RewriteCmdlineFile(filepath.Join(mnt, CmdlineFile), probe.PARTUUID)
	if err != nil {
		h.log.Error("Could not update cmdline.txt", "err", err)

		return err
	}

	if !changed {
		h.log.Info("cmdline.txt already uses the backup disk PARTUUID.", "partuuid", probe.PARTUUID)

		return nil
	}

	h.unixHandler.Sync()
	h.log.Info("Updated cmdline.txt to use PARTUUID=" + probe.PARTUUID)

	return nil
}

// RewriteRootPARTUUID replaces every root=PARTUUID= value in cmdline with
// partuuid. found reports whether the parameter was present at all.
func RewriteRootPARTUUID(cmdline, partuuid string) (string, bool) {
	if !rootPARTUUID.MatchString(cmdline) {
		return cmdline, false
	}

	return rootPARTUUID.ReplaceAllLiteralString(cmdline, "root=PARTUUID="+partuuid), true
}

// RewriteCmdlineFile rewrites the file at path in place, keeping its mode.
// It reports whether the content changed.
func RewriteCmdlineFile(path, partuuid string) (bool, error) {
	st, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("cannot stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("cannot read %s: %w", path, err)
	}

	updated, found := RewriteRootPARTUUID(string(data), partuuid)
	if !found {
		return false, fmt.Errorf("%w: %s", ErrNoRootParameter, path)
	}
	if updated == string(data) {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(updated), st.Mode().Perm()); err != nil {
		return false, fmt.Errorf("cannot write %s: %w", path, err)
	}

	return true, nil
}
