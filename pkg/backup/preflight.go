package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/woliveiras/sdbackup/pkg/system"
)

const cloneToolInstallHint = "git clone https://github.com/billw2/rpi-clone.git && cd rpi-clone && sudo cp rpi-clone /usr/local/sbin"

// Preflight runs the checks that must pass before anything is touched:
// the host is a Raspberry Pi, the process is root, and the clone tool and
// helper commands are installed.
func (h *Handler) Preflight() error {
	if err := h.CheckPlatform(); err != nil {
		return err
	}
	if err := h.CheckRoot(); err != nil {
		return err
	}
	if err := h.CheckCloneTool(); err != nil {
		return err
	}

	return h.CheckHelpers()
}

// CheckPlatform reads the model identifier file and requires it to name
// the configured platform.
func (h *Handler) CheckPlatform() error {
	data, err := os.ReadFile(h.cfg.ModelFile)
	if err != nil {
		return fmt.Errorf("%w: cannot read %s: %w", ErrNotRaspberryPi, h.cfg.ModelFile, err)
	}

	model := strings.TrimRight(string(data), "\x00\n ")
	if !strings.Contains(model, h.cfg.ModelMatch) {
		return fmt.Errorf("%w: model is %q", ErrNotRaspberryPi, model)
	}

	h.log.Debug("Platform check passed.", "model", model)

	return nil
}

// CheckRoot requires an effective user id of 0.
func (h *Handler) CheckRoot() error {
	if euid := h.unixHandler.Geteuid(); euid != 0 {
		return fmt.Errorf("%w (effective uid %d); mounting and cloning disks need it", ErrNotRoot, euid)
	}

	return nil
}

// CheckCloneTool ensures the clone tool is on PATH.
func (h *Handler) CheckCloneTool() error {
	if _, err := h.cmdHandler.LookPath(h.cfg.CloneTool); err != nil {
		return fmt.Errorf("%w: %s. Please install it first: %s", ErrCloneToolMissing, h.cfg.CloneTool, cloneToolInstallHint)
	}

	return nil
}

// CheckHelpers ensures the commands used to inspect partitions are on PATH.
func (h *Handler) CheckHelpers() error {
	if _, err := h.cmdHandler.LookPath(blkidCommand); err != nil {
		return fmt.Errorf("%w: %s (install util-linux)", ErrToolMissing, blkidCommand)
	}

	return nil
}

// ValidateTarget performs safety checks on the target disk:
//   - it must be a whole disk, not a partition
//   - it must exist
//   - it must not be the disk the system runs from
//   - none of its partitions may be mounted
//
// Capacity is checked separately by [Handler.CheckCapacity].
func (h *Handler) ValidateTarget(ctx context.Context, plan Plan) error {
	target := plan.TargetDisk

	if system.LooksLikePartition(target) {
		return fmt.Errorf("%w: %s; use a whole disk name such as sda or nvme0n1", ErrTargetIsPartition, target)
	}

	if _, err := h.stat(target); err != nil {
		return fmt.Errorf("%w: %s (check the cabling or USB adapter): %w", ErrTargetMissing, target, err)
	}

	if system.SameDisk(plan.SourceDisk, target) {
		return fmt.Errorf("%w: refusing to overwrite %s", ErrTargetIsBootDisk, target)
	}

	parts, err := h.diskHandler.Partitions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list mounted partitions: %w", err)
	}
	if mounted := system.MountedOn(parts, target); len(mounted) > 0 {
		names := make([]string, 0, len(mounted))
		for _, p := range mounted {
			names = append(names, p.Device+" -> "+p.Mountpoint)
		}

		return fmt.Errorf("%w: %s; unmount them first", ErrTargetMounted, strings.Join(names, ", "))
	}

	return nil
}

// CheckCapacity warns when the target is smaller than the source. It is
// never fatal, since the clone tool can shrink the last partition to fit.
func (h *Handler) CheckCapacity(ctx context.Context, plan Plan) {
	srcSize, err := h.diskSize(ctx, plan.SourceDisk)
	if err != nil {
		h.log.Debug("Could not determine source disk size.", "disk", plan.SourceDisk, "err", err)

		return
	}

	dstSize, err := h.diskSize(ctx, plan.TargetDisk)
	if err != nil {
		h.log.Debug("Could not determine target disk size.", "disk", plan.TargetDisk, "err", err)

		return
	}

	if dstSize < srcSize {
		h.log.Warn("Target disk is smaller than the source disk; the clone tool has to shrink the root partition.",
			"source", plan.SourceDisk,
			"sourceSize", humanize.IBytes(srcSize),
			"target", plan.TargetDisk,
			"targetSize", humanize.IBytes(dstSize),
		)
	}
}

func (h *Handler) diskSize(ctx context.Context, dev string) (uint64, error) {
	out, err := h.cmdHandler.Output(ctx, "lsblk", "-b", "-dn", "-o", "SIZE", system.EnsureDevPrefix(dev))
	if err != nil {
		return 0, err
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return 0, errors.New("lsblk returned an empty size")
	}

	size, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse lsblk size %q: %w", text, err)
	}

	return size, nil
}
