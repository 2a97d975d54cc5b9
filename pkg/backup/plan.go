package backup

import (
	"context"
	"fmt"
	"strings"

	"github.com/woliveiras/sdbackup/pkg/system"
)

// Step names, in execution order.
const (
	StepClone      = "clone"
	StepSettle     = "settle"
	StepVerify     = "verify"
	StepFixCmdline = "fix-cmdline"
)

// Plan is a description of what a backup run will do.
type Plan struct {
	SourceDisk    string
	TargetDisk    string
	RootPartition string
	BootPartition string
	Initialize    bool
	Steps         []Step
}

// Step is one stage of a run, with a human-readable description.
type Step struct {
	Name        string
	Description string
}

// Plan inspects the system and the configuration and builds the plan for
// cloning the boot disk onto the configured target.
func (h *Handler) Plan(ctx context.Context) (Plan, error) {
	if h.cfg.Target == "" {
		return Plan{}, ErrNoTarget
	}

	srcDev, err := h.rootDevice(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to detect boot disk: %w", err)
	}

	target := system.EnsureDevPrefix(h.cfg.Target)
	plan := Plan{
		SourceDisk:    system.BaseDisk(srcDev),
		TargetDisk:    target,
		RootPartition: system.PartitionDevice(target, h.cfg.RootPartition),
		BootPartition: system.PartitionDevice(target, h.cfg.BootPartition),
		Initialize:    h.cfg.ForceInit,
	}
	plan.Steps = h.buildSteps(plan)

	return plan, nil
}

// rootDevice returns the partition mounted at "/", falling back to the
// device number lookup when the mount table only reports "/dev/root".
func (h *Handler) rootDevice(ctx context.Context) (string, error) {
	parts, err := h.diskHandler.Partitions(ctx)
	if err != nil {
		return "", err
	}

	dev, err := system.RootPartition(parts)
	if err == nil && dev != "/dev/root" && strings.HasPrefix(dev, "/dev/") {
		return dev, nil
	}

	resolved, rerr := h.unixHandler.RootDevice()
	if rerr != nil {
		if err != nil {
			return "", err
		}

		return "", rerr
	}

	return resolved, nil
}

func (h *Handler) buildSteps(plan Plan) []Step {
	cloneDesc := fmt.Sprintf("%s %s (incremental)", h.cfg.CloneTool, system.DeviceName(plan.TargetDisk))
	if plan.Initialize {
		cloneDesc = fmt.Sprintf("%s -f %s (initialize partitions)", h.cfg.CloneTool, system.DeviceName(plan.TargetDisk))
	}

	return []Step{
		{Name: StepClone, Description: fmt.Sprintf("clone %s to %s: %s", plan.SourceDisk, plan.TargetDisk, cloneDesc)},
		{Name: StepSettle, Description: fmt.Sprintf("wait %s for the partition table to settle", h.cfg.SettleDelay)},
		{Name: StepVerify, Description: fmt.Sprintf("mount %s read-only on %s and look for %s", plan.RootPartition, h.cfg.CheckMount, h.cfg.MarkerFile)},
		{Name: StepFixCmdline, Description: fmt.Sprintf("mount %s on %s and point cmdline.txt at the PARTUUID of %s", plan.BootPartition, h.cfg.BootMount, plan.RootPartition)},
	}
}

// String renders a human-readable description of the plan.
func (p Plan) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Backup plan: %s -> %s\n", p.SourceDisk, p.TargetDisk)
	for i, step := range p.Steps {
		fmt.Fprintf(&b, "  %d. %s: %s\n", i+1, step.Name, step.Description)
	}

	return b.String()
}
