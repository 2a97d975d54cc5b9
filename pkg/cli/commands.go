package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/woliveiras/sdbackup/pkg/backup"
)

type runOptions struct {
	forceInit  bool
	unattended bool
	strict     bool
	dryRun     bool
}

func (a *app) runCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [target]",
		Short: "Clone the SD card to the target disk, verify it and fix its cmdline.txt",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, args)
			if err != nil {
				return err
			}
			if opts.forceInit {
				cfg.ForceInit = true
			}

			check := fullPreflight
			if opts.dryRun {
				check = readOnlyPreflight
			}

			manager, h, plan, err := a.prepareWith(cmd.Context(), cfg, check)
			if err != nil {
				return err
			}

			if opts.dryRun {
				h.CheckCapacity(cmd.Context(), plan)
				a.ui.Printf("%s", plan.String())

				return nil
			}

			if plan.Initialize && !opts.unattended {
				ok, err := a.ui.Confirm(fmt.Sprintf("Initialize %s? All existing data on it will be destroyed.", plan.TargetDisk))
				if err != nil {
					return err
				}
				if !ok {
					return ErrCancelled
				}
			}

			logFile, err := a.openLog(cfg, manager, h)
			if err != nil {
				return err
			}
			defer logFile.Close()

			h.CheckCapacity(cmd.Context(), plan)
			report := h.Run(cmd.Context(), plan)
			if opts.strict {
				return report.Err()
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.forceInit, "force-init", "f", false, "initialize the target partition table (first backup)")
	flags.BoolVarP(&opts.unattended, "unattended", "u", false, "do not ask for confirmation")
	flags.BoolVar(&opts.strict, "strict", false, "exit non-zero when any step fails")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the plan without touching any disk")

	return cmd
}

func (a *app) planCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [target]",
		Short: "Print what a backup run would do",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, h, plan, err := a.prepare(cmd, args, readOnlyPreflight)
			if err != nil {
				return err
			}

			h.CheckCapacity(cmd.Context(), plan)
			a.ui.Printf("%s", plan.String())

			return nil
		},
	}
}

// stepCommand runs a single step against a backup disk that already holds
// a clone.
func (a *app) stepCommand(step, short string) *cobra.Command {
	return &cobra.Command{
		Use:   step + " [target]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, args)
			if err != nil {
				return err
			}

			manager, h, plan, err := a.prepareWith(cmd.Context(), cfg, stepPreflight)
			if err != nil {
				return err
			}

			logFile, err := a.openLog(cfg, manager, h)
			if err != nil {
				return err
			}
			defer logFile.Close()

			res := h.RunStep(cmd.Context(), plan, step)
			if res.Err != nil {
				return fmt.Errorf("%s: %w", step, res.Err)
			}

			return nil
		},
	}
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.ui.Printf("sdbackup %s\n", Version)
		},
	}
}

var _ backupHandler = (*backup.Handler)(nil)
