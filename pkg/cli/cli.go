package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/woliveiras/sdbackup/pkg/backup"
	"github.com/woliveiras/sdbackup/pkg/config"
	"github.com/woliveiras/sdbackup/pkg/logging"
	"github.com/woliveiras/sdbackup/pkg/system"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

// ErrCancelled is returned when the user declines a destructive run.
var ErrCancelled = errors.New("backup cancelled by user")

// backupHandler is the part of [backup.Handler] the commands drive.
type backupHandler interface {
	Preflight() error
	CheckPlatform() error
	CheckRoot() error
	CheckHelpers() error
	Plan(ctx context.Context) (backup.Plan, error)
	ValidateTarget(ctx context.Context, plan backup.Plan) error
	CheckCapacity(ctx context.Context, plan backup.Plan)
	Run(ctx context.Context, plan backup.Plan) *backup.Report
	RunStep(ctx context.Context, plan backup.Plan, name string) backup.StepResult
	SetOutput(w io.Writer)
}

type globalOptions struct {
	configFile string
	logFile    string
	verbose    bool
}

type app struct {
	ui         UI
	console    io.Writer
	opts       globalOptions
	newHandler func(cfg config.Config, logger *slog.Logger) backupHandler
}

func newApp(ui UI) *app {
	return &app{
		ui:      ui,
		console: os.Stderr,
		newHandler: func(cfg config.Config, logger *slog.Logger) backupHandler {
			return backup.NewHandler(cfg, &system.Exec{}, &system.Unix{}, &system.Disks{}, logger, nil)
		},
	}
}

// Run is the main entrypoint for the CLI. args includes the program name,
// as in os.Args. SIGINT and SIGTERM cancel the running command.
func Run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, args, newApp(NewStdUI()))
}

func run(ctx context.Context, args []string, a *app) error {
	if len(args) == 0 {
		return fmt.Errorf("no arguments provided")
	}

	root := a.rootCommand()
	root.SetArgs(args[1:])

	return root.ExecuteContext(ctx)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sdbackup",
		Short: "Back up a Raspberry Pi SD card to a secondary disk",
		Long: `sdbackup clones the running Raspberry Pi's SD card to a secondary disk
with rpi-clone, checks that the copy mounts and contains a system, and points
the copy's cmdline.txt at its own root partition so it can boot on its own.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.configFile, "config", config.DefaultFile, "configuration file")
	flags.StringVar(&a.opts.logFile, "log-file", "", "backup log file (overrides the configuration)")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "debug output on the console")

	root.AddCommand(
		a.runCommand(),
		a.planCommand(),
		a.stepCommand(backup.StepVerify, "Mount the backup root partition and check it holds a system"),
		a.stepCommand(backup.StepFixCmdline, "Point the backup's cmdline.txt at the backup root partition"),
		a.versionCommand(),
	)

	return root
}

// loadConfig reads the configuration file and applies the command line on
// top of it. The file is only required when --config was given explicitly.
func (a *app) loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	handler := config.NewHandler(&config.GodotenvProvider{})

	cfg, err := handler.Load(a.opts.configFile, cmd.Flags().Changed("config"))
	if err != nil {
		return cfg, fmt.Errorf("failed to load configuration: %w", err)
	}

	if a.opts.logFile != "" {
		cfg.LogFile = a.opts.logFile
	}
	if len(args) > 0 {
		cfg.Target = args[0]
	}

	return cfg, nil
}

func (a *app) logger() (*logging.Manager, *slog.Logger) {
	level := slog.LevelInfo
	if a.opts.verbose {
		level = slog.LevelDebug
	}

	manager := logging.NewManager()
	manager.AddHandler("console", logging.NewConsoleHandler(a.console, level))

	return manager, slog.New(manager)
}

// openLog attaches the backup log file to the logger and to the handler's
// raw output, and starts a new dated section in it.
func (a *app) openLog(cfg config.Config, manager *logging.Manager, h backupHandler) (*logging.LogFile, error) {
	logFile, err := logging.OpenLogFile(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	if err := logFile.Section(time.Now()); err != nil {
		_ = logFile.Close()

		return nil, err
	}

	manager.AddHandler("file", logFile.Handler(slog.LevelDebug))
	h.SetOutput(logFile)

	return logFile, nil
}

// prepare loads the configuration, builds the handler and computes a
// validated plan. check selects the preconditions to enforce first.
func (a *app) prepare(cmd *cobra.Command, args []string, check func(backupHandler) error) (*logging.Manager, backupHandler, backup.Plan, error) {
	cfg, err := a.loadConfig(cmd, args)
	if err != nil {
		return nil, nil, backup.Plan{}, err
	}

	return a.prepareWith(cmd.Context(), cfg, check)
}

func (a *app) prepareWith(ctx context.Context, cfg config.Config, check func(backupHandler) error) (*logging.Manager, backupHandler, backup.Plan, error) {
	manager, logger := a.logger()
	h := a.newHandler(cfg, logger)

	if err := check(h); err != nil {
		return nil, nil, backup.Plan{}, err
	}

	plan, err := h.Plan(ctx)
	if err != nil {
		return nil, nil, backup.Plan{}, err
	}

	if err := h.ValidateTarget(ctx, plan); err != nil {
		return nil, nil, backup.Plan{}, err
	}

	return manager, h, plan, nil
}

func fullPreflight(h backupHandler) error {
	return h.Preflight()
}

func readOnlyPreflight(h backupHandler) error {
	return h.CheckPlatform()
}

func stepPreflight(h backupHandler) error {
	if err := h.CheckPlatform(); err != nil {
		return err
	}
	if err := h.CheckRoot(); err != nil {
		return err
	}

	return h.CheckHelpers()
}
