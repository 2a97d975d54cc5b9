package backup

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/woliveiras/sdbackup/pkg/config"
	"github.com/woliveiras/sdbackup/pkg/system"
)

const blkidCommand = "blkid"

type commandProvider interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, cmd system.Command) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type unixProvider interface {
	Mount(source, target, fstype string, flags uintptr, data string) error
	Unmount(target string, flags int) error
	Sync()
	Geteuid() int
	RootDevice() (string, error)
}

type diskProvider interface {
	Partitions(ctx context.Context) ([]disk.PartitionStat, error)
	Usage(ctx context.Context, path string) (*disk.UsageStat, error)
}

// Handler performs backup runs against the host through its providers.
type Handler struct {
	cfg config.Config

	cmdHandler  commandProvider
	unixHandler unixProvider
	diskHandler diskProvider

	log    *slog.Logger
	output io.Writer

	liveRoot string
	stat     func(name string) (os.FileInfo, error)
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewHandler returns a pointer to a new [Handler]. Messages go to logger,
// raw output of the clone tool goes to output (usually the backup log file).
func NewHandler(cfg config.Config, cmdHandler commandProvider, unixHandler unixProvider, diskHandler diskProvider, logger *slog.Logger, output io.Writer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if output == nil {
		output = io.Discard
	}

	return &Handler{
		cfg:         cfg,
		cmdHandler:  cmdHandler,
		unixHandler: unixHandler,
		diskHandler: diskHandler,
		log:         logger,
		output:      output,
		liveRoot:    "/",
		stat:        os.Stat,
		sleep:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SetOutput redirects raw clone tool output, e.g. once the backup log file
// is open. Passing nil discards it.
func (h *Handler) SetOutput(w io.Writer) {
	if w == nil {
		h.output = io.Discard

		return
	}
	h.output = w
}
