package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/woliveiras/sdbackup/pkg/system"
)

// Clone runs the clone tool against the target disk. Every prompt the tool
// asks is answered with "y", its output goes to the handler's output, and
// its exit status is logged.
func (h *Handler) Clone(ctx context.Context, plan Plan) error {
	h.log.Info(fmt.Sprintf("Starting %s to %s...", h.cfg.CloneTool, plan.TargetDisk))

	cmd := system.Command{
		Name:   h.cfg.CloneTool,
		Args:   cloneArgs(plan),
		Stdin:  &yesReader{},
		Stdout: h.output,
		Stderr: h.output,
	}
	h.log.Debug("Running clone tool.", "cmd", cmd.String())

	start := time.Now()
	err := h.cmdHandler.Run(ctx, cmd)
	elapsed := time.Since(start)

	fmt.Fprintf(h.output, "\nreal\t%s\n", elapsed.Round(time.Millisecond))

	code := system.ExitCode(err)
	if err != nil {
		h.log.Error(fmt.Sprintf("Backup completed with exit code %d", code), "elapsed", elapsed.Round(time.Second), "err", err)

		return fmt.Errorf("%w: %w", ErrCloneFailed, err)
	}

	h.log.Info(fmt.Sprintf("Backup completed with exit code %d", code), "elapsed", elapsed.Round(time.Second))

	return nil
}

// cloneArgs builds the clone tool arguments; -f (force initialize) is only
// needed for the first copy, later runs are incremental.
func cloneArgs(plan Plan) []string {
	var args []string
	if plan.Initialize {
		args = append(args, "-f")
	}

	return append(args, system.DeviceName(plan.TargetDisk))
}

// yesReader is an endless stream of "y\n", like yes(1).
type yesReader struct {
	off int
}

func (r *yesReader) Read(p []byte) (int, error) {
	for i := range p {
		if (r.off+i)%2 == 0 {
			p[i] = 'y'
		} else {
			p[i] = '\n'
		}
	}
	r.off = (r.off + len(p)) % 2

	return len(p), nil
}
