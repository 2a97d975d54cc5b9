package backup

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Run executes the plan's steps in order. Step failures are logged and
// recorded in the report but never stop the run; only a cancelled context
// does, in which case the remaining steps are marked as skipped.
func (h *Handler) Run(ctx context.Context, plan Plan) *Report {
	report := &Report{
		Plan:    plan,
		Started: time.Now(),
	}

	fmt.Fprint(h.output, plan.String())

	for _, step := range plan.Steps {
		if ctx.Err() != nil {
			report.Results = append(report.Results, StepResult{Step: step.Name, Status: StatusSkipped, Err: ctx.Err()})

			continue
		}

		report.Results = append(report.Results, h.RunStep(ctx, plan, step.Name))
	}

	report.Finished = time.Now()
	h.logReport(report)

	return report
}

// RunStep executes a single named step and records its outcome.
func (h *Handler) RunStep(ctx context.Context, plan Plan, name string) StepResult {
	start := time.Now()

	var err error
	switch name {
	case StepClone:
		err = h.Clone(ctx, plan)
	case StepSettle:
		err = h.sleep(ctx, h.cfg.SettleDelay)
	case StepVerify:
		err = h.Verify(ctx, plan)
	case StepFixCmdline:
		err = h.FixCmdline(ctx, plan)
	default:
		err = fmt.Errorf("unknown step %q", name)
	}

	res := StepResult{
		Step:     name,
		Status:   StatusOK,
		Err:      err,
		Duration: time.Since(start),
	}
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Interrupted by cancellation.
		res.Status = StatusSkipped
	default:
		res.Status = StatusFailed
	}

	return res
}

func (h *Handler) logReport(report *Report) {
	_, _ = report.WriteTo(h.output)

	for _, res := range report.Results {
		switch res.Status {
		case StatusFailed:
			h.log.Error("Step failed.", "step", res.Step, "duration", res.Duration.Round(time.Millisecond), "err", res.Err)
		case StatusSkipped:
			h.log.Warn("Step skipped.", "step", res.Step, "err", res.Err)
		case StatusOK:
			h.log.Debug("Step succeeded.", "step", res.Step, "duration", res.Duration.Round(time.Millisecond))
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		h.log.Warn("Backup finished with errors.", "failed", len(failed), "steps", len(report.Results))

		return
	}
	h.log.Info("Backup finished.", "steps", len(report.Results), "elapsed", report.Finished.Sub(report.Started).Round(time.Second))
}
