package backup

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Status is the outcome of one step.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StepResult records how one step of a run went.
type StepResult struct {
	Step     string
	Status   Status
	Err      error
	Duration time.Duration
}

// Report collects the step results of a run, in execution order.
type Report struct {
	Plan     Plan
	Results  []StepResult
	Started  time.Time
	Finished time.Time
}

// Failed returns the results of steps that failed.
func (r *Report) Failed() []StepResult {
	var failed []StepResult
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			failed = append(failed, res)
		}
	}

	return failed
}

// Err returns nil when no step failed, or an error wrapping
// [ErrStepsFailed] and every step error otherwise.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}

	errs := []error{ErrStepsFailed}
	for _, res := range failed {
		errs = append(errs, fmt.Errorf("%s: %w", res.Step, res.Err))
	}

	return errors.Join(errs...)
}

// WriteTo writes a plain text summary of the run, one line per step.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	result := "SUCCESS"
	if len(r.Failed()) > 0 {
		result = "FAILED"
	}

	fmt.Fprintf(&b, "=== %s %s -> %s (%s) ===\n", result, r.Plan.SourceDisk, r.Plan.TargetDisk, r.Finished.Sub(r.Started).Round(time.Second))
	for _, res := range r.Results {
		fmt.Fprintf(&b, "- %-11s %-7s %s", res.Step, res.Status, res.Duration.Round(time.Millisecond))
		if res.Err != nil {
			fmt.Fprintf(&b, " (%v)", res.Err)
		}
		b.WriteString("\n")
	}

	n, err := io.WriteString(w, b.String())

	return int64(n), err
}
