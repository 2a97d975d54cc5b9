package system

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "rpi-clone -f sda", Command{Name: "rpi-clone", Args: []string{"-f", "sda"}}.String())
	assert.Equal(t, "sync", Command{Name: "sync"}.String())
}

func TestExitCode_Nil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ExitCode(nil))
}

func TestExitCode_NotAnExitError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1, ExitCode(errors.New("boom")))
}

func TestExec_RunReportsExitStatus(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	e := &Exec{}
	err := e.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "exit 3"}})
	require.Error(t, err)
	assert.Equal(t, 3, ExitCode(err))
}

func TestExec_RunPassesStdin(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("head"); err != nil {
		t.Skip("head not available")
	}

	var out strings.Builder
	e := &Exec{}
	err := e.Run(context.Background(), Command{
		Name:   "head",
		Args:   []string{"-n", "2"},
		Stdin:  strings.NewReader("y\ny\ny\n"),
		Stdout: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "y\ny\n", out.String())
}

func TestExec_Output(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	e := &Exec{}
	out, err := e.Output(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

// TestExec_RunCancelLetsProgramCleanUp ensures a cancelled command receives
// SIGTERM and can run its trap before exiting.
func TestExec_RunCancelLetsProgramCleanUp(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	marker := filepath.Join(t.TempDir(), "cleaned")
	script := "trap 'touch " + marker + "; exit 130' INT TERM; while :; do sleep 0.05; done"

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	e := &Exec{Grace: 5 * time.Second}
	err := e.Run(ctx, Command{Name: "sh", Args: []string{"-c", script}})
	require.Error(t, err)
	assert.Equal(t, 130, ExitCode(err))

	_, statErr := os.Stat(marker)
	require.NoError(t, statErr, "trap did not run")
}
