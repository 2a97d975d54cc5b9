package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/woliveiras/sdbackup/pkg/system"
)

func TestYesReader(t *testing.T) {
	t.Parallel()

	r := &yesReader{}

	buf := make([]byte, 3)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "y\ny", string(buf))

	n, err = r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "\ny\n", string(buf))

	head := make([]byte, 8)
	_, err = io.ReadFull(r, head)
	require.NoError(t, err)
	assert.Equal(t, "y\ny\ny\ny\n", string(head))
}

func TestCloneArgs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"sda"}, cloneArgs(Plan{TargetDisk: "/dev/sda"}))
	assert.Equal(t, []string{"-f", "nvme0n1"}, cloneArgs(Plan{TargetDisk: "/dev/nvme0n1", Initialize: true}))
}

// TestClone_Success ensures the tool gets the target, endless "y" answers,
// and that its output and timing land in the log output.
func TestClone_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.cmd.On("Run", mock.Anything, mock.MatchedBy(func(c system.Command) bool {
		return c.Name == "rpi-clone" && slices.Equal([]string{"sda"}, c.Args) && c.Stdin != nil
	})).Run(func(args mock.Arguments) {
		c, _ := args.Get(1).(system.Command)
		answer := make([]byte, 2)
		_, _ = io.ReadFull(c.Stdin, answer)
		fmt.Fprintf(c.Stdout, "Ok to proceed with the clone? (yes/no): %s", answer)
		fmt.Fprintln(c.Stdout, "Syncing file systems (can take a long time)")
	}).Return(nil)

	require.NoError(t, f.h.Clone(context.Background(), f.plan()))

	out := f.out.String()
	assert.Contains(t, out, "Ok to proceed with the clone? (yes/no): y\n")
	assert.Contains(t, out, "Syncing file systems")
	assert.Contains(t, out, "\nreal\t")

	logs := f.logs.String()
	assert.Contains(t, logs, "Starting rpi-clone to /dev/sda...")
	assert.Contains(t, logs, "Backup completed with exit code 0")
}

func TestClone_ForceInitialize(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	plan := f.plan()
	plan.Initialize = true

	f.cmd.On("Run", mock.Anything, mock.MatchedBy(func(c system.Command) bool {
		return slices.Equal([]string{"-f", "sda"}, c.Args)
	})).Return(nil)

	require.NoError(t, f.h.Clone(context.Background(), plan))
}

// TestClone_ExitStatus ensures a failing tool is reported with its exit code.
func TestClone_ExitStatus(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	exitErr := exec.Command("sh", "-c", "exit 3").Run()
	require.Error(t, exitErr)

	f := newFixture(t)
	f.cmd.On("Run", mock.Anything, mock.Anything).Return(fmt.Errorf("(system-exec) rpi-clone: %w", exitErr))

	err := f.h.Clone(context.Background(), f.plan())
	require.ErrorIs(t, err, ErrCloneFailed)
	assert.Contains(t, f.logs.String(), "Backup completed with exit code 3")
	assert.Contains(t, f.logs.String(), "level=ERROR")
}

func TestClone_StartFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.cmd.On("Run", mock.Anything, mock.Anything).Return(errors.New("fork/exec: no such file"))

	err := f.h.Clone(context.Background(), f.plan())
	require.ErrorIs(t, err, ErrCloneFailed)
	assert.Contains(t, f.logs.String(), "Backup completed with exit code -1")
}
