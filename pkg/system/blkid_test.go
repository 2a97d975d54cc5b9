package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlkidExport_Root(t *testing.T) {
	t.Parallel()

	out := []byte(`DEVNAME=/dev/sda2
LABEL=rootfs
UUID=9c7e2035-df9b-490b-977b-d60f2170889d
BLOCK_SIZE=4096
TYPE=ext4
PARTUUID=2d1a4e6b-02
`)

	probe, err := ParseBlkidExport(out)
	require.NoError(t, err)
	assert.Equal(t, "/dev/sda2", probe.Device)
	assert.Equal(t, "ext4", probe.Type)
	assert.Equal(t, "rootfs", probe.Label)
	assert.Equal(t, "9c7e2035-df9b-490b-977b-d60f2170889d", probe.UUID)
	assert.Equal(t, "2d1a4e6b-02", probe.PARTUUID)
}

func TestParseBlkidExport_Boot(t *testing.T) {
	t.Parallel()

	out := []byte("DEVNAME=/dev/sda1\nLABEL_FATBOOT=bootfs\nLABEL=bootfs\nUUID=4EF5-6F55\nBLOCK_SIZE=512\nTYPE=vfat\nPARTUUID=2d1a4e6b-01\n")

	probe, err := ParseBlkidExport(out)
	require.NoError(t, err)
	assert.Equal(t, "vfat", probe.Type)
	assert.Equal(t, "2d1a4e6b-01", probe.PARTUUID)
}

func TestParseBlkidExport_Empty(t *testing.T) {
	t.Parallel()

	probe, err := ParseBlkidExport(nil)
	require.NoError(t, err)
	assert.Empty(t, probe.PARTUUID)
	assert.Empty(t, probe.Type)
}

func TestBlkidArgs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"-o", "export", "/dev/sda2"}, BlkidArgs("sda2"))
}
