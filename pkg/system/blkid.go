package system

import (
	"fmt"

	"github.com/joho/godotenv"
)

// Probe holds the attributes `blkid -o export` reports for one device.
type Probe struct {
	Device   string
	Type     string
	UUID     string
	PARTUUID string
	Label    string
}

// BlkidArgs returns the blkid arguments producing export-format output
// for dev.
func BlkidArgs(dev string) []string {
	return []string{"-o", "export", EnsureDevPrefix(dev)}
}

// ParseBlkidExport parses `blkid -o export` output. The format is a list of
// KEY=value lines, so it is read with the same dotenv parser as the
// configuration file.
func ParseBlkidExport(out []byte) (Probe, error) {
	attrs, err := godotenv.UnmarshalBytes(out)
	if err != nil {
		return Probe{}, fmt.Errorf("(system-blkid) failed to parse output: %w", err)
	}

	return Probe{
		Device:   attrs["DEVNAME"],
		Type:     attrs["TYPE"],
		UUID:     attrs["UUID"],
		PARTUUID: attrs["PARTUUID"],
		Label:    attrs["LABEL"],
	}, nil
}
