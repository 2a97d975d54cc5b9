// Package config loads the sdbackup configuration from an optional
// env-style file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultFile = "/etc/sdbackup.conf"

	KeyTarget        = "SDBACKUP_TARGET"
	KeyLogFile       = "SDBACKUP_LOG_FILE"
	KeyCloneTool     = "SDBACKUP_CLONE_TOOL"
	KeyCheckMount    = "SDBACKUP_CHECK_MOUNT"
	KeyBootMount     = "SDBACKUP_BOOT_MOUNT"
	KeyRootPartition = "SDBACKUP_ROOT_PARTITION"
	KeyBootPartition = "SDBACKUP_BOOT_PARTITION"
	KeySettleDelay   = "SDBACKUP_SETTLE_DELAY"
	KeyModelFile     = "SDBACKUP_MODEL_FILE"
	KeyModelMatch    = "SDBACKUP_MODEL_MATCH"
	KeyMarkerFile    = "SDBACKUP_MARKER_FILE"
	KeyCompareFiles  = "SDBACKUP_COMPARE_FILES"
	KeyForceInit     = "SDBACKUP_FORCE_INIT"
)

// ErrInvalidValue is returned for configuration values that cannot be parsed.
var ErrInvalidValue = errors.New("invalid configuration value")

// Config is the complete set of settings for one backup run.
type Config struct {
	Target        string
	LogFile       string
	CloneTool     string
	CheckMount    string
	BootMount     string
	RootPartition int
	BootPartition int
	SettleDelay   time.Duration
	ModelFile     string
	ModelMatch    string
	MarkerFile    string
	CompareFiles  []string
	ForceInit     bool
}

// Default returns the settings the backup uses when nothing is configured.
func Default() Config {
	return Config{
		Target:        "sda",
		LogFile:       "../logs/95-backup-sd-card.log",
		CloneTool:     "rpi-clone",
		CheckMount:    "/mnt/backup_check",
		BootMount:     "/mnt/backup_boot",
		RootPartition: 2,
		BootPartition: 1,
		SettleDelay:   2 * time.Second,
		ModelFile:     "/proc/device-tree/model",
		ModelMatch:    "Raspberry Pi",
		MarkerFile:    "etc/hostname",
		// The clone tool rewrites fstab on the target, so it never matches.
		CompareFiles: []string{"etc/hostname", "etc/passwd", "etc/group"},
	}
}

type genericConfigProvider interface {
	Read(filenames ...string) (envMap map[string]string, err error)
}

// Handler reads configuration through a generic provider and overlays the
// process environment.
type Handler struct {
	GenericHandler genericConfigProvider
	LookupEnv      func(key string) (string, bool)
}

// NewHandler returns a pointer to a new [Handler].
func NewHandler(genericHandler genericConfigProvider) *Handler {
	return &Handler{
		GenericHandler: genericHandler,
		LookupEnv:      os.LookupEnv,
	}
}

// Load builds a [Config] from the defaults, the file at path and the
// environment, in increasing order of precedence. A missing file is only
// an error when required is set.
func (c *Handler) Load(path string, required bool) (Config, error) {
	envMap := make(map[string]string)

	if path != "" {
		data, err := c.GenericHandler.Read(path)
		switch {
		case err == nil:
			for key, value := range data {
				envMap[key] = value
			}
		case errors.Is(err, fs.ErrNotExist) && !required:
		default:
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	for _, key := range []string{
		KeyTarget, KeyLogFile, KeyCloneTool, KeyCheckMount, KeyBootMount,
		KeyRootPartition, KeyBootPartition, KeySettleDelay, KeyModelFile,
		KeyModelMatch, KeyMarkerFile, KeyCompareFiles, KeyForceInit,
	} {
		if value, ok := c.LookupEnv(key); ok {
			envMap[key] = value
		}
	}

	return c.apply(Default(), envMap)
}

func (c *Handler) apply(cfg Config, envMap map[string]string) (Config, error) {
	setString := func(key string, dst *string) {
		if value := c.MapKeyToString(envMap, key); value != "" {
			*dst = value
		}
	}

	setString(KeyTarget, &cfg.Target)
	setString(KeyLogFile, &cfg.LogFile)
	setString(KeyCloneTool, &cfg.CloneTool)
	setString(KeyCheckMount, &cfg.CheckMount)
	setString(KeyBootMount, &cfg.BootMount)
	setString(KeyModelFile, &cfg.ModelFile)
	setString(KeyModelMatch, &cfg.ModelMatch)
	setString(KeyMarkerFile, &cfg.MarkerFile)

	for key, dst := range map[string]*int{
		KeyRootPartition: &cfg.RootPartition,
		KeyBootPartition: &cfg.BootPartition,
	} {
		if c.MapKeyToString(envMap, key) == "" {
			continue
		}
		value := c.MapKeyToInt(envMap, key)
		if value < 1 {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, envMap[key])
		}
		*dst = value
	}

	if raw := c.MapKeyToString(envMap, KeySettleDelay); raw != "" {
		delay, err := parseDelay(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, KeySettleDelay, raw)
		}
		cfg.SettleDelay = delay
	}

	if raw, exists := envMap[KeyCompareFiles]; exists {
		cfg.CompareFiles = splitList(raw)
	}

	if raw := c.MapKeyToString(envMap, KeyForceInit); raw != "" {
		force, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, KeyForceInit, raw)
		}
		cfg.ForceInit = force
	}

	if cfg.RootPartition == cfg.BootPartition {
		return Config{}, fmt.Errorf("%w: root and boot partition are both %d", ErrInvalidValue, cfg.RootPartition)
	}

	return cfg, nil
}

// MapKeyToString returns the trimmed value for key, or "" if unset.
func (c *Handler) MapKeyToString(envMap map[string]string, key string) string {
	if value, exists := envMap[key]; exists {
		return strings.TrimSpace(value)
	}

	return ""
}

// MapKeyToInt returns the integer value for key, or -1 if unset or invalid.
func (c *Handler) MapKeyToInt(envMap map[string]string, key string) int {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return -1
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}

	return intValue
}

// parseDelay accepts a Go duration ("2s", "500ms") or plain seconds ("2").
func parseDelay(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0, ErrInvalidValue
		}

		return time.Duration(secs) * time.Second, nil
	}

	delay, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if delay < 0 {
		return 0, ErrInvalidValue
	}

	return delay, nil
}

func splitList(raw string) []string {
	var res []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, strings.TrimPrefix(item, "/"))
		}
	}

	return res
}
