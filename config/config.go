// Package config holds the settings of the mkhdd and mkicons tools: built-in
// defaults, optionally overridden by a YAML file in the user's config
// directory and finally by command-line flags (see package imageflag).
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/chrysalisos/hddimg/humanize"
)

// Config is the tool configuration.
type Config struct {
	// Output is the path of the image file to (over)write.
	Output string `yaml:"output"`
	// Size of the image, e.g. "1G" (see humanize.ParseBytes).
	Size string `yaml:"size"`
	// OEMName is stored in the boot sector, at most 8 ASCII characters.
	OEMName string `yaml:"oem_name"`
	// VolumeLabel is stored in the boot sector, at most 11 ASCII characters.
	VolumeLabel string `yaml:"volume_label"`
	// VolumeID is the volume serial number. Ignored if SerialFromTime is set.
	VolumeID uint32 `yaml:"volume_id"`
	// SerialFromTime derives the volume serial number from the creation
	// time, making every image unique.
	SerialFromTime bool `yaml:"serial_from_time"`
	// Verify reads the image back after writing it.
	Verify bool `yaml:"verify"`

	Icons IconsConfig `yaml:"icons"`
}

// IconsConfig configures the icon conversion.
type IconsConfig struct {
	// OutDir receives one <name>.bmp per source.
	OutDir string `yaml:"out_dir"`
	// Size is the width and height of the resulting bitmaps.
	Size int `yaml:"size"`
	// Sources are the icon files to convert.
	Sources []string `yaml:"sources"`
}

// DefaultIcons is the icon set of the desktop, in taskbar order.
var DefaultIcons = []string{
	"start.png",
	"term.png",
	"files.png",
	"img.png",
	"note.png",
	"paint.png",
	"calc.png",
	"clock.png",
	"calc.png",
	"task.png",
	"info.png",
	"3D.png",
	"mine.png",
	"net.png",
	"x0.png",
	"run.png",
}

// Default returns the built-in configuration: a 1 GiB image named hdd.img.
func Default() Config {
	return Config{
		Output:      "hdd.img",
		Size:        "1G",
		OEMName:     "CHRYSCOS",
		VolumeLabel: "CHRYSALIS",
		VolumeID:    0x12345678,
		Icons: IconsConfig{
			OutDir:  "out",
			Size:    128,
			Sources: append([]string(nil), DefaultIcons...),
		},
	}
}

// SizeBytes returns Size in bytes.
func (c Config) SizeBytes() (int64, error) {
	n, err := humanize.ParseBytes(c.Size)
	if err != nil {
		return 0, err
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("size %q too large", c.Size)
	}
	return int64(n), nil
}

// Load returns the defaults overridden by the YAML file at path. Unknown
// keys are rejected to catch typos.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %v", path, err)
	}
	return cfg, nil
}

// LoadDefault is like Load for DefaultPath, but a missing file yields the
// defaults.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return cfg, err
}

// Dir returns the per-user configuration directory.
// Typically ~/.config/chrysalis on Linux
// Typically ~/Library/Application\ Support/chrysalis on macOS/Darwin
func Dir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "chrysalis"), nil
}

// DefaultPath returns the location of the configuration file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hddimg.yml"), nil
}
