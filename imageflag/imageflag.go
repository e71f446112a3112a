// Package imageflag registers the command-line flags shared by the image
// tools and merges them over the configuration file.
package imageflag

import (
	"github.com/spf13/pflag"

	"github.com/chrysalisos/hddimg/config"
)

// Flags holds the values of the registered flags. Only flags which were
// set explicitly override the configuration file.
type Flags struct {
	fs         *pflag.FlagSet
	configPath string
	v          config.Config

	// overrides copies a flag's value into the loaded configuration.
	overrides map[string]func(*config.Config)
}

func register(fs *pflag.FlagSet) *Flags {
	f := &Flags{
		fs:        fs,
		v:         config.Default(),
		overrides: make(map[string]func(*config.Config)),
	}
	fs.StringVar(&f.configPath,
		"config",
		"",
		`path to a YAML configuration file (default: hddimg.yml in the user config directory, if present)`)
	return f
}

// RegisterPflags registers the disk image flags on fs.
func RegisterPflags(fs *pflag.FlagSet) *Flags {
	f := register(fs)
	fs.StringVarP(&f.v.Output,
		"output",
		"o",
		f.v.Output,
		`path of the image file, overwritten if it exists`)
	f.overrides["output"] = func(c *config.Config) { c.Output = f.v.Output }

	fs.StringVarP(&f.v.Size,
		"size",
		"s",
		f.v.Size,
		`image size, e.g. 1G or 512MiB (binary units)`)
	f.overrides["size"] = func(c *config.Config) { c.Size = f.v.Size }

	fs.StringVar(&f.v.OEMName,
		"oem",
		f.v.OEMName,
		`OEM name stored in the boot sector (at most 8 ASCII characters)`)
	f.overrides["oem"] = func(c *config.Config) { c.OEMName = f.v.OEMName }

	fs.StringVar(&f.v.VolumeLabel,
		"label",
		f.v.VolumeLabel,
		`volume label (at most 11 ASCII characters)`)
	f.overrides["label"] = func(c *config.Config) { c.VolumeLabel = f.v.VolumeLabel }

	fs.Uint32Var(&f.v.VolumeID,
		"volume_id",
		f.v.VolumeID,
		`volume serial number, e.g. 0x12345678`)
	f.overrides["volume_id"] = func(c *config.Config) { c.VolumeID = f.v.VolumeID }

	fs.BoolVar(&f.v.SerialFromTime,
		"serial_from_time",
		f.v.SerialFromTime,
		`derive the volume serial number from the current time instead of --volume_id`)
	f.overrides["serial_from_time"] = func(c *config.Config) { c.SerialFromTime = f.v.SerialFromTime }

	fs.BoolVar(&f.v.Verify,
		"verify",
		f.v.Verify,
		`read the image back and check its structures after writing`)
	f.overrides["verify"] = func(c *config.Config) { c.Verify = f.v.Verify }
	return f
}

// RegisterIconPflags registers the icon conversion flags on fs.
func RegisterIconPflags(fs *pflag.FlagSet) *Flags {
	f := register(fs)
	fs.StringVar(&f.v.Icons.OutDir,
		"out",
		f.v.Icons.OutDir,
		`directory receiving one <name>.bmp per source icon`)
	f.overrides["out"] = func(c *config.Config) { c.Icons.OutDir = f.v.Icons.OutDir }

	fs.IntVar(&f.v.Icons.Size,
		"size",
		f.v.Icons.Size,
		`width and height of the generated bitmaps`)
	f.overrides["size"] = func(c *config.Config) { c.Icons.Size = f.v.Icons.Size }
	return f
}

// Config loads the configuration file (see --config) and applies the flags
// set on the command line over it.
func (f *Flags) Config() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.Load(f.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return cfg, err
	}
	for name, override := range f.overrides {
		if f.fs.Changed(name) {
			override(&cfg)
		}
	}
	return cfg, nil
}
