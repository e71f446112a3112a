// mkhdd creates the bootable FAT32 hard disk image (hdd.img) for Chrysalis
// OS. The image holds a single, empty FAT32 volume without a partition
// table.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/chrysalisos/hddimg/config"
	"github.com/chrysalisos/hddimg/fat"
	"github.com/chrysalisos/hddimg/humanize"
	"github.com/chrysalisos/hddimg/imageflag"
	"github.com/chrysalisos/hddimg/progress"
)

var defaultLogFormatter = &log.TextFormatter{}

// infoFormatter overrides the default format for Info() log events to
// provide an easier to read output
type infoFormatter struct{}

func (f *infoFormatter) Format(entry *log.Entry) ([]byte, error) {
	if entry.Level == log.InfoLevel {
		return append([]byte(entry.Message), '\n'), nil
	}
	return defaultLogFormatter.Format(entry)
}

// usageError is reported with exit code 2.
type usageError struct{ error }

func geometryOptions(cfg config.Config, now time.Time) []fat.Option {
	opts := []fat.Option{
		fat.WithOEMName(cfg.OEMName),
		fat.WithVolumeLabel(cfg.VolumeLabel),
		fat.WithVolumeID(cfg.VolumeID),
	}
	if cfg.SerialFromTime {
		opts = append(opts, fat.WithVolumeIDFromTime(now))
	}
	return opts
}

func run(ctx context.Context, fs afero.Fs, cfg config.Config, showProgress bool) error {
	size, err := cfg.SizeBytes()
	if err != nil {
		return usageError{errors.Wrap(err, "--size")}
	}
	g, err := fat.ComputeGeometry(size, geometryOptions(cfg, time.Now())...)
	if err != nil {
		return err
	}
	if !g.Compliant() {
		log.Warnf("%d clusters is below the FAT32 minimum of 65525, some readers will detect FAT16", g.Clusters())
	}
	log.Debugf("geometry: %+v", g)

	log.Infof("Creating bootable %s (%s FAT32)...", cfg.Output, humanize.Bytes(uint64(g.ImageSize())))

	opts := &fat.Options{Log: log.StandardLogger()}
	if showProgress {
		progress.Reset()
		rep := &progress.Reporter{}
		rep.SetStatus("allocating")
		rep.SetTotal(uint64(g.ImageSize()))
		pctx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			rep.Report(pctx)
		}()
		defer func() {
			cancel()
			<-done
		}()
		opts.Progress = progress.Writer{}
	}

	if err := fat.Build(ctx, fs, cfg.Output, g, opts); err != nil {
		return errors.Wrapf(err, "building %s", cfg.Output)
	}

	if cfg.Verify {
		if err := fat.Verify(fs, cfg.Output, g); err != nil {
			return errors.Wrapf(err, "verifying %s", cfg.Output)
		}
		log.Infof("OK: %s verified", cfg.Output)
	}
	digest, err := fat.Digest(fs, cfg.Output)
	if err != nil {
		return errors.Wrapf(err, "hashing %s", cfg.Output)
	}
	log.WithField("blake2b", digest).Debugf("image digest")

	banner := strings.Repeat("=", 50)
	log.Info("")
	log.Info(banner)
	log.Infof("%s ready for Chrysalis OS", cfg.Output)
	log.Info(banner)
	return nil
}

func exitCode(err error) int {
	var uerr usageError
	if errors.As(err, &uerr) {
		return 2
	}
	return 1
}

func main() {
	fs := pflag.CommandLine
	flags := imageflag.RegisterPflags(fs)
	var (
		debug        = fs.Bool("debug", false, "enable debug logging")
		showProgress = fs.Bool("progress", true, "print a status line while the image is zero-filled")
	)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "USAGE: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Creates an empty, bootable FAT32 disk image.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	pflag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFormatter(new(infoFormatter))
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %q\n", fs.Args())
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := flags.Config()
	if err != nil {
		log.Errorf("loading configuration: %v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, afero.NewOsFs(), cfg, *showProgress)
	stop()
	if err != nil {
		log.Error(err)
		os.Exit(exitCode(err))
	}
}
