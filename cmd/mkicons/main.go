// mkicons converts the desktop icons to the BMP files the Chrysalis OS
// window manager loads from the disk image.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/chrysalisos/hddimg/icons"
	"github.com/chrysalisos/hddimg/imageflag"
)

func main() {
	fs := pflag.CommandLine
	flags := imageflag.RegisterIconPflags(fs)
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "USAGE: %s [options] [icon.png...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Without arguments, the icons listed in the configuration are converted.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	pflag.Parse()

	log.SetOutput(os.Stdout)
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := flags.Config()
	if err != nil {
		log.Errorf("loading configuration: %v", err)
		os.Exit(2)
	}
	srcs := fs.Args()
	if len(srcs) == 0 {
		srcs = cfg.Icons.Sources
	}
	if len(srcs) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	c := &icons.Converter{
		Fs:     afero.NewOsFs(),
		OutDir: cfg.Icons.OutDir,
		Size:   cfg.Icons.Size,
		Log:    log.StandardLogger(),
	}
	written, err := c.Convert(ctx, srcs)
	log.Infof("%d of %d icons converted to %s", len(written), len(srcs), c.OutDir)
	if err != nil {
		log.Error(errors.Wrap(err, "converting icons"))
		stop()
		os.Exit(1)
	}
}
