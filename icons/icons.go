// Package icons converts the desktop icons into the fixed-size bitmaps
// the kernel's image widget loads.
package icons

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Converter resizes source icons to Size×Size pixels and stores them as
// BMP files in OutDir.
type Converter struct {
	Fs     afero.Fs
	OutDir string
	Size   int
	Log    logrus.FieldLogger
}

// OutputPath returns the bitmap path for src: OutDir/<base name>.bmp.
func (c *Converter) OutputPath(src string) string {
	base := filepath.Base(src)
	return filepath.Join(c.OutDir, strings.TrimSuffix(base, filepath.Ext(base))+".bmp")
}

// Convert converts every source, continuing past failures. It returns the
// paths of the written bitmaps and all failures joined into one error.
// Sources mapping to the same output are converted once.
func (c *Converter) Convert(ctx context.Context, srcs []string) ([]string, error) {
	if c.Size <= 0 {
		return nil, fmt.Errorf("invalid icon size %d", c.Size)
	}
	log := c.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := c.Fs.MkdirAll(c.OutDir, 0755); err != nil {
		return nil, err
	}

	var (
		written []string
		errs    []error
	)
	seen := make(map[string]bool)
	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		out := c.OutputPath(src)
		if seen[out] {
			continue
		}
		seen[out] = true
		if err := c.convert(src, out); err != nil {
			log.Warnf("skipping %s: %v", src, err)
			errs = append(errs, fmt.Errorf("%s: %w", src, err))
			continue
		}
		log.Infof("wrote %s", out)
		written = append(written, out)
	}
	return written, errors.Join(errs...)
}

func (c *Converter) convert(src, out string) (err error) {
	in, err := c.Fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	img, _, err := image.Decode(in)
	if err != nil {
		return err
	}

	dst := image.NewRGBA(image.Rect(0, 0, c.Size, c.Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	f, err := c.Fs.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return bmp.Encode(f, dst)
}
