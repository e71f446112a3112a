package fat

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Options configures Build. The zero value is valid.
type Options struct {
	// Log receives one Info line per completed stage. Defaults to the
	// logrus standard logger.
	Log logrus.FieldLogger

	// Prober checks the free space before allocating. Defaults to
	// DiskSpace when writing to an afero.OsFs, and no check otherwise.
	Prober SpaceProber

	// Progress, if non-nil, receives a copy of the zero-fill writes so that
	// callers can report allocation progress.
	Progress io.Writer
}

func (o *Options) logger() logrus.FieldLogger {
	if o.Log == nil {
		return logrus.StandardLogger()
	}
	return o.Log
}

func (o *Options) prober(fs afero.Fs) SpaceProber {
	if o.Prober != nil {
		return o.Prober
	}
	if _, ok := fs.(*afero.OsFs); ok {
		return DiskSpace{}
	}
	return nil
}

// block is an encoded structure and the region it is written to.
type block struct {
	Region
	data []byte
}

// encode serializes every structure of g, in Layout order.
func encode(g Geometry) ([]block, error) {
	if err := g.check(); err != nil {
		return nil, &EncodingError{Structure: "geometry", Err: err}
	}
	bs := EncodeBootSector(g)
	fsInfo := EncodeFSInfo()
	data := [][]byte{bs[:], fsInfo[:]}
	data = append(data, EncodeFAT(g)...)
	data = append(data, EncodeRootDirectory(g))

	regions := Layout(g)
	if len(regions) != len(data) {
		return nil, &EncodingError{
			Structure: "layout",
			Err:       fmt.Errorf("%d regions for %d structures", len(regions), len(data)),
		}
	}
	blocks := make([]block, len(regions))
	for i, r := range regions {
		if int64(len(data[i])) != r.Length {
			return nil, &EncodingError{
				Structure: r.Name,
				Err:       fmt.Errorf("encoded %d bytes, region holds %d", len(data[i]), r.Length),
			}
		}
		if r.End() > g.ImageSize() {
			return nil, &EncodingError{
				Structure: r.Name,
				Err:       fmt.Errorf("region ends at %d, beyond the image size of %d", r.End(), g.ImageSize()),
			}
		}
		blocks[i] = block{Region: r, data: data[i]}
	}
	return blocks, nil
}

// Build writes an empty FAT32 volume with geometry g to path: the file is
// allocated and zero-filled, then the boot sector, FSInfo sector, FAT
// copies and root directory are written at their offsets.
//
// Errors are *AllocationError, *EncodingError or *WriteError, or the
// context's error if ctx is done during allocation. A failed Build leaves a
// partially written image which must be rebuilt from scratch, except when
// ctx is cancelled: then the partial image is removed.
func Build(ctx context.Context, fs afero.Fs, path string, g Geometry, opts *Options) (err error) {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.logger()

	// Encode first so that an invalid geometry never touches the disk.
	blocks, err := encode(g)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil && ctx.Err() != nil {
			if rerr := fs.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
				log.Warnf("removing partial image %s: %v", path, rerr)
			}
		}
	}()

	if err := Allocate(ctx, fs, path, g.ImageSize(), opts.prober(fs), opts.Progress); err != nil {
		return err
	}
	log.WithField("bytes", g.ImageSize()).Infof("OK: Image file %s created", path)

	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return &WriteError{Stage: b.Name, Offset: b.Offset, Err: err}
		}
		if err := writeAt(fs, path, b.Region, b.data); err != nil {
			return err
		}
		log.WithField("offset", b.Offset).Infof("OK: %s written", b.Name)
	}
	return nil
}

// writeAt opens path, writes p at r.Offset and closes the file again.
func writeAt(fs afero.Fs, path string, r Region, p []byte) (err error) {
	writeErr := func(err error) error {
		return &WriteError{Stage: r.Name, Offset: r.Offset, Err: err}
	}
	f, err := fs.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return writeErr(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = writeErr(cerr)
		}
	}()
	if _, err := f.Seek(r.Offset, io.SeekStart); err != nil {
		return writeErr(err)
	}
	if _, err := f.Write(p); err != nil {
		return writeErr(err)
	}
	return nil
}
