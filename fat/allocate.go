package fat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// zeroChunk is the size of the zero-filled buffer written per call.
const zeroChunk = 1 << 20

// Allocate creates path (truncating any existing file) and writes size
// zero bytes to it. The file is filled explicitly instead of relying on
// sparse files, so every byte not overwritten later reads as zero and
// insufficient space is detected now.
//
// If prober is non-nil, the free space of the destination directory is
// checked before writing. Written bytes are also copied to progress, if
// non-nil.
func Allocate(ctx context.Context, fs afero.Fs, path string, size int64, prober SpaceProber, progress io.Writer) (err error) {
	allocErr := func(err error) error {
		return &AllocationError{Path: path, Size: size, Err: err}
	}
	if size < 0 {
		return allocErr(fmt.Errorf("negative size"))
	}

	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return allocErr(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = allocErr(cerr)
		}
	}()

	if prober != nil {
		avail, err := prober.Available(filepath.Dir(path))
		switch {
		case errors.Is(err, errSpaceUnknown):
			// proceed, a full disk will fail the writes below
		case err != nil:
			return allocErr(err)
		case avail < uint64(size):
			return allocErr(fmt.Errorf("insufficient free space: %d bytes available", avail))
		}
	}

	var w io.Writer = f
	if progress != nil {
		w = io.MultiWriter(f, progress)
	}
	zero := make([]byte, zeroChunk)
	for remaining := size; remaining > 0; {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := int64(len(zero))
		if remaining < n {
			n = remaining
		}
		if _, err := w.Write(zero[:n]); err != nil {
			return allocErr(err)
		}
		remaining -= n
	}
	if err := f.Sync(); err != nil {
		return allocErr(err)
	}
	return nil
}
