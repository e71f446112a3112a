package fat

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"golang.org/x/crypto/blake2b"
)

// Verify reads back an image written by Build and checks that it holds
// exactly the structures encoded for g. It is a self-check of this
// package's output, not a general FAT32 checker.
func Verify(fs afero.Fs, path string, g Geometry) error {
	f, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}
	if got, want := st.Size(), g.ImageSize(); got != want {
		return fmt.Errorf("%s: image is %d bytes, want %d", path, got, want)
	}

	read := func(r Region) ([]byte, error) {
		b := make([]byte, r.Length)
		if _, err := f.Seek(r.Offset, io.SeekStart); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(f, b); err != nil {
			return nil, fmt.Errorf("reading %s at offset %d: %v", r.Name, r.Offset, err)
		}
		return b, nil
	}

	regions := Layout(g)

	b, err := read(regions[0])
	if err != nil {
		return err
	}
	var sector [SectorSize]byte
	copy(sector[:], b)
	decoded, err := DecodeBootSector(sector)
	if err != nil {
		return err
	}
	if decoded != g {
		return fmt.Errorf("boot sector does not match geometry: got %+v, want %+v", decoded, g)
	}

	if b, err = read(regions[1]); err != nil {
		return err
	}
	for _, sig := range []struct {
		offset int
		want   uint32
	}{
		{0, fsInfoLeadSignature},
		{484, fsInfoStructSignature},
		{508, fsInfoTrailSignature},
	} {
		if got := binary.LittleEndian.Uint32(b[sig.offset:]); got != sig.want {
			return fmt.Errorf("FSInfo signature at %d is %#08x, want %#08x", sig.offset, got, sig.want)
		}
	}

	want := EncodeFAT(g)[0]
	for _, r := range regions[2 : 2+int(g.NumFATs)] {
		got, err := read(r)
		if err != nil {
			return err
		}
		if !bytes.Equal(got, want) {
			return fmt.Errorf("%s does not hold the FAT of an empty volume", r.Name)
		}
	}

	root := regions[len(regions)-1]
	if b, err = read(root); err != nil {
		return err
	}
	if !bytes.Equal(b, make([]byte, len(b))) {
		return fmt.Errorf("root directory at offset %d is not empty", root.Offset)
	}
	return nil
}

// Digest returns the hex-encoded BLAKE2b-256 hash of the image contents.
// Two images built from the same Geometry have the same digest.
func Digest(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
