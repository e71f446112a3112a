package fat

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func label(s string, n int) []byte {
	b := make([]byte, n)
	padded(b, "label", s)
	return b
}

func TestComputeGeometry1GiB(t *testing.T) {
	t.Parallel()

	got, err := ComputeGeometry(1024 * 1024 * 1024)
	if err != nil {
		t.Fatal(err)
	}
	want := Geometry{
		BytesPerSector:    512,
		SectorsPerCluster: 8,
		ReservedSectors:   32,
		NumFATs:           2,
		Media:             0xF8,
		SectorsPerTrack:   63,
		NumHeads:          255,
		TotalSectors:      2097152,
		SectorsPerFAT:     2044,
		RootCluster:       2,
		FSInfoSector:      1,
		DriveNumber:       0x80,
		VolumeID:          0x12345678,
	}
	copy(want.OEMName[:], "CHRYSCOS")
	copy(want.VolumeLabel[:], "CHRYSALIS  ")
	copy(want.FSTypeLabel[:], "FAT32   ")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected geometry: diff (-want +got):\n%s", diff)
	}

	if got, want := got.Clusters(), uint32(261629); got != want {
		t.Errorf("Clusters() = %d, want %d", got, want)
	}
	if !got.Compliant() {
		t.Errorf("1 GiB volume not FAT32-compliant")
	}
	if got, want := got.FATOffset(0), int64(32*512); got != want {
		t.Errorf("FATOffset(0) = %d, want %d", got, want)
	}
	if got, want := got.RootDirOffset(), int64((32+2*2044)*512); got != want {
		t.Errorf("RootDirOffset() = %d, want %d", got, want)
	}
}

func TestComputeGeometrySizes(t *testing.T) {
	t.Parallel()

	for _, size := range []int64{
		MinImageSize,
		MinImageSize + 1,
		MinImageSize + 511,
		100 * 512,
		1024 * 1024,
		8*1024*1024 + 123,
		33 * 1024 * 1024,
		260 * 1024 * 1024,
		1024 * 1024 * 1024,
		4*1024*1024*1024 - 512,
		2*1024*1024*1024*1024 - 512,
	} {
		size := size // copy
		t.Run(fmt.Sprint(size), func(t *testing.T) {
			t.Parallel()
			g, err := ComputeGeometry(size)
			if err != nil {
				t.Fatal(err)
			}
			if got := g.ImageSize(); got > size || size-got >= SectorSize {
				t.Errorf("ImageSize() = %d, want the largest multiple of %d <= %d", got, SectorSize, size)
			}
			if err := g.check(); err != nil {
				t.Errorf("geometry violates an invariant: %v", err)
			}
			clusters := uint64(g.Clusters())
			if clusters < 1 {
				t.Fatalf("no data clusters")
			}
			if got, need := uint64(g.FATSize()), (clusters+2)*fatEntrySize; got < need {
				t.Errorf("FAT holds %d bytes, need %d for %d clusters", got, need, clusters)
			}
			// At most one sector more than needed.
			if slack := uint64(g.FATSize()) - (clusters+2)*fatEntrySize; slack >= 2*SectorSize {
				t.Errorf("FAT has %d bytes of slack", slack)
			}
			if end := g.RootDirOffset() + int64(g.ClusterSize()); end > g.ImageSize() {
				t.Errorf("root directory ends at %d, beyond image size %d", end, g.ImageSize())
			}
		})
	}
}

func TestComputeGeometryTooSmall(t *testing.T) {
	t.Parallel()

	for _, size := range []int64{-1, 0, 512, MinImageSize - 512, MinImageSize - 1} {
		_, err := ComputeGeometry(size)
		var gerr *GeometryError
		if !errors.As(err, &gerr) {
			t.Errorf("ComputeGeometry(%d) = %v, want a *GeometryError", size, err)
		}
	}
}

func TestComputeGeometryTooLarge(t *testing.T) {
	t.Parallel()

	_, err := ComputeGeometry((1 << 32) * SectorSize)
	var gerr *GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("ComputeGeometry(2 TiB) = %v, want a *GeometryError", err)
	}
}

func TestComputeGeometryOptions(t *testing.T) {
	t.Parallel()

	g, err := ComputeGeometry(64*1024*1024,
		WithOEMName("mkhdd"),
		WithVolumeLabel("BOOT"),
		WithVolumeID(0xCAFEBABE))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(label("mkhdd", 8), g.OEMName[:]); diff != "" {
		t.Errorf("unexpected OEM name: diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(label("BOOT", 11), g.VolumeLabel[:]); diff != "" {
		t.Errorf("unexpected volume label: diff (-want +got):\n%s", diff)
	}
	if got, want := g.VolumeID, uint32(0xCAFEBABE); got != want {
		t.Errorf("VolumeID = %#x, want %#x", got, want)
	}

	for _, opt := range []struct {
		desc string
		opt  Option
	}{
		{"long OEM name", WithOEMName("CHRYSALIS")},
		{"long label", WithVolumeLabel("CHRYSALIS OS")},
		{"non-ASCII label", WithVolumeLabel("Grüße")},
		{"control character", WithVolumeLabel("A\tB")},
	} {
		_, err := ComputeGeometry(64*1024*1024, opt.opt)
		var gerr *GeometryError
		if !errors.As(err, &gerr) {
			t.Errorf("%s: got %v, want a *GeometryError", opt.desc, err)
		}
	}
}

func TestVolumeIDFromTime(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 15, 10, 30, 45, 500_000_000, time.UTC)
	// lo = 0x030F + 0x2D32, hi = 0x0A1E + 2024
	const want = uint32(0x0A1E+2024)<<16 | uint32(0x030F+0x2D32)
	if got := VolumeIDFromTime(ts); got != want {
		t.Errorf("VolumeIDFromTime(%v) = %#08x, want %#08x", ts, got, want)
	}

	g, err := ComputeGeometry(64*1024*1024, WithVolumeIDFromTime(ts))
	if err != nil {
		t.Fatal(err)
	}
	if g.VolumeID != want {
		t.Errorf("VolumeID = %#08x, want %#08x", g.VolumeID, want)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	valid, err := ComputeGeometry(64 * 1024 * 1024)
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		desc   string
		modify func(*Geometry)
	}{
		{"zero value", func(g *Geometry) { *g = Geometry{} }},
		{"4K sectors", func(g *Geometry) { g.BytesPerSector = 4096 }},
		{"3 sectors per cluster", func(g *Geometry) { g.SectorsPerCluster = 3 }},
		{"no FATs", func(g *Geometry) { g.NumFATs = 0 }},
		{"FSInfo outside reserved area", func(g *Geometry) { g.FSInfoSector = g.ReservedSectors }},
		{"reserved root cluster", func(g *Geometry) { g.RootCluster = 1 }},
		{"undersized FAT", func(g *Geometry) { g.SectorsPerFAT = 1 }},
		{"root cluster out of range", func(g *Geometry) { g.RootCluster = g.Clusters() + 2 }},
	} {
		g := valid
		tt.modify(&g)
		if err := g.check(); err == nil {
			t.Errorf("%s: check() = nil, want error", tt.desc)
		}
	}
}
