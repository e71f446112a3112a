package fat

import (
	"fmt"
	"math"
	"time"
	"unicode"
)

// SectorSize is the only sector size this package writes.
const SectorSize = 512

const (
	sectorsPerCluster = uint8(8)
	reservedSectors   = uint16(32)
	numFATs           = uint8(2)

	// rootCluster is the first data cluster; clusters 0 and 1 have special
	// meaning (copy of the media descriptor and end-of-chain marker).
	rootCluster = uint32(2)

	fsInfoSector = uint16(1)

	// hardDisk is the media descriptor for a fixed disk (as opposed to floppy).
	hardDisk = uint8(0xF8)

	// CHS fields, only inspected by legacy boot code.
	sectorsPerTrack = uint16(63)
	numHeads        = uint16(255)

	// driveNumber is the BIOS drive number of the first hard disk.
	driveNumber = uint8(0x80)

	defaultVolumeID = uint32(0x12345678)

	// fatEntrySize is the width of a FAT32 table entry in bytes.
	fatEntrySize = 4

	// minFAT32Clusters is the smallest cluster count for which readers
	// following the Microsoft specification detect FAT32 rather than FAT16.
	minFAT32Clusters = 65525
)

var (
	defaultOEMName     = "CHRYSCOS"
	defaultVolumeLabel = "CHRYSALIS"
	fsTypeLabel        = "FAT32"
)

// Geometry holds every value encoded into the on-disk structures of a
// FAT32 volume. Use ComputeGeometry to obtain a consistent Geometry; it
// must not be modified afterwards.
type Geometry struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	Media             uint8
	SectorsPerTrack   uint16
	NumHeads          uint16
	TotalSectors      uint32
	SectorsPerFAT     uint32
	RootCluster       uint32
	FSInfoSector      uint16
	DriveNumber       uint8
	VolumeID          uint32
	OEMName           [8]byte
	VolumeLabel       [11]byte
	FSTypeLabel       [8]byte
}

// Option customizes the non-structural fields of a Geometry.
type Option func(*Geometry) error

// WithOEMName sets the OEM identifier (at most 8 ASCII characters).
func WithOEMName(name string) Option {
	return func(g *Geometry) error {
		return padded(g.OEMName[:], "OEM name", name)
	}
}

// WithVolumeLabel sets the volume label (at most 11 ASCII characters).
func WithVolumeLabel(label string) Option {
	return func(g *Geometry) error {
		return padded(g.VolumeLabel[:], "volume label", label)
	}
}

// WithVolumeID sets the volume serial number.
func WithVolumeID(id uint32) Option {
	return func(g *Geometry) error {
		g.VolumeID = id
		return nil
	}
}

// WithVolumeIDFromTime derives the volume serial number from t the way DOS
// FORMAT does. Images built with this option differ between runs only in
// the four serial number bytes at offset 67 of the boot sector.
func WithVolumeIDFromTime(t time.Time) Option {
	return func(g *Geometry) error {
		g.VolumeID = VolumeIDFromTime(t)
		return nil
	}
}

// VolumeIDFromTime returns a DOS-style volume serial number for t.
func VolumeIDFromTime(t time.Time) uint32 {
	lo := uint16(t.Month())<<8 | uint16(t.Day())
	lo += uint16(t.Second())<<8 | uint16(t.Nanosecond()/10_000_000)
	hi := uint16(t.Hour())<<8 | uint16(t.Minute())
	hi += uint16(t.Year())
	return uint32(hi)<<16 | uint32(lo)
}

func padded(dst []byte, what, s string) error {
	if len(s) > len(dst) {
		return fmt.Errorf("%s %q longer than %d bytes", what, s, len(dst))
	}
	for _, r := range s {
		if r > unicode.MaxASCII || r < ' ' {
			return fmt.Errorf("%s %q contains non-printable-ASCII character %q", what, s, r)
		}
	}
	for i := range dst {
		dst[i] = ' '
	}
	copy(dst, s)
	return nil
}

// MinImageSize is the smallest image size in bytes for which a layout
// exists: reserved sectors, one sector per FAT copy and one data cluster.
const MinImageSize = (int64(reservedSectors) + int64(numFATs)*1 + int64(sectorsPerCluster)) * SectorSize

// ComputeGeometry derives the FAT32 geometry for an image of size bytes.
// Sizes which are not a multiple of SectorSize are truncated to whole
// sectors, so Geometry.ImageSize never exceeds size.
func ComputeGeometry(size int64, opts ...Option) (Geometry, error) {
	g := Geometry{
		BytesPerSector:    SectorSize,
		SectorsPerCluster: sectorsPerCluster,
		ReservedSectors:   reservedSectors,
		NumFATs:           numFATs,
		Media:             hardDisk,
		SectorsPerTrack:   sectorsPerTrack,
		NumHeads:          numHeads,
		RootCluster:       rootCluster,
		FSInfoSector:      fsInfoSector,
		DriveNumber:       driveNumber,
		VolumeID:          defaultVolumeID,
	}
	// The defaults are valid ASCII and fit.
	padded(g.OEMName[:], "OEM name", defaultOEMName)
	padded(g.VolumeLabel[:], "volume label", defaultVolumeLabel)
	padded(g.FSTypeLabel[:], "file system type", fsTypeLabel)

	for _, opt := range opts {
		if err := opt(&g); err != nil {
			return Geometry{}, &GeometryError{Size: size, Reason: err.Error()}
		}
	}

	if size < MinImageSize {
		return Geometry{}, &GeometryError{
			Size:   size,
			Reason: fmt.Sprintf("smaller than the minimum of %d bytes", MinImageSize),
		}
	}
	sectors := size / SectorSize
	if sectors > math.MaxUint32 {
		return Geometry{}, &GeometryError{
			Size:   size,
			Reason: fmt.Sprintf("%d sectors do not fit the 32-bit total sector count", sectors),
		}
	}
	g.TotalSectors = uint32(sectors)

	spf, ok := fatSectors(g.TotalSectors, g.ReservedSectors, g.NumFATs, g.SectorsPerCluster)
	if !ok {
		return Geometry{}, &GeometryError{
			Size:   size,
			Reason: "no room for a data cluster after the FAT region",
		}
	}
	g.SectorsPerFAT = spf
	return g, nil
}

// fatSectors returns the number of sectors per FAT copy needed to address
// every data cluster. Growing the FAT shrinks the data area, so the value
// is found by iterating to a fixed point and then bumped until it covers
// the resulting cluster count.
func fatSectors(total uint32, reserved uint16, fats, spc uint8) (uint32, bool) {
	clusters := func(spf uint32) (uint64, bool) {
		meta := uint64(reserved) + uint64(fats)*uint64(spf)
		if meta >= uint64(total) {
			return 0, false
		}
		return (uint64(total) - meta) / uint64(spc), true
	}
	need := func(clusters uint64) uint32 {
		bytes := (clusters + 2) * fatEntrySize
		return uint32((bytes + SectorSize - 1) / SectorSize)
	}

	spf := uint32(1)
	for i := 0; i < 16; i++ {
		c, ok := clusters(spf)
		if !ok {
			return 0, false
		}
		n := need(c)
		if n == spf {
			break
		}
		spf = n
	}
	for {
		c, ok := clusters(spf)
		if !ok || c < 1 {
			return 0, false
		}
		if need(c) <= spf {
			return spf, true
		}
		spf++
	}
}

// ImageSize is the size of the image file in bytes.
func (g Geometry) ImageSize() int64 {
	return int64(g.TotalSectors) * int64(g.BytesPerSector)
}

// ClusterSize is the size of one cluster in bytes.
func (g Geometry) ClusterSize() int {
	return int(g.SectorsPerCluster) * int(g.BytesPerSector)
}

// FATSize is the size of one FAT copy in bytes.
func (g Geometry) FATSize() int64 {
	return int64(g.SectorsPerFAT) * int64(g.BytesPerSector)
}

// FATOffset returns the byte offset of FAT copy idx.
func (g Geometry) FATOffset(idx int) int64 {
	return int64(g.ReservedSectors)*int64(g.BytesPerSector) + int64(idx)*g.FATSize()
}

// DataOffset is the byte offset of the first data cluster (cluster 2).
func (g Geometry) DataOffset() int64 {
	return g.FATOffset(int(g.NumFATs))
}

// RootDirOffset is the byte offset of the root directory's first cluster.
func (g Geometry) RootDirOffset() int64 {
	return g.DataOffset() + int64(g.RootCluster-rootCluster)*int64(g.ClusterSize())
}

// Clusters is the number of data clusters in the volume.
func (g Geometry) Clusters() uint32 {
	meta := uint32(g.ReservedSectors) + uint32(g.NumFATs)*g.SectorsPerFAT
	if meta >= g.TotalSectors || g.SectorsPerCluster == 0 {
		return 0
	}
	return (g.TotalSectors - meta) / uint32(g.SectorsPerCluster)
}

// Compliant reports whether the cluster count is large enough for readers
// following the Microsoft specification to detect the volume as FAT32.
// Smaller volumes are still written, but some readers will treat them as
// FAT16.
func (g Geometry) Compliant() bool {
	return g.Clusters() >= minFAT32Clusters
}

// check verifies the invariants ComputeGeometry establishes.
func (g Geometry) check() error {
	switch {
	case g.BytesPerSector != SectorSize:
		return fmt.Errorf("bytes per sector is %d, want %d", g.BytesPerSector, SectorSize)
	case g.SectorsPerCluster == 0 || g.SectorsPerCluster&(g.SectorsPerCluster-1) != 0:
		return fmt.Errorf("sectors per cluster %d is not a power of two", g.SectorsPerCluster)
	case g.NumFATs == 0:
		return fmt.Errorf("no FAT copies")
	case g.ReservedSectors <= g.FSInfoSector || g.FSInfoSector == 0:
		return fmt.Errorf("FSInfo sector %d outside of the %d reserved sectors", g.FSInfoSector, g.ReservedSectors)
	case g.RootCluster < rootCluster:
		return fmt.Errorf("root cluster %d is reserved", g.RootCluster)
	case g.Clusters() == 0:
		return fmt.Errorf("no data clusters")
	case uint64(g.Clusters()+2)*fatEntrySize > uint64(g.FATSize()):
		return fmt.Errorf("%d sectors per FAT cannot address %d clusters", g.SectorsPerFAT, g.Clusters())
	case g.RootCluster-rootCluster >= g.Clusters():
		return fmt.Errorf("root cluster %d beyond the last cluster", g.RootCluster)
	}
	return nil
}
