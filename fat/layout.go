package fat

import "fmt"

// Region is a structure stored at a fixed position in the image.
type Region struct {
	// Name of the structure, also used as the stage name in errors and
	// progress messages.
	Name string
	// Offset in bytes from the start of the image.
	Offset int64
	// Length in bytes. [Offset, Offset+Length) must not overlap for any 2
	// Regions of a Layout.
	Length int64
}

// End returns the offset of the first byte after r.
func (r Region) End() int64 { return r.Offset + r.Length }

// Layout returns the regions written for g, sorted by offset.
func Layout(g Geometry) []Region {
	sector := int64(g.BytesPerSector)
	regions := []Region{
		{"boot sector", 0, sector},
		{"FSInfo sector", int64(g.FSInfoSector) * sector, sector},
	}
	for i := 0; i < int(g.NumFATs); i++ {
		regions = append(regions, Region{
			Name:   fmt.Sprintf("FAT #%d", i+1),
			Offset: g.FATOffset(i),
			Length: g.FATSize(),
		})
	}
	return append(regions, Region{
		Name:   "root directory",
		Offset: g.RootDirOffset(),
		Length: int64(g.ClusterSize()),
	})
}
