package fat

import "encoding/binary"

const (
	// endOfChain marks the end of a cluster chain in the FAT.
	endOfChain = uint32(0xFFFFFFFF)

	// mediaEntryHigh holds the bits of FAT entry 0 above the media
	// descriptor, which are always set.
	mediaEntryHigh = uint32(0xFFFFFF00)
)

// EncodeFAT returns g.NumFATs identical copies of the File Allocation
// Table of an empty volume: entry 0 repeats the media descriptor, entry 1
// is an end-of-chain marker and all clusters are free.
func EncodeFAT(g Geometry) [][]byte {
	fat := make([]byte, g.FATSize())
	binary.LittleEndian.PutUint32(fat[0:4], mediaEntryHigh|uint32(g.Media))
	binary.LittleEndian.PutUint32(fat[4:8], endOfChain)

	copies := make([][]byte, g.NumFATs)
	copies[0] = fat
	for i := 1; i < len(copies); i++ {
		copies[i] = append([]byte(nil), fat...)
	}
	return copies
}
