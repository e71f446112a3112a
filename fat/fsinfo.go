package fat

import "encoding/binary"

const (
	fsInfoLeadSignature   = uint32(0x41615252) // "RRaA"
	fsInfoStructSignature = uint32(0x61417272) // "rrAa"
	fsInfoTrailSignature  = uint32(0xAA550000) // 00 00 55 AA

	// unknownCount marks the free cluster count and next free cluster hint
	// as not computed, making readers scan the FAT.
	unknownCount = uint32(0xFFFFFFFF)
)

// EncodeFSInfo serializes the FSInfo sector. The free cluster count and
// next free cluster hint are not tracked and left as unknown.
func EncodeFSInfo() [SectorSize]byte {
	var b [SectorSize]byte
	binary.LittleEndian.PutUint32(b[0:4], fsInfoLeadSignature)
	binary.LittleEndian.PutUint32(b[484:488], fsInfoStructSignature)
	binary.LittleEndian.PutUint32(b[488:492], unknownCount)
	binary.LittleEndian.PutUint32(b[492:496], unknownCount)
	binary.LittleEndian.PutUint32(b[508:512], fsInfoTrailSignature)
	return b
}
