package fat

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

var (
	jumpCode            = [3]byte{0xEB, 0x3C, 0x90} // intel 80x86 jump instruction + NOP
	bootSectorSignature = [2]byte{0x55, 0xAA}
)

// extendedBootSignature marks the presence of the volume ID, label and
// file system type fields.
const extendedBootSignature = uint8(0x29)

// bootSector is the on-disk layout of a FAT32 boot sector. Field order and
// widths match the disk; binary.Size(bootSector{}) == SectorSize.
type bootSector struct {
	JumpCode          [3]byte
	OEMName           [8]byte
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntries       uint16 // 0 on FAT32
	TotalSectors16    uint16 // 0 = use TotalSectors32
	Media             uint8
	SectorsPerFAT16   uint16 // 0 = use SectorsPerFAT32
	SectorsPerTrack   uint16 // (only for bootcode)
	NumHeads          uint16 // (only for bootcode)
	HiddenSectors     uint32 // no partition table, so none
	TotalSectors32    uint32
	SectorsPerFAT32   uint32
	ExtFlags          uint16 // FAT mirroring enabled
	FSVersion         uint16
	RootCluster       uint32
	FSInfoSector      uint16
	BackupBootSector  uint16 // 0 = no backup
	Reserved          [12]byte
	DriveNumber       uint8
	Reserved1         uint8
	BootSignature     uint8
	VolumeID          uint32
	VolumeLabel       [11]byte
	FSTypeLabel       [8]byte
	BootCode          [420]byte
	Signature         [2]byte
}

// EncodeBootSector serializes the BIOS Parameter Block and FAT32 extension
// fields of g into a boot sector.
func EncodeBootSector(g Geometry) [SectorSize]byte {
	bs := bootSector{
		JumpCode:          jumpCode,
		OEMName:           g.OEMName,
		BytesPerSector:    g.BytesPerSector,
		SectorsPerCluster: g.SectorsPerCluster,
		ReservedSectors:   g.ReservedSectors,
		NumFATs:           g.NumFATs,
		Media:             g.Media,
		SectorsPerTrack:   g.SectorsPerTrack,
		NumHeads:          g.NumHeads,
		TotalSectors32:    g.TotalSectors,
		SectorsPerFAT32:   g.SectorsPerFAT,
		RootCluster:       g.RootCluster,
		FSInfoSector:      g.FSInfoSector,
		DriveNumber:       g.DriveNumber,
		BootSignature:     extendedBootSignature,
		VolumeID:          g.VolumeID,
		VolumeLabel:       g.VolumeLabel,
		FSTypeLabel:       g.FSTypeLabel,
		Signature:         bootSectorSignature,
	}
	buf := bytes.NewBuffer(make([]byte, 0, SectorSize))
	// buf.Write never fails
	binary.Write(buf, binary.LittleEndian, &bs)
	var b [SectorSize]byte
	copy(b[:], buf.Bytes())
	return b
}

// DecodeBootSector parses a boot sector written by EncodeBootSector back
// into the Geometry it was encoded from.
func DecodeBootSector(b [SectorSize]byte) (Geometry, error) {
	var bs bootSector
	if err := binary.Read(bytes.NewReader(b[:]), binary.LittleEndian, &bs); err != nil {
		return Geometry{}, err
	}
	if bs.Signature != bootSectorSignature {
		return Geometry{}, fmt.Errorf("boot sector signature is % x, want % x", bs.Signature, bootSectorSignature)
	}
	// Check for valid jump instructions
	if !(bs.JumpCode[0] == 0xEB && bs.JumpCode[2] == 0x90) && bs.JumpCode[0] != 0xE9 {
		return Geometry{}, fmt.Errorf("no valid jump instruction: % x", bs.JumpCode)
	}
	if bs.BootSignature != extendedBootSignature {
		return Geometry{}, fmt.Errorf("extended boot signature is %#x, want %#x", bs.BootSignature, extendedBootSignature)
	}
	if bs.RootEntries != 0 || bs.TotalSectors16 != 0 || bs.SectorsPerFAT16 != 0 {
		return Geometry{}, fmt.Errorf("FAT12/16 fields set, not a FAT32 boot sector")
	}
	return Geometry{
		BytesPerSector:    bs.BytesPerSector,
		SectorsPerCluster: bs.SectorsPerCluster,
		ReservedSectors:   bs.ReservedSectors,
		NumFATs:           bs.NumFATs,
		Media:             bs.Media,
		SectorsPerTrack:   bs.SectorsPerTrack,
		NumHeads:          bs.NumHeads,
		TotalSectors:      bs.TotalSectors32,
		SectorsPerFAT:     bs.SectorsPerFAT32,
		RootCluster:       bs.RootCluster,
		FSInfoSector:      bs.FSInfoSector,
		DriveNumber:       bs.DriveNumber,
		VolumeID:          bs.VolumeID,
		OEMName:           bs.OEMName,
		VolumeLabel:       bs.VolumeLabel,
		FSTypeLabel:       bs.FSTypeLabel,
	}, nil
}
