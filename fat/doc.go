// Package fat implements writing empty FAT32 file system images, as
// expected by the Chrysalis OS bootloader and kernel FAT driver.
//
// The resulting images use a sector size of 512 bytes, a cluster size of
// 8 sectors, 32 reserved sectors and two copies of the FAT. No partition
// table is written: the whole image is a single ("super floppy") volume.
//
// Only the on-disk metadata is written: boot sector, FSInfo sector, FAT
// copies and an empty root directory. Placing files in the volume is left
// to the OS.
package fat
