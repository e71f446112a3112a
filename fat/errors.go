package fat

import "fmt"

// AllocationError is returned when the backing image file cannot be
// created at its full size, e.g. because the destination is not writable or
// lacks free space.
type AllocationError struct {
	Path string
	Size int64
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocating %s (%d bytes): %v", e.Path, e.Size, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// GeometryError is returned when no valid FAT32 layout exists for the
// requested image size or labels.
type GeometryError struct {
	Size   int64
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("no FAT32 geometry for %d bytes: %s", e.Size, e.Reason)
}

// EncodingError signals a Geometry that violates an invariant which
// ComputeGeometry guarantees. It indicates a programming error in the
// caller (e.g. a hand-built Geometry) and is fatal.
type EncodingError struct {
	Structure string
	Err       error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s: %v", e.Structure, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// WriteError is returned when writing a structure at its absolute offset
// within the image fails. The image is left partially written.
type WriteError struct {
	Stage  string
	Offset int64
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s at offset %d: %v", e.Stage, e.Offset, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
