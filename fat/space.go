package fat

import "errors"

// errSpaceUnknown is returned by SpaceProber implementations which cannot
// determine the free space on the current platform.
var errSpaceUnknown = errors.New("free space unknown")

//go:generate mockgen -source=space.go -destination=mock_space_test.go -package=fat

// SpaceProber reports the number of bytes available to an unprivileged
// user for new data in directory dir.
type SpaceProber interface {
	Available(dir string) (uint64, error)
}

// DiskSpace probes the free space of the file system holding a directory
// of the host.
type DiskSpace struct{}
