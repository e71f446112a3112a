//go:build !linux && !darwin

package fat

func (DiskSpace) Available(dir string) (uint64, error) {
	return 0, errSpaceUnknown
}
