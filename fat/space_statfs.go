//go:build linux || darwin

package fat

import "golang.org/x/sys/unix"

func (DiskSpace) Available(dir string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil
}
