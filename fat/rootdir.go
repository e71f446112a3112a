package fat

// EncodeRootDirectory returns the contents of the root directory's first
// cluster: all zero, i.e. the first entry already marks the end of the
// directory.
func EncodeRootDirectory(g Geometry) []byte {
	return make([]byte, g.ClusterSize())
}
