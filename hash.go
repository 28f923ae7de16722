package gaddag

// checksum implements the 32 bit FNV-1a hash, used to detect damaged index
// files.
func checksum(data []byte) uint32 {
	// Use the FNV algorithm from http://isthe.com/chongo/tech/comp/fnv/
	result := uint32(0x811c9dc5)
	for _, c := range data {
		result = (result ^ uint32(c)) * 0x01000193
	}
	return result
}
