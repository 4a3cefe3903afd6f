package hash

import "github.com/cespare/xxhash/v2"

var fieldSeparator = []byte{0}

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// BytesID computes the xxHash64 of data.
func BytesID(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// FieldKey computes the xxHash64 of path and name joined by a NUL byte,
// without allocating the joined string. It equals ID(path + "\x00" + name).
func FieldKey(path, name string) uint64 {
	var d xxhash.Digest
	d.Reset()
	_, _ = d.WriteString(path)
	_, _ = d.Write(fieldSeparator)
	_, _ = d.WriteString(name)

	return d.Sum64()
}
