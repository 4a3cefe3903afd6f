package pool

import "sync"

var keySlicePool = sync.Pool{
	New: func() any { return &[]string{} },
}

// GetKeySlice retrieves an empty string slice with at least size capacity.
//
// The field walker uses it to collect and sort the keys of an object before
// encoding them. The caller must call the returned cleanup function to return
// the slice to the pool.
//
// Example:
//
//	keys, cleanup := pool.GetKeySlice(len(obj))
//	defer cleanup()
//	for k := range obj {
//	    keys = append(keys, k)
//	}
func GetKeySlice(size int) ([]string, func()) {
	ptr, _ := keySlicePool.Get().(*[]string)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]string, 0, size)
	}

	return slice, func() {
		clear(slice[:cap(slice)])
		*ptr = slice[:0]
		keySlicePool.Put(ptr)
	}
}
