package main

/*
#include <stdlib.h>
*/
import "C"

import "unsafe"

// Guest-visible memory lives on the C heap: string contents, ALLOC'd
// cells. Such allocations are never freed or moved, so their addresses
// may be baked into generated code as immediates.

// cAlloc returns n bytes of zeroed, stable memory.
func cAlloc(n int) uintptr {
	if n < 1 {
		n = 1
	}
	return uintptr(C.calloc(C.size_t(n), 1))
}

// cString copies b into a fresh NUL-terminated allocation.
func cString(b []byte) uintptr {
	p := cAlloc(len(b) + 1)
	copy(unsafe.Slice((*byte)(unsafe.Pointer(p)), len(b)+1), b)
	return p
}

// cStringBytes reads a NUL-terminated byte string starting at addr.
func cStringBytes(addr uintptr) []byte {
	var out []byte
	for {
		c := *(*byte)(unsafe.Pointer(addr))
		if c == 0 {
			return out
		}
		out = append(out, c)
		addr++
	}
}

// loadWord and storeWord are the @ and ! primitives' memory accesses:
// raw 64-bit loads and stores at guest-supplied addresses.
func loadWord(addr uintptr) uint64 {
	return *(*uint64)(unsafe.Pointer(addr))
}

func storeWord(addr uintptr, v uint64) {
	*(*uint64)(unsafe.Pointer(addr)) = v
}
