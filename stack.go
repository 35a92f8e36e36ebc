package main

/*
#include <stdlib.h>
*/
import "C"

import "unsafe"

// guestStack is the live data-stack pointer: the address of the top
// cell of a downward-growing array of untyped 64-bit words. It is
// threaded explicitly through every call boundary -- Go, intrinsic,
// and generated code alike -- which is what makes reentrant macro
// expansion safe without any synchronization.
type guestStack uintptr

func (st guestStack) push(v uint64) guestStack {
	st -= 8
	*(*uint64)(unsafe.Pointer(st)) = v
	return st
}

func (st guestStack) pop() (uint64, guestStack) {
	return *(*uint64)(unsafe.Pointer(st)), st + 8
}

func (st guestStack) peek() uint64 {
	return *(*uint64)(unsafe.Pointer(st))
}

const defaultStackSlots = 1000 // this size seems legit

// stackArea owns the C-allocated cells backing a guest stack. The
// cells live outside the Go heap so that generated code and the
// collector never see each other.
type stackArea struct {
	mem  unsafe.Pointer
	top  guestStack
	size int
}

func newStackArea(slots int) *stackArea {
	mem := C.calloc(C.size_t(slots), 8)
	top := uintptr(mem) + uintptr(slots-1)*8
	top &^= 15 // 16-byte alignment for the stack
	return &stackArea{mem: mem, top: guestStack(top), size: slots}
}

// depth reports how many words are on the stack given the current
// pointer.
func (sa *stackArea) depth(st guestStack) int {
	return int(uintptr(sa.top)-uintptr(st)) / 8
}

func (sa *stackArea) free() {
	if sa.mem != nil {
		C.free(sa.mem)
		sa.mem = nil
	}
}
