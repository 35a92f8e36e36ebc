package main

import "C"

import (
	"sync"
	"unsafe"
)

// Host routines are Go functions reachable from generated code. Each
// registration hands out an id that a trampoline bakes in; the process
// keeps every registration forever, like the symbol table keeps every
// entry.
var hostRoutines struct {
	sync.Mutex
	fns []func(guestStack) guestStack
}

func registerHostRoutine(fn func(guestStack) guestStack) int64 {
	hostRoutines.Lock()
	defer hostRoutines.Unlock()
	hostRoutines.fns = append(hostRoutines.fns, fn)
	return int64(len(hostRoutines.fns) - 1)
}

func lookupHostRoutine(id int64) func(guestStack) guestStack {
	hostRoutines.Lock()
	defer hostRoutines.Unlock()
	return hostRoutines.fns[id]
}

// simpleHostDispatch is the single native-callable entry into Go. A
// fatal error raised by the routine panics straight through the
// intervening native frames (which need no cleanup) and is recovered
// at the Run boundary.
//
//export simpleHostDispatch
func simpleHostDispatch(sp unsafe.Pointer, id int64) unsafe.Pointer {
	fn := lookupHostRoutine(id)
	return unsafe.Pointer(fn(guestStack(uintptr(sp))))
}
