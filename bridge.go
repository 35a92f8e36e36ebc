//go:build linux && amd64

package main

/*
#include <stdint.h>

// simpleHostDispatch is the cgo-exported dispatch entry defined in
// hostcall.go. Generated trampolines call it with the data-stack
// pointer in RDI (doubling as the first C argument) and a host routine
// id in RSI.
extern void* simpleHostDispatch(void* sp, long long id);

// call_guest transfers control to a guest-callable address. The data
// stack pointer goes in through RDI and comes back out of RDI; every
// other register is assumed clobbered by the callee.
static void* call_guest(void* fn, void* sp) {
	void* out;
	__asm__ volatile(
		"mov %1, %%rdi\n\t"
		"call *%2\n\t"
		"mov %%rdi, %0"
		: "=r"(out)
		: "r"(sp), "r"(fn)
		: "rdi", "rsi", "rdx", "rcx", "r8", "r9", "r10", "r11", "memory", "cc");
	return out;
}

static uintptr_t host_dispatch_entry(void) {
	return (uintptr_t)&simpleHostDispatch;
}
*/
import "C"

import "unsafe"

// callGuest invokes fn under the guest calling convention. fn may be a
// compiled body, an intrinsic trampoline, or a raw stub; the caller
// neither knows nor cares which. The "return value" is whatever the
// callee left on top of the data stack.
func callGuest(fn uintptr, st guestStack) guestStack {
	return guestStack(uintptr(C.call_guest(unsafe.Pointer(fn), unsafe.Pointer(st))))
}

// hostDispatchEntry returns the address trampolines must call to reach
// Go host routines.
func hostDispatchEntry() uintptr {
	return uintptr(C.host_dispatch_entry())
}
