//go:build linux && amd64

package main

import "unsafe"

// Native instruction emission for x86-64. Every routine appends bytes
// at the area's cursor and leaves the cursor past what it wrote.
//
// Generated code obeys one convention everywhere: the data-stack
// pointer lives in RDI on entry and on return, RCX is the only scratch
// register, and the machine stack is 16-byte aligned at every call
// instruction (which is what the prologue/epilogue adjustment is for).

func sliceAddr(b []byte) uintptr { return uintptr(unsafe.Pointer(&b[0])) }

// asmPrologue opens a compiled body. The call that entered the body
// pushed 8 bytes, so adjust by another 8 to keep call sites inside the
// body on a 16-byte boundary.
func asmPrologue(c *codeArea) {
	c.emit(0x48, 0x83, 0xec, 0x08) // subq rsp, 8
}

// asmEpilogue undoes the prologue adjustment.
func asmEpilogue(c *codeArea) {
	c.emit(0x48, 0x83, 0xc4, 0x08) // addq rsp, 8
}

// nearCallRange is the displacement limit for the E8 rel32 encoding,
// backed off a little from 2^31 so the instruction's own length can
// never tip a borderline target out of range.
const nearCallRange = 0x7fffffe0

// asmCall emits a call to target, choosing the cheapest encoding that
// can reach it: a near relative call when the displacement fits 32
// signed bits, a 32-bit absolute load plus indirect call when the
// address fits 32 unsigned bits, and otherwise a full 64-bit immediate
// load plus indirect call. A zero target means "not known yet" and
// forces the 64-bit form so asmPatchCall can fill it in later.
//
// The returned address is the call site, as needed for patching.
func asmCall(c *codeArea, target uintptr) uintptr {
	site := c.addr()

	switch {
	case target == 0:
		c.emit(0x48, 0xb9) // movabsq rcx, <64-bit immediate>
		c.emitU64(0)
		c.emit(0xff, 0xd1) // callq rcx

	case absDelta(target, site) < nearCallRange:
		c.emit(0xe8) // callq <32-bit relative>
		c.emitU32(uint32(uint64(target) - uint64(c.addr()+4)))

	case uint64(target) <= 0xffffffff:
		c.emit(0xb9) // mov ecx, <32-bit immediate>
		c.emitU32(uint32(target))
		c.emit(0xff, 0xd1) // callq rcx

	default:
		c.emit(0x48, 0xb9) // movabsq rcx, <64-bit immediate>
		c.emitU64(uint64(target))
		c.emit(0xff, 0xd1) // callq rcx
	}

	return site
}

// asmPatchCall overwrites the 8-byte immediate of a call site that was
// emitted with an unknown target. The site must have been produced by
// asmCall's 64-bit form; its immediate begins two bytes in.
func asmPatchCall(site, target uintptr) {
	*(*uint64)(unsafe.Pointer(site + 2)) = uint64(target)
}

// asmRet emits a return.
func asmRet(c *codeArea) {
	c.emit(0xc3) // retq
}

// asmInteger emits code pushing a 64-bit immediate onto the data stack.
func asmInteger(c *codeArea, v int64) {
	c.emit(0x48, 0x83, 0xef, 0x08) // subq rdi, 8
	c.emit(0x48, 0xb9)             // movabsq rcx, <64-bit immediate>
	c.emitU64(uint64(v))
	c.emit(0x48, 0x89, 0x0f) // movq [rdi], rcx
}

// asmHostTrampoline emits the entry stub for a host-native routine:
// it forwards the data-stack pointer (already in RDI, which is also
// where the C ABI wants the first argument) and the routine's dispatch
// id to the host dispatch entry, then moves the returned stack pointer
// from RAX back into RDI where guest code expects it.
func asmHostTrampoline(c *codeArea, dispatch uintptr, id int64) uintptr {
	entry := c.addr()
	asmPrologue(c)
	c.emit(0x48, 0xbe) // movabsq rsi, <64-bit immediate>
	c.emitU64(uint64(id))
	asmCall(c, dispatch)
	c.emit(0x48, 0x89, 0xc7) // movq rdi, rax
	asmEpilogue(c)
	asmRet(c)
	return entry
}

// asmExitIfZero emits the ?EXIT stub: pop the top of the data stack
// and, when it is zero, return from the compiled body that called the
// stub rather than from the stub itself. The early-out discards the
// stub's own return address plus the body's alignment adjustment, so
// control lands at the body's caller.
func asmExitIfZero(c *codeArea) uintptr {
	entry := c.addr()
	c.emit(0x48, 0x8b, 0x0f)       // movq rcx, [rdi]
	c.emit(0x48, 0x83, 0xc7, 0x08) // addq rdi, 8
	c.emit(0x48, 0x85, 0xc9)       // testq rcx, rcx
	c.emit(0x75, 0x05)             // jnz +5
	c.emit(0x48, 0x83, 0xc4, 0x10) // addq rsp, 16
	asmRet(c)
	asmRet(c)
	return entry
}

func absDelta(a, b uintptr) uint64 {
	if a > b {
		return uint64(a - b)
	}
	return uint64(b - a)
}
