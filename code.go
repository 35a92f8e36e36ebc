package main

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// codeArea is the process's one executable memory region. It is mapped
// read+write+execute for its whole life: the compiler keeps appending
// to it, already-emitted code keeps running from it, and patching
// rewrites call sites in place. The region is pre-filled with trap
// instructions so that control flow escaping into unwritten space
// faults immediately instead of sliding.
type codeArea struct {
	buf  []byte
	base uintptr

	// next is the absolute address of the next free byte. It is a
	// struct field rather than a local so the *PROGRAM* binding can
	// expose its address to running programs.
	next uint64

	mapped bool
}

const defaultCodeSize = 512 << 10 // historically 128 4K pages

const trapByte = 0xcc // int3

// newCodeArea maps a fresh executable region of the given size.
func newCodeArea(size int) (*codeArea, error) {
	buf, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("cannot map %d byte code area: %w", size, err)
	}
	for i := range buf {
		buf[i] = trapByte
	}
	c := adoptCodeArea(buf)
	c.mapped = true
	return c, nil
}

// adoptCodeArea wraps an ordinary byte slice as a code area. Code
// emitted into such an area cannot be executed; encoder tests use this
// to inspect emitted bytes without mapping pages.
func adoptCodeArea(buf []byte) *codeArea {
	c := &codeArea{buf: buf, base: sliceAddr(buf)}
	c.next = uint64(c.base)
	return c
}

// addr returns the cursor: the address the next emitted byte will have.
func (c *codeArea) addr() uintptr { return uintptr(c.next) }

// used returns how many bytes have been emitted.
func (c *codeArea) used() int { return int(uintptr(c.next) - c.base) }

// from returns the bytes emitted since the cursor was at mark.
func (c *codeArea) from(mark uintptr) []byte {
	return c.buf[mark-c.base : uintptr(c.next)-c.base]
}

// emit appends raw instruction bytes, halting on overflow. The region
// never grows and never compacts; exceeding it is a fatal error by
// policy.
func (c *codeArea) emit(bs ...byte) {
	off := uintptr(c.next) - c.base
	if int(off)+len(bs) > len(c.buf) {
		panic(codeOverflowError{need: len(bs), used: int(off), size: len(c.buf)})
	}
	copy(c.buf[off:], bs)
	c.next += uint64(len(bs))
}

func (c *codeArea) emitU32(v uint32) {
	c.emit(byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func (c *codeArea) emitU64(v uint64) {
	c.emit(byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

// release unmaps the region. Only Close calls this; the area otherwise
// lives until process exit.
func (c *codeArea) release() error {
	if !c.mapped {
		return nil
	}
	c.mapped = false
	buf := c.buf
	c.buf = nil
	return unix.Munmap(buf)
}

type codeOverflowError struct {
	need, used, size int
}

func (e codeOverflowError) Error() string {
	return fmt.Sprintf("code area overflow: need %d more bytes at %d of %d", e.need, e.used, e.size)
}
