package main

import "fmt"

// A datum is one parsed unit of program text. The reader produces one
// datum per call; ownership passes to whichever of the compiler or the
// evaluator consumes it, and the reader retains no reference.
//
// The set of kinds is closed: every consumer type-switches over all of
// them and treats anything else as a fatal error, so adding a kind is a
// deliberate event.
type datum interface {
	datum()
	fmt.Stringer
}

// dSymbol is an identifier, folded to uppercase on read. Identity is
// the folded text.
type dSymbol struct {
	text string
}

// dNumber is a 64-bit signed integer literal.
type dNumber struct {
	value int64
}

// dString is a string literal. The contents are copied into a C-heap
// buffer, NUL-terminated, exactly once at read time; addr is that
// allocation, which is never freed or moved, so compiled code may bake
// it in as an immediate.
type dString struct {
	contents []byte
	addr     uintptr
}

// dQuote and dCons are structurally present but have no compile or
// eval semantics; using one is fatal.
type dQuote struct {
	next  *dQuote
	value datum
}

type dCons struct {
	car, cdr datum
}

func (dSymbol) datum() {}
func (dNumber) datum() {}
func (dString) datum() {}
func (dQuote) datum()  {}
func (dCons) datum()   {}

func (d dSymbol) String() string { return d.text }
func (d dNumber) String() string { return fmt.Sprintf("%d", d.value) }
func (d dString) String() string { return fmt.Sprintf("%q", d.contents) }
func (d dQuote) String() string  { return fmt.Sprintf("[%v]", d.value) }
func (d dCons) String() string   { return fmt.Sprintf("(%v . %v)", d.car, d.cdr) }
