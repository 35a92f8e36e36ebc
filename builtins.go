package main

import (
	"fmt"
	"unsafe"
)

// The reserved token ending a definition body. It is recognized by
// text equality alone and deliberately has no symbol-table entry.
const doneToken = "DONE"

// installBuiltins populates a fresh symbol table. Intrinsics and the
// definition forms are Go routines entered through trampolines emitted
// into the code area, so every Function and Macro payload is an
// executable address and call sites never care about provenance. The
// ?EXIT stub is raw machine code with no host half at all.
func (in *Interp) installBuiltins() {
	dispatch := hostDispatchEntry()

	function := func(name string, f func(guestStack) guestStack) {
		id := registerHostRoutine(f)
		addr := asmHostTrampoline(in.code, dispatch, id)
		in.tab.define(name, symFunction, addr)
	}
	macro := func(name string, f func(guestStack) guestStack) {
		id := registerHostRoutine(f)
		addr := asmHostTrampoline(in.code, dispatch, id)
		in.tab.define(name, symMacro, addr)
	}
	value := func(name string, word uintptr) {
		in.tab.define(name, symValue, word)
	}

	value("*SYMTAB*", uintptr(unsafe.Pointer(&in.symtabCell)))
	value("*READTAB*", uintptr(unsafe.Pointer(&in.readtabCell)))
	value("*IN*", uintptr(unsafe.Pointer(&in.inCell)))
	value("*OUT*", uintptr(unsafe.Pointer(&in.outCell)))
	value("*PROGRAM*", uintptr(unsafe.Pointer(&in.code.next)))

	function("DUP", in.biDup)
	function("DROP", in.biDrop)
	function("SWAP", in.biSwap)
	function("OVER", in.biOver)

	function("+", in.biAdd)
	function("-", in.biSub)
	function("*", in.biMul)
	function("/", in.biDiv)

	function("@", in.biLoad)
	function("!", in.biStore)
	function("ALLOC", in.biAlloc)

	function("PRINTI", in.biPrintI)
	function("PRINTS", in.biPrintS)

	in.tab.define("?EXIT", symFunction, asmExitIfZero(in.code))

	macro("DEFUN", func(st guestStack) guestStack { return in.defineForm(symFunction, st) })
	macro("DEFMACRO", func(st guestStack) guestStack { return in.defineForm(symMacro, st) })
	macro("DEFVAL", func(st guestStack) guestStack { return in.defineForm(symValue, st) })
}

//// Stack manipulation

func (in *Interp) biDup(st guestStack) guestStack {
	return st.push(st.peek())
}

func (in *Interp) biDrop(st guestStack) guestStack {
	_, st = st.pop()
	return st
}

func (in *Interp) biSwap(st guestStack) guestStack {
	b, st := st.pop()
	a, st := st.pop()
	return st.push(b).push(a)
}

func (in *Interp) biOver(st guestStack) guestStack {
	b, st := st.pop()
	a := st.peek()
	return st.push(b).push(a)
}

//// Arithmetic

func (in *Interp) biAdd(st guestStack) guestStack {
	b, st := st.pop()
	a, st := st.pop()
	return st.push(uint64(int64(a) + int64(b)))
}

func (in *Interp) biSub(st guestStack) guestStack {
	b, st := st.pop()
	a, st := st.pop()
	return st.push(uint64(int64(a) - int64(b)))
}

func (in *Interp) biMul(st guestStack) guestStack {
	b, st := st.pop()
	a, st := st.pop()
	return st.push(uint64(int64(a) * int64(b)))
}

func (in *Interp) biDiv(st guestStack) guestStack {
	b, st := st.pop()
	a, st := st.pop()
	if b == 0 {
		in.haltf("division by zero")
	}
	return st.push(uint64(int64(a) / int64(b)))
}

//// Memory

func (in *Interp) biLoad(st guestStack) guestStack {
	addr, st := st.pop()
	return st.push(loadWord(uintptr(addr)))
}

// biStore expects the address on top and the value beneath it.
func (in *Interp) biStore(st guestStack) guestStack {
	addr, st := st.pop()
	v, st := st.pop()
	storeWord(uintptr(addr), v)
	return st
}

func (in *Interp) biAlloc(st guestStack) guestStack {
	n, st := st.pop()
	addr := cAlloc(int(int64(n)))
	if addr == 0 {
		in.haltf("Could not allocate %d bytes", int64(n))
	}
	return st.push(uint64(addr))
}

//// Output

func (in *Interp) biPrintI(st guestStack) guestStack {
	v, st := st.pop()
	out := in.output()
	if _, err := fmt.Fprintf(out, "%d\n", int64(v)); err == nil {
		err = out.Flush()
		in.haltif(err)
	} else {
		in.halt(err)
	}
	return st
}

func (in *Interp) biPrintS(st guestStack) guestStack {
	addr, st := st.pop()
	out := in.output()
	if _, err := out.Write(cStringBytes(uintptr(addr))); err == nil {
		err = out.Flush()
		in.haltif(err)
	} else {
		in.halt(err)
	}
	return st
}

//// Definition forms

// defineForm implements DEFUN, DEFMACRO, and DEFVAL. It reads the name
// (which must be a symbol), then reads body datums until the
// terminator. Function and Macro definitions register the name at the
// current code cursor before the body compiles, so the body can refer
// to itself; those self and forward references compile to patchable
// call sites that are fixed up once the terminator arrives. A Value
// definition instead evaluates its body immediately and binds whatever
// the body left on top of the stack.
func (in *Interp) defineForm(kind symKind, st guestStack) guestStack {
	d, eof := in.readDatum()
	if eof {
		in.haltf("End of stream while reading definition name")
	}
	name, ok := d.(dSymbol)
	if !ok {
		in.haltf("definition name must be a symbol, not %v", d)
	}

	if in.logfn != nil {
		defer in.withLogPrefix(name.text + " ")()
	}

	if kind == symValue {
		for {
			d, eof := in.readDatum()
			if eof {
				in.haltf("End of stream in definition of '%s'", name.text)
			}
			if s, ok := d.(dSymbol); ok && s.text == doneToken {
				break
			}
			st = in.evalDatum(d, st)
		}
		var word uint64
		word, st = st.pop()
		in.tab.define(name.text, symValue, uintptr(word))
		in.logf("value %#x", word)
		return st
	}

	entry := in.tab.define(name.text, kind, in.code.addr())
	entry.pending = true

	asmPrologue(in.code)
	for {
		d, eof := in.readDatum()
		if eof {
			in.haltf("End of stream in definition of '%s'", name.text)
		}
		if s, ok := d.(dSymbol); ok && s.text == doneToken {
			break
		}
		st = in.compileDatum(d, st)
	}
	asmEpilogue(in.code)
	asmRet(in.code)

	for _, site := range entry.sites {
		in.logf("patch call @%#x -> %#x", site, entry.payload)
		asmPatchCall(site, entry.payload)
	}
	entry.sites = nil
	entry.pending = false

	if in.logfn != nil {
		in.logf("%s compiled @%#x\n%s", entry.kind, entry.payload,
			hexDump(in.code.from(entry.payload), entry.payload))
	}
	return st
}
