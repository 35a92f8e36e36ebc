package main

// compileDatum processes one datum in compile mode: it appends native
// code to the code area, except for macros, which run right now.
// Returns the possibly-changed data-stack pointer (only a macro can
// change it).
func (in *Interp) compileDatum(d datum, st guestStack) guestStack {
	switch d := d.(type) {
	case dSymbol:
		e := in.tab.lookup(d.text)
		if e == nil {
			in.haltf("The name '%s' is undefined", d.text)
		}
		switch e.kind {
		case symFunction:
			in.compileCall(e)
		case symMacro:
			// compile-time invocation, with whatever effects the
			// macro's body has on the stack, table, and code area
			in.logf("macroexpand %s", e.name)
			st = callGuest(e.payload, st)
		case symValue:
			// the bound word is baked in; later rebinding of the name
			// does not affect code already compiled
			asmInteger(in.code, int64(e.payload))
		}

	case dNumber:
		asmInteger(in.code, d.value)

	case dString:
		asmInteger(in.code, int64(d.addr))

	case dQuote, dCons:
		in.haltf("compiling %v: unimplemented", d)

	default:
		in.haltf("compiling %v: unimplemented", d)
	}
	return st
}

// compileCall emits a call to a Function entry. Calls to a definition
// still in progress use the patchable encoding and are recorded on the
// entry; the terminator handling patches them once the body is done.
func (in *Interp) compileCall(e *symEntry) {
	if e.pending {
		site := asmCall(in.code, 0)
		e.sites = append(e.sites, site)
		return
	}
	asmCall(in.code, e.payload)
}
