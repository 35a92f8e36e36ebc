package main

// evalDatum executes one datum immediately. It never emits code: a
// Function or Macro binding is invoked through the bridge right away,
// and literals go straight onto the data stack. Whatever the datum
// leaves on the stack is its result.
func (in *Interp) evalDatum(d datum, st guestStack) guestStack {
	switch d := d.(type) {
	case dSymbol:
		e := in.tab.lookup(d.text)
		if e == nil {
			in.haltf("The name '%s' is undefined", d.text)
		}
		switch e.kind {
		case symFunction, symMacro:
			st = callGuest(e.payload, st)
		case symValue:
			st = st.push(uint64(e.payload))
		}

	case dNumber:
		st = st.push(uint64(d.value))

	case dString:
		st = st.push(uint64(d.addr))

	case dQuote, dCons:
		in.haltf("evaluating %v: unimplemented", d)

	default:
		in.haltf("evaluating %v: unimplemented", d)
	}
	return st
}
