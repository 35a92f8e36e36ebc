package main

// A symbol's binding kind determines what its payload word means.
type symKind uint8

const (
	// symFunction binds an executable address: a compiled body, an
	// intrinsic trampoline, or a raw machine-code stub. Callers cannot
	// and need not tell which.
	symFunction symKind = iota

	// symMacro binds an executable address invoked at compile time.
	symMacro

	// symValue binds an immediate 64-bit word, which may itself encode
	// a pointer.
	symValue
)

func (k symKind) String() string {
	switch k {
	case symFunction:
		return "function"
	case symMacro:
		return "macro"
	case symValue:
		return "value"
	}
	return "invalid"
}

// A symEntry is one name binding. Entries are immutable once defined,
// except for the definition-in-progress bookkeeping used to patch
// self-referential calls.
type symEntry struct {
	name    string
	kind    symKind
	payload uintptr

	// pending marks a Function or Macro whose body is still being
	// compiled. Call sites emitted against a pending entry use the
	// patchable encoding and are recorded here until the terminator is
	// reached.
	pending bool
	sites   []uintptr
}

// symtab is the symbol table: an append-only sequence of entries.
// Lookup scans from the most recently added entry, so redefining a name
// shadows the earlier binding without removing it. There is no
// deletion; old entries are retained for the life of the process.
type symtab struct {
	entries []*symEntry
}

// lookup returns the most recent entry for name, or nil.
func (tab *symtab) lookup(name string) *symEntry {
	for i := len(tab.entries) - 1; i >= 0; i-- {
		if e := tab.entries[i]; e.name == name {
			return e
		}
	}
	return nil
}

// define appends a new entry binding name. It never overwrites.
func (tab *symtab) define(name string, kind symKind, payload uintptr) *symEntry {
	e := &symEntry{name: name, kind: kind, payload: payload}
	tab.entries = append(tab.entries, e)
	return e
}
