package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_symtab_lookup(t *testing.T) {
	var tab symtab

	assert.Nil(t, tab.lookup("DUP"), "expected empty table miss")

	tab.define("DUP", symFunction, 0x100)
	tab.define("X", symValue, 42)

	e := tab.lookup("DUP")
	require.NotNil(t, e)
	assert.Equal(t, symFunction, e.kind)
	assert.Equal(t, uintptr(0x100), e.payload)

	assert.Nil(t, tab.lookup("NOPE"), "expected miss for undefined name")
}

func Test_symtab_shadowing(t *testing.T) {
	var tab symtab

	first := tab.define("X", symValue, 1)
	second := tab.define("X", symValue, 2)

	e := tab.lookup("X")
	require.NotNil(t, e)
	assert.Same(t, second, e, "expected most recent entry to win")
	assert.Equal(t, uintptr(2), e.payload)

	// the shadowed entry survives untouched
	assert.Equal(t, uintptr(1), first.payload)
	assert.Len(t, tab.entries, 2, "expected no deletion")
}

func Test_symtab_pending(t *testing.T) {
	var tab symtab

	e := tab.define("F", symFunction, 0x200)
	assert.False(t, e.pending, "expected entries to start settled")

	e.pending = true
	e.sites = append(e.sites, 0x210, 0x230)

	got := tab.lookup("F")
	require.Same(t, e, got)
	assert.Equal(t, []uintptr{0x210, 0x230}, got.sites)
}

func Test_symKind_String(t *testing.T) {
	assert.Equal(t, "function", symFunction.String())
	assert.Equal(t, "macro", symMacro.String())
	assert.Equal(t, "value", symValue.String())
	assert.Equal(t, "invalid", symKind(9).String())
}
