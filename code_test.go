package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_codeArea_emit(t *testing.T) {
	c := adoptCodeArea(make([]byte, 16))
	assert.Equal(t, 0, c.used())

	mark := c.addr()
	c.emit(1, 2, 3)
	c.emitU32(0x04030201)
	c.emitU64(0x0807060504030201)
	assert.Equal(t, 15, c.used())
	assert.Equal(t, []byte{
		1, 2, 3,
		0x01, 0x02, 0x03, 0x04,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	}, c.from(mark), "expected little-endian emission")
}

func Test_codeArea_overflow(t *testing.T) {
	c := adoptCodeArea(make([]byte, 4))
	c.emit(1, 2, 3)

	defer func() {
		e := recover()
		require.NotNil(t, e, "expected overflow panic")
		oerr, ok := e.(codeOverflowError)
		require.True(t, ok, "expected codeOverflowError, got %#v", e)
		assert.Contains(t, oerr.Error(), "code area overflow")
	}()
	c.emit(4, 5)
}

func Test_newCodeArea(t *testing.T) {
	c, err := newCodeArea(4096)
	require.NoError(t, err, "unexpected map error")
	defer func() {
		assert.NoError(t, c.release(), "unexpected unmap error")
	}()

	assert.Equal(t, 0, c.used())
	for i, b := range c.buf {
		if b != trapByte {
			t.Fatalf("expected trap fill, got %#02x at %v", b, i)
		}
	}

	c.emit(0xc3)
	assert.Equal(t, 1, c.used())
	assert.Equal(t, []byte{0xc3}, c.from(c.base))
}

func Test_codeArea_release_idempotent(t *testing.T) {
	c, err := newCodeArea(4096)
	require.NoError(t, err)
	assert.NoError(t, c.release())
	assert.NoError(t, c.release(), "expected second release to be a no-op")
}
