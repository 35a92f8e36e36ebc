package fileinput

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readByte(t *testing.T, s *Stream) byte {
	c, err := s.ReadByte()
	require.NoError(t, err)
	return c
}

func TestStream_lines(t *testing.T) {
	s := FromReader("prog", strings.NewReader("ab\ncd\n"))
	assert.Equal(t, "prog:1", s.Loc())

	assert.Equal(t, byte('a'), readByte(t, s))
	assert.Equal(t, byte('b'), readByte(t, s))
	assert.Equal(t, "prog:1", s.Loc())

	assert.Equal(t, byte('\n'), readByte(t, s))
	assert.Equal(t, "prog:2", s.Loc())

	assert.Equal(t, byte('c'), readByte(t, s))
	assert.Equal(t, byte('d'), readByte(t, s))
	assert.Equal(t, byte('\n'), readByte(t, s))
	assert.Equal(t, "prog:3", s.Loc())

	_, err := s.ReadByte()
	assert.Equal(t, io.EOF, err, "expected end of stream")
}

func TestStream_unread(t *testing.T) {
	s := FromReader("prog", strings.NewReader("xy"))

	c := readByte(t, s)
	s.UnreadByte(c)
	assert.Equal(t, byte('x'), readByte(t, s), "expected pushed-back byte first")
	assert.Equal(t, byte('y'), readByte(t, s))
}

func TestStream_unread_newline(t *testing.T) {
	s := FromReader("prog", strings.NewReader("a\nb"))

	readByte(t, s)
	c := readByte(t, s) // the newline; line is now 2
	require.Equal(t, byte('\n'), c)
	require.Equal(t, "prog:2", s.Loc())

	s.UnreadByte(c)
	assert.Equal(t, "prog:1", s.Loc(), "expected line count rewound with the byte")

	assert.Equal(t, byte('\n'), readByte(t, s))
	assert.Equal(t, "prog:2", s.Loc(), "expected line count restored on re-read")
}

func TestOpen_missing(t *testing.T) {
	_, err := Open("testdata/does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not open file 'testdata/does-not-exist'")
}

func TestOpen_stdin(t *testing.T) {
	s, err := Open("-")
	require.NoError(t, err)
	assert.Equal(t, "<stdin>", s.Name())
	assert.NoError(t, s.Close(), "expected close to leave stdin alone")
}
