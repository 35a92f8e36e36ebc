// Package fileinput provides named, line-tracked program text streams
// with single-byte pushback, as consumed by the reader.
package fileinput

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Stream is one source of program text. It tracks a name and a line
// number so that diagnostics can say where the reader was, and supports
// unreading the single most recently read byte, which is how the reader
// returns a terminating byte to the stream.
type Stream struct {
	name string
	line int

	br     *bufio.Reader
	closer io.Closer

	lastByte int // byte to re-deliver, or -1
	heldNL   bool
}

// Open opens the named file for reading. The name "-" denotes standard
// input, which is not closed by Close.
func Open(path string) (*Stream, error) {
	if path == "-" {
		return FromReader("<stdin>", os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Could not open file '%s': %w", path, err)
	}
	s := FromReader(path, f)
	s.closer = f
	return s, nil
}

// FromReader wraps an arbitrary reader as a named Stream.
func FromReader(name string, r io.Reader) *Stream {
	return &Stream{
		name:     name,
		line:     1,
		br:       bufio.NewReader(r),
		lastByte: -1,
	}
}

// ReadByte returns the next byte of the stream, or io.EOF.
func (s *Stream) ReadByte() (byte, error) {
	if c := s.lastByte; c >= 0 {
		s.lastByte = -1
		if s.heldNL {
			s.heldNL = false
			s.line++
		}
		return byte(c), nil
	}
	c, err := s.br.ReadByte()
	if err != nil {
		return 0, err
	}
	if c == '\n' {
		s.line++
	}
	return c, nil
}

// UnreadByte pushes c back onto the stream; the next ReadByte returns
// it again. Only one byte of pushback is held at a time.
func (s *Stream) UnreadByte(c byte) {
	s.lastByte = int(c)
	if c == '\n' {
		s.line--
		s.heldNL = true
	}
}

// Name returns the stream's display name.
func (s *Stream) Name() string { return s.name }

// Loc describes the current position, e.g. "prog.smpl:3".
func (s *Stream) Loc() string { return fmt.Sprintf("%s:%d", s.name, s.line) }

// Close releases the underlying file, if any.
func (s *Stream) Close() error {
	if s.closer != nil {
		err := s.closer.Close()
		s.closer = nil
		return err
	}
	return nil
}
