package main

import (
	"io"

	"github.com/zc1036/simple/internal/vecbuf"
)

// Character classes. A byte may carry several: '-' is both a numeric
// start and a constituent, which is what lets identifiers begin with
// it.
type charProp uint8

const (
	propConstituent charProp = 1 << 0
	propNumberInit  charProp = 1 << 1
	propNumber      charProp = 1 << 2

	propMacro      charProp = 1 << 4
	propWhitespace charProp = 1 << 5
	propError      charProp = 1 << 6
)

// A readtable classifies every possible input byte and supplies the
// dispatch routine for bytes classed propMacro. Readtables are
// registered with the interpreter and the active one is selected
// through the *READTAB* cell, so a running program can swap it.
type readtable struct {
	props    [256]charProp
	dispatch [256]func(in *Interp, c byte) (datum, bool)
}

func newDefaultReadtable() *readtable {
	var rt readtable

	set := func(props charProp, cs ...byte) {
		for _, c := range cs {
			rt.props[c] |= props
		}
	}

	for c := byte('a'); c <= 'z'; c++ {
		set(propConstituent, c)
	}
	for c := byte('A'); c <= 'Z'; c++ {
		set(propConstituent, c)
	}
	set(propConstituent, '_', '!', '@', '#', '$', '%', '^', '&', '*',
		':', ',', '.', '<', '>', '=', '/', '?')

	set(propNumberInit|propConstituent, '-', '+')
	for c := byte('0'); c <= '9'; c++ {
		set(propNumberInit|propNumber|propConstituent, c)
	}

	set(propMacro, ';', '"', '[', '(')
	set(propError, ']', ')')

	set(propWhitespace, ' ', '\n', '\t', '\r')

	rt.dispatch['"'] = (*Interp).readString
	rt.dispatch[';'] = (*Interp).readComment
	rt.dispatch['['] = (*Interp).readQuote
	rt.dispatch['('] = (*Interp).readList

	return &rt
}

func foldByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// readDatum produces the next datum from the current input stream
// under the active readtable, or reports end of stream. End of stream
// while still looking for the first significant byte is the normal
// way input ends; end of stream inside a sub-reader is fatal there.
func (in *Interp) readDatum() (datum, bool) {
	src := in.curIn()
	rt := in.curReadtable()

	for {
		c, err := src.ReadByte()
		if err == io.EOF {
			return nil, true
		}
		in.haltif(err)

		c = foldByte(c)
		props := rt.props[c]

		switch {
		case props&propError != 0:
			in.haltf("Reader encountered illegal character '%c' (%d) at %s", c, c, src.Loc())

		case props&propWhitespace != 0:
			continue

		case props&propMacro != 0:
			handler := rt.dispatch[c]
			if handler == nil {
				in.haltf("Invalid character '%c' (%d) at %s", c, c, src.Loc())
			}
			return handler(in, c)

		case props&propNumberInit != 0:
			return in.readNumber(c)

		case props&propConstituent != 0:
			return in.readSymbol(c)

		case props&propNumber != 0:
			in.haltf("Encountered number continuation outside of a number at %s", src.Loc())

		default:
			in.haltf("Encountered character with no properties '%c' (%d) at %s", c, c, src.Loc())
		}
	}
}

// readSymbol accumulates constituent bytes, case-folded, starting from
// the already-consumed seed byte. The terminating byte goes back onto
// the stream.
func (in *Interp) readSymbol(seed byte) (datum, bool) {
	src := in.curIn()
	rt := in.curReadtable()

	var repr vecbuf.V
	in.haltif(repr.AppendByte(seed))

	for {
		c, err := src.ReadByte()
		if err == io.EOF {
			break
		}
		in.haltif(err)

		c = foldByte(c)
		if rt.props[c]&propConstituent == 0 {
			src.UnreadByte(c)
			break
		}
		in.haltif(repr.AppendByte(c))
	}

	return dSymbol{text: string(repr.Bytes())}, false
}

// readNumber accumulates a signed base-10 integer starting from the
// seed byte. A sign byte followed by anything but a digit is not a
// number at all: the sign is a constituent too, so the token is handed
// to the symbol reader instead. That fallback is what makes '+' and
// '-' usable as names.
func (in *Interp) readNumber(seed byte) (datum, bool) {
	src := in.curIn()
	rt := in.curReadtable()

	negate := false
	var value int64

	switch seed {
	case '-':
		negate = true
	case '+':
		// sign only
	default:
		value = int64(seed - '0')
	}

	if seed == '-' || seed == '+' {
		c, err := src.ReadByte()
		if err == io.EOF {
			return in.readSymbol(seed)
		}
		in.haltif(err)
		src.UnreadByte(c)
		if rt.props[c]&propNumber == 0 {
			return in.readSymbol(seed)
		}
	}

	for {
		c, err := src.ReadByte()
		if err == io.EOF {
			break
		}
		in.haltif(err)

		if rt.props[c]&propNumber == 0 {
			src.UnreadByte(c)
			break
		}
		value = value*10 + int64(c-'0')
	}

	if negate {
		value = -value
	}
	return dNumber{value: value}, false
}

// readString accumulates raw bytes up to the terminator matching the
// dispatching quote byte. The contents are copied to a stable
// NUL-terminated allocation immediately, so the datum carries an
// address that compiled code can bake in.
func (in *Interp) readString(quote byte) (datum, bool) {
	src := in.curIn()

	var contents vecbuf.V
	for {
		c, err := src.ReadByte()
		if err == io.EOF {
			in.haltf("End of stream while reading string at %s", src.Loc())
		}
		in.haltif(err)

		if c == quote {
			break
		}
		in.haltif(contents.AppendByte(c))
	}

	b := contents.Bytes()
	return dString{contents: b, addr: cString(b)}, false
}

// readComment discards the rest of the line and reads again.
func (in *Interp) readComment(byte) (datum, bool) {
	src := in.curIn()
	for {
		c, err := src.ReadByte()
		if err == io.EOF {
			return nil, true
		}
		in.haltif(err)
		if c == '\n' {
			return in.readDatum()
		}
	}
}

func (in *Interp) readQuote(byte) (datum, bool) {
	in.haltf("quote reader not implemented")
	return nil, false
}

func (in *Interp) readList(byte) (datum, bool) {
	in.haltf("list reader not implemented")
	return nil, false
}
