package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/zc1036/simple/internal/fileinput"
	"github.com/zc1036/simple/internal/flushio"
)

// Interp is one instance of the language: a symbol table, a code area,
// a data stack, and the registries behind the guest-visible cells. All
// of it is built once and mutated in place for the life of the
// process; nothing is ever torn down except by Close.
//
// Everything is strictly single-threaded. Reentrancy -- a macro
// reading more input and recursing into the compiler mid-read -- is
// safe because the data-stack pointer is threaded explicitly through
// every call rather than held anywhere ambient.
type Interp struct {
	logging

	tab   *symtab
	code  *codeArea
	stack *stackArea

	// st is the live data-stack pointer between top-level datums.
	st guestStack

	// Registries resolved through the guest-visible cells below. A
	// handle is a 1-based index; programs read and write the cells
	// with @ and !.
	readtables []*readtable
	streams    []*fileinput.Stream
	writers    []flushio.WriteFlusher

	symtabCell  uint64
	readtabCell uint64
	inCell      uint64
	outCell     uint64

	// construction-time settings
	codeSize   int
	stackSlots int
	outw       io.Writer
	inr        io.Reader

	input   *fileinput.Stream
	closers []io.Closer
}

func (in *Interp) init() error {
	code, err := newCodeArea(in.codeSize)
	if err != nil {
		return err
	}
	in.code = code

	in.stack = newStackArea(in.stackSlots)
	in.st = in.stack.top

	in.tab = &symtab{}
	in.symtabCell = 1

	in.readtables = []*readtable{newDefaultReadtable()}
	in.readtabCell = 1

	in.writers = []flushio.WriteFlusher{flushio.NewWriteFlusher(in.outw)}
	in.outCell = 1

	if in.inr != nil {
		in.input = fileinput.FromReader("<input>", in.inr)
	}

	in.installBuiltins()
	return nil
}

// evalLoop reads and evaluates datums from src until end of stream.
func (in *Interp) evalLoop(ctx context.Context, src *fileinput.Stream) {
	defer in.pushSource(src)()

	for {
		in.haltif(ctx.Err())

		d, eof := in.readDatum()
		if eof {
			return
		}
		in.logf("eval %v", d)
		in.st = in.evalDatum(d, in.st)
	}
}

// pushSource registers src and selects it as the current input,
// returning a func restoring the previous selection.
func (in *Interp) pushSource(src *fileinput.Stream) func() {
	in.streams = append(in.streams, src)
	prev := in.inCell
	in.inCell = uint64(len(in.streams))
	return func() { in.inCell = prev }
}

func (in *Interp) curIn() *fileinput.Stream {
	h := int(in.inCell)
	if h < 1 || h > len(in.streams) {
		in.haltf("no input stream (handle %d)", h)
	}
	return in.streams[h-1]
}

func (in *Interp) curReadtable() *readtable {
	h := int(in.readtabCell)
	if h < 1 || h > len(in.readtables) {
		in.haltf("no readtable (handle %d)", h)
	}
	return in.readtables[h-1]
}

func (in *Interp) output() flushio.WriteFlusher {
	h := int(in.outCell)
	if h < 1 || h > len(in.writers) {
		in.haltf("no output stream (handle %d)", h)
	}
	return in.writers[h-1]
}

// halt aborts execution with err; Run recovers it into a returned
// error. There is no other error path: the system is a batch
// compiler, and every error is fatal.
func (in *Interp) halt(err error) {
	// ignore any panics while trying to flush output
	func() {
		defer func() { recover() }()
		if len(in.writers) > 0 {
			in.writers[0].Flush()
		}
	}()
	in.logf("halt error: %v", err)
	panic(haltError{err})
}

func (in *Interp) haltf(format string, args ...interface{}) {
	in.halt(fmt.Errorf(format, args...))
}

func (in *Interp) haltif(err error) {
	if err != nil {
		in.halt(err)
	}
}

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}

func (err haltError) Unwrap() error { return err.error }

type logging struct {
	logfn func(mess string, args ...interface{})
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	if logfn == nil {
		return func() {}
	}
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() { log.logfn = logfn }
}

func (log logging) logf(mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%s", strings.ReplaceAll(mess, "\n", "\n\t"))
}
