package main

import (
	"context"
	"errors"
	"io"

	"github.com/zc1036/simple/internal/fileinput"
	"github.com/zc1036/simple/internal/panicerr"
)

// New builds an interpreter: maps the code area, allocates the data
// stack, and installs the builtin bindings.
func New(opts ...Option) (*Interp, error) {
	var in Interp
	defaultOptions.apply(&in)
	Options(opts...).apply(&in)
	if err := in.init(); err != nil {
		return nil, err
	}
	return &in, nil
}

// Run processes the given paths left to right, fully consuming each;
// "-" denotes standard input. With no paths, the input configured by
// WithInput is consumed instead. The first error stops everything.
func (in *Interp) Run(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		if in.input == nil {
			return nil
		}
		return in.EvalStream(ctx, in.input)
	}
	for _, path := range paths {
		src, err := fileinput.Open(path)
		if err != nil {
			return err
		}
		if err := in.EvalStream(ctx, src); err != nil {
			return err
		}
	}
	return nil
}

// EvalStream reads and evaluates src until end of stream, then closes
// it. Interpreter state persists across calls, which is what makes an
// interactive session work.
func (in *Interp) EvalStream(ctx context.Context, src *fileinput.Stream) error {
	defer src.Close()

	err := panicerr.Recover("simple", func() error {
		in.evalLoop(ctx, src)
		return nil
	})
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var herr haltError
	if errors.As(err, &herr) {
		err = herr.error
	}
	return err
}

// Close releases the code area and the data stack. The symbol table
// and guest allocations are left to the process to reclaim.
func (in *Interp) Close() (err error) {
	for i := len(in.closers) - 1; i >= 0; i-- {
		if cerr := in.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	if in.stack != nil {
		in.stack.free()
	}
	if in.code != nil {
		if cerr := in.code.release(); err == nil {
			err = cerr
		}
	}
	return err
}

// WithInput arranges for r to be consumed by an argument-less Run.
func WithInput(r io.Reader) Option { return withInput{r} }

// WithOutput directs the printing intrinsics at w.
func WithOutput(w io.Writer) Option { return withOutput{w} }

// WithLogf enables trace logging through logfn.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

// WithCodeSize sets the executable region's capacity in bytes.
func WithCodeSize(size int) Option { return withCodeSize(size) }

// WithStackSlots sets the data stack depth in 64-bit words.
func WithStackSlots(slots int) Option { return withStackSlots(slots) }
