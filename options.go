package main

import (
	"io"
	"io/ioutil"
)

// Option configures an Interp at construction.
type Option interface{ apply(in *Interp) }

var defaultOptions = Options(
	withOutput{ioutil.Discard},
	withCodeSize(defaultCodeSize),
	withStackSlots(defaultStackSlots),
)

// Options combines options into one.
func Options(opts ...Option) Option { return optionList(opts) }

type optionList []Option

func (opts optionList) apply(in *Interp) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(in)
		}
	}
}

type withInput struct{ io.Reader }
type withOutput struct{ io.Writer }
type withLogfn func(mess string, args ...interface{})
type withCodeSize int
type withStackSlots int

func (o withInput) apply(in *Interp)      { in.inr = o.Reader }
func (o withOutput) apply(in *Interp)     { in.outw = o.Writer }
func (logfn withLogfn) apply(in *Interp)  { in.logfn = logfn }
func (o withCodeSize) apply(in *Interp)   { in.codeSize = int(o) }
func (o withStackSlots) apply(in *Interp) { in.stackSlots = int(o) }
