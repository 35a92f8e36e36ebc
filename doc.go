/* Package main: simple -- a tiny concatenative compiler

The language processed here has no syntax tree to speak of. Input is a
stream of whitespace-separated tokens. Each token is resolved against a
symbol table the moment it is read, and one of two things happens to
it: at top level it executes immediately, while inside a definition it
is compiled to native x86-64 machine code appended to an executable
buffer. There is no intermediate representation, no optimizer, and no
second pass; by the time end of input is reached, everything defined
has already been assembled and everything at top level has already run.

All user code, compiled code, and the builtin primitives share one data
stack of untyped 64-bit words, and they share one calling convention:
the stack pointer rides in RDI across every call. A compiled body is
entered with RDI pointing at the current top of stack and returns with
RDI pointing at the new top. Primitives written in Go are reached the
same way, through small trampolines assembled into the code buffer that
forward RDI to a single exported dispatch routine; a caller cannot tell
a compiled body from a builtin, and never needs to.

Words come in three kinds. A Function names executable code and a use
of it calls that code (immediately at top level, via an emitted call
instruction inside a definition). A Macro also names executable code,
but a use of it inside a definition runs the code right then, at
compile time, letting it read more input or emit code of its own; the
definition forms DEFUN, DEFMACRO, and DEFVAL are themselves macros. A
Value names a 64-bit constant which is pushed, or baked into the
instruction stream, at the point of use.

A definition may call itself: its name is entered into the symbol table
before its body compiles, and calls to a body still in progress are
emitted in a wide patchable encoding and fixed up when the terminating
DONE arrives. Combined with the ?EXIT primitive, which returns from the
enclosing compiled body when the top of stack is zero, that is enough
to write terminating recursive routines despite the language having no
other control flow.

The system is resolutely single-threaded and treats every error as
fatal: an undefined name, an illegal input byte, or an overflowing code
buffer abandons the run. Interactive use softens this only at the line
granularity, by reporting the error and keeping the state built up by
previous lines.

This needs linux/amd64 and cgo: the code buffer is mapped executable
with mmap, and control transfers between Go and generated code go
through a C thunk.
*/
package main
