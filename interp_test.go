package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Interp(t *testing.T) {
	interpTestCases{

		//// literals and intrinsics at top level

		interpTest("print literal").
			withInput(`42 PRINTI`).
			expectOutput("42\n"),

		interpTest("negative literal").
			withInput(`-7 PRINTI`).
			expectOutput("-7\n"),

		interpTest("explicit positive literal").
			withInput(`+42 PRINTI`).
			expectOutput("42\n"),

		interpTest("multiply").
			withInput(`3 4 * PRINTI`).
			expectOutput("12\n"),

		interpTest("subtract ordered").
			withInput(`10 3 - PRINTI`).
			expectOutput("7\n"),

		interpTest("divide ordered").
			withInput(`13 3 / PRINTI`).
			expectOutput("4\n"),

		interpTest("divide by zero").
			withInput(`1 0 / PRINTI`).
			expectError("division by zero"),

		interpTest("dup").
			withInput(`3 DUP * PRINTI`).
			expectOutput("9\n"),

		interpTest("drop").
			withInput(`1 2 DROP PRINTI`).
			expectOutput("1\n"),

		interpTest("swap").
			withInput(`1 2 SWAP - PRINTI`).
			expectOutput("1\n"),

		interpTest("over").
			withInput(`7 2 OVER - - PRINTI`).
			expectOutput("12\n"),

		interpTest("tokens fold to uppercase").
			withInput(`3 dup * printi`).
			expectOutput("9\n"),

		interpTest("string print").
			withInput(`"hello, world" PRINTS`).
			expectOutput("hello, world"),

		interpTest("comment skipped").
			withInput("; nothing to see here\n42 PRINTI").
			expectOutput("42\n"),

		interpTest("memory round trip").
			withInput(`8 ALLOC DUP 99 SWAP ! @ PRINTI`).
			expectOutput("99\n"),

		//// definition forms

		interpTest("defun and call").
			withInput(`DEFUN DOUBLE DUP + DONE  5 DOUBLE PRINTI`).
			expectOutput("10\n"),

		interpTest("defun calling defun").
			withInput(`
				DEFUN DOUBLE DUP + DONE
				DEFUN QUADRUPLE DOUBLE DOUBLE DONE
				3 QUADRUPLE PRINTI`).
			expectOutput("12\n"),

		interpTest("defval evaluates body once").
			withInput(`DEFVAL ANSWER 6 7 * DONE  ANSWER PRINTI`).
			expectOutput("42\n"),

		interpTest("redefinition shadows").
			withInput(`DEFVAL X 1 DONE  DEFVAL X 2 DONE  X PRINTI`).
			expectOutput("2\n"),

		interpTest("value baked at compile time").
			withInput(`
				DEFVAL X 5 DONE
				DEFUN SHOW X PRINTI DONE
				DEFVAL X 9 DONE
				SHOW X PRINTI`).
			expectOutput("5\n9\n"),

		interpTest("macro runs while its user compiles").
			withInput(`
				DEFMACRO STAGE 5 DONE
				DEFUN SHOW STAGE PRINTI DONE
				SHOW`).
			expectOutput("5\n"),

		interpTest("recursive countdown patches self calls").
			withInput(`
				DEFVAL CELL 8 ALLOC DONE
				DEFUN STEP DUP CELL @ + CELL ! -1 + DUP ?EXIT STEP DONE
				0 CELL !
				5 STEP
				CELL @ PRINTI`).
			expectOutput("15\n"),

		interpTest("exit pops without returning on nonzero").
			withInput(`7 1 ?EXIT PRINTI`).
			expectOutput("7\n"),

		//// errors

		interpTest("undefined name").
			withInput(`NOPE`).
			expectError("The name 'NOPE' is undefined"),

		interpTest("undefined name in definition").
			withInput(`DEFUN F NOPE DONE`).
			expectError("The name 'NOPE' is undefined"),

		interpTest("illegal character").
			withInput(`]`).
			expectError("illegal character"),

		interpTest("unterminated string").
			withInput(`"abc`).
			expectError("End of stream while reading string"),

		interpTest("end of stream in definition").
			withInput(`DEFUN F DUP`).
			expectError("End of stream in definition of 'F'"),

		interpTest("definition name must be a symbol").
			withInput(`DEFUN 42 DUP DONE`).
			expectError("definition name must be a symbol"),

		interpTest("quote form rejected").
			withInput(`[ 1 2 ]`).
			expectError("not implemented"),

		interpTest("list form rejected").
			withInput(`( 1 2 )`).
			expectError("not implemented"),
	}.run(t)
}

func Test_builtins_installed(t *testing.T) {
	in, err := New()
	require.NoError(t, err)
	defer in.Close()

	expectKind := func(kind symKind, names ...string) {
		for _, name := range names {
			e := in.tab.lookup(name)
			if assert.NotNil(t, e, "expected builtin %q", name) {
				assert.Equal(t, kind, e.kind, "expected %q kind", name)
			}
		}
	}
	expectKind(symFunction,
		"DUP", "DROP", "SWAP", "OVER",
		"+", "-", "*", "/",
		"@", "!", "ALLOC",
		"PRINTI", "PRINTS", "?EXIT")
	expectKind(symMacro, "DEFUN", "DEFMACRO", "DEFVAL")
	expectKind(symValue, "*SYMTAB*", "*READTAB*", "*IN*", "*OUT*", "*PROGRAM*")

	assert.Nil(t, in.tab.lookup("DONE"), "expected the terminator to have no entry")
}

type interpTestCases []interpTestCase

func (its interpTestCases) run(t *testing.T) {
	for _, it := range its {
		if !t.Run(it.name, it.run) {
			return
		}
	}
}

func interpTest(name string) (it interpTestCase) {
	it.name = name
	return it
}

type interpTestCase struct {
	name    string
	input   string
	opts    []Option
	expect  []func(t *testing.T, out string)
	wantErr string
	timeout time.Duration
}

func (it interpTestCase) withInput(input string) interpTestCase {
	it.input = input
	return it
}

func (it interpTestCase) withOptions(opts ...Option) interpTestCase {
	it.opts = append(it.opts, opts...)
	return it
}

func (it interpTestCase) withTimeout(timeout time.Duration) interpTestCase {
	it.timeout = timeout
	return it
}

func (it interpTestCase) expectOutput(output string) interpTestCase {
	it.expect = append(it.expect, func(t *testing.T, out string) {
		assert.Equal(t, output, out, "expected output")
	})
	return it
}

func (it interpTestCase) expectError(mess string) interpTestCase {
	it.wantErr = mess
	return it
}

// run runs the case silently first, and on failure runs it again with
// trace logging wired to the test log.
func (it interpTestCase) run(t *testing.T) {
	if testFails(func(t *testing.T) { it.runTest(t, nil) }) {
		it.runTest(t, t.Logf)
	}
}

func (it interpTestCase) runTest(t *testing.T, logf func(mess string, args ...interface{})) {
	const defaultTimeout = time.Second
	timeout := it.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var out strings.Builder
	opts := []Option{
		WithInput(strings.NewReader(it.input)),
		WithOutput(&out),
	}
	opts = append(opts, it.opts...)
	if logf != nil {
		opts = append(opts, WithLogf(logf))
	}

	in, err := New(opts...)
	require.NoError(t, err, "unexpected construction error")
	defer func() {
		assert.NoError(t, in.Close(), "unexpected close error")
	}()

	err = in.Run(ctx)
	if it.wantErr != "" {
		require.Error(t, err, "expected a run error")
		assert.Contains(t, err.Error(), it.wantErr, "expected run error")
	} else {
		require.NoError(t, err, "unexpected run error")
	}

	for _, expect := range it.expect {
		expect(t, out.String())
	}
}

//// utilities

func testFails(fn func(t *testing.T)) bool {
	var fakeT testing.T
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(&fakeT)
	}()
	<-done
	return fakeT.Failed()
}
