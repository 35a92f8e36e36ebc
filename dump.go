package main

import (
	"fmt"
	"strings"
)

// hexDump renders b as lines of 16 hex bytes, each prefixed with its
// absolute address. It is only for trace logging of freshly compiled
// bodies, so it stays dumb: no ASCII gutter, no run elision.
func hexDump(b []byte, base uintptr) string {
	var sb strings.Builder
	for off := 0; off < len(b); off += 16 {
		end := off + 16
		if end > len(b) {
			end = len(b)
		}
		fmt.Fprintf(&sb, "%#08x ", base+uintptr(off))
		for _, c := range b[off:end] {
			fmt.Fprintf(&sb, " %02x", c)
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}
