// Package vecbuf implements the growable byte buffer used by the
// sub-readers to accumulate token text.
package vecbuf

import "errors"

// ErrOverflow is reported when a requested append would push the buffer
// size past what the size arithmetic can represent.
var ErrOverflow = errors.New("Overflow in vector size")

// V is an append-only byte buffer with checked size arithmetic.
type V struct {
	data []byte
	fill int
}

// Len returns the number of bytes accumulated.
func (v *V) Len() int { return v.fill }

// Bytes returns the accumulated bytes.
func (v *V) Bytes() []byte { return v.data[:v.fill] }

// AppendByte appends a single byte.
func (v *V) AppendByte(c byte) error {
	b, err := v.Append(1)
	if err != nil {
		return err
	}
	b[0] = c
	return nil
}

// Append reserves size more bytes and returns the newly reserved span.
func (v *V) Append(size int) ([]byte, error) {
	if size < 0 || v.fill+size < size {
		return nil, ErrOverflow
	}

	newfill := v.fill + size
	if newfill > len(v.data) {
		want := newfill * 2
		if want < newfill {
			want = newfill
		}
		grown := make([]byte, want)
		copy(grown, v.data[:v.fill])
		v.data = grown
	}

	span := v.data[v.fill:newfill]
	v.fill = newfill
	return span, nil
}
