package sdb

import "encoding/binary"

// writeBuffer is a growable byte buffer used to flatten the data model
// before compression. It doubles its capacity whenever the next write
// would overflow, so repeated saves settle on a stable allocation.
type writeBuffer struct {
	buf []byte
}

func (b *writeBuffer) reset()        { b.buf = b.buf[:0] }
func (b *writeBuffer) bytes() []byte { return b.buf }

func (b *writeBuffer) grow(n int) {
	need := len(b.buf) + n
	if need <= cap(b.buf) {
		return
	}
	size := cap(b.buf)
	if size == 0 {
		size = 64
	}
	for size < need {
		size *= 2
	}
	next := make([]byte, len(b.buf), size)
	copy(next, b.buf)
	b.buf = next
}

func (b *writeBuffer) putInt32(v int32) {
	b.grow(4)
	n := len(b.buf)
	b.buf = b.buf[:n+4]
	binary.LittleEndian.PutUint32(b.buf[n:], uint32(v))
}

func (b *writeBuffer) putString(s string) {
	b.grow(len(s))
	b.buf = append(b.buf, s...)
}

// --------------------------------------------------------------------

// byteReader consumes a flat byte stream, rejecting truncated input.
type byteReader struct {
	buf []byte
	off int
}

func (r *byteReader) readInt32() (int32, error) {
	if r.off+4 > len(r.buf) {
		return 0, ErrCorruptData
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return int32(v), nil
}

func (r *byteReader) readString(n int) (string, error) {
	if n < 0 || n > len(r.buf)-r.off {
		return "", ErrCorruptData
	}
	s := string(r.buf[r.off : r.off+n])
	r.off += n
	return s, nil
}

func (r *byteReader) remaining() int { return len(r.buf) - r.off }
