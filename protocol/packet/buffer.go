package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/jath03/openrgb-go/common"
)

// reader is a little-endian cursor over a payload buffer.  Errors are
// sticky: once a read runs past the buffer every later read is a no-op and
// err() reports a framing error naming the first offending field.
type reader struct {
	buf  []byte
	off  int
	fail error
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) setFail(field string) {
	if r.fail == nil {
		r.fail = fmt.Errorf("%w: truncated %s at offset %d", common.ErrFraming, field, r.off)
	}
}

func (r *reader) err() error {
	return r.fail
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) bytes(n int, field string) []byte {
	if r.fail != nil {
		return nil
	}
	if n < 0 || r.remaining() < n {
		r.setFail(field)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u16(field string) uint16 {
	b := r.bytes(2, field)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32(field string) uint32 {
	b := r.bytes(4, field)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) i32(field string) int32 {
	return int32(r.u32(field))
}

// string reads a u16 length (which counts the trailing NUL) followed by
// that many bytes, and strips any NUL padding.
func (r *reader) string(field string) string {
	n := int(r.u16(field))
	b := r.bytes(n, field)
	if b == nil {
		return ``
	}
	return strings.TrimRight(string(b), "\x00")
}

func (r *reader) color(field string) common.Color {
	b := r.bytes(4, field)
	if b == nil {
		return common.Color{}
	}
	return common.Color{Red: b[0], Green: b[1], Blue: b[2]}
}

// writer accumulates a little-endian payload.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) bytes() []byte {
	return w.buf.Bytes()
}

func (w *writer) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) i32(v int32) {
	w.u32(uint32(v))
}

// string writes a u16 length including the trailing NUL, the bytes, then
// the NUL.
func (w *writer) string(s string) {
	w.u16(uint16(len(s) + 1))
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
}

func (w *writer) color(c common.Color) {
	w.buf.Write([]byte{c.Red, c.Green, c.Blue, 0})
}
