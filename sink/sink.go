package sink

import (
	"encoding/binary"
	"unsafe"
)

var le = binary.LittleEndian

// Writer absorbs raw bytes. Every accumulator implements it.
type Writer interface {
	Write(p []byte)
}

// Hashable is any value that can feed itself into a sink. Implementations
// must write their fields in a fixed order independent of memory layout.
type Hashable interface {
	AppendTo(w *W)
}

// W serializes primitives into a Writer. Multi-byte integers are always
// emitted little-endian, never host order, so the byte stream a value
// produces is the same on every machine.
type W struct {
	w   Writer
	tmp [16]byte
}

func New(w Writer) *W {
	return &W{w: w}
}

func (w *W) Bytes(p []byte) {
	w.w.Write(p)
}

func (w *W) Uint8(x uint8) {
	w.tmp[0] = x
	w.w.Write(w.tmp[:1])
}

func (w *W) Uint16(x uint16) {
	le.PutUint16(w.tmp[:2], x)
	w.w.Write(w.tmp[:2])
}

func (w *W) Uint32(x uint32) {
	le.PutUint32(w.tmp[:4], x)
	w.w.Write(w.tmp[:4])
}

func (w *W) Uint64(x uint64) {
	le.PutUint64(w.tmp[:8], x)
	w.w.Write(w.tmp[:8])
}

func (w *W) Uint128(hi, lo uint64) {
	le.PutUint64(w.tmp[0:8], lo)
	le.PutUint64(w.tmp[8:16], hi)
	w.w.Write(w.tmp[:16])
}

func (w *W) Int8(x int8)   { w.Uint8(uint8(x)) }
func (w *W) Int16(x int16) { w.Uint16(uint16(x)) }
func (w *W) Int32(x int32) { w.Uint32(uint32(x)) }
func (w *W) Int64(x int64) { w.Uint64(uint64(x)) }

func (w *W) Bool(x bool) {
	if x {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

// String writes the bytes of s followed by a 0xff terminator. The
// terminator cannot appear in valid utf-8, so distinct strings fed
// back to back never produce the same stream.
func (w *W) String(s string) {
	if len(s) > 0 {
		w.w.Write(unsafe.Slice(unsafe.StringData(s), len(s)))
	}
	w.Uint8(0xff)
}

// Length writes a length prefix as a fixed-width u64 so aggregate
// framing does not depend on the host's int width.
func (w *W) Length(n int) {
	w.Uint64(uint64(n))
}

// Slice writes a length prefix and then each element. Framing is not
// optional: two element sequences with identical concatenated bytes
// still produce distinct streams.
func Slice[T Hashable](w *W, xs []T) {
	w.Length(len(xs))
	for i := range xs {
		xs[i].AppendTo(w)
	}
}

func Uint64s(w *W, xs []uint64) {
	w.Length(len(xs))
	for _, x := range xs {
		w.Uint64(x)
	}
}

func Strings(w *W, xs []string) {
	w.Length(len(xs))
	for _, x := range xs {
		w.String(x)
	}
}

// Blob is a framed byte slice, for hashing variable-length fields
// inside an aggregate. Use Bytes for the raw, unframed primitive.
func (w *W) Blob(p []byte) {
	w.Length(len(p))
	w.w.Write(p)
}
