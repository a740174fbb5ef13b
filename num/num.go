package num

import (
	"encoding/binary"
	"fmt"

	"github.com/histdb/sinkhash/sink"
)

var le = binary.LittleEndian

type U32 uint32

func (u U32) Digest() uint64     { return uint64(u) }
func (u U32) Equal(v U32) bool   { return u == v }
func (u U32) AppendTo(w *sink.W) { w.Uint32(uint32(u)) }

type U64 uint64

func (u U64) Digest() uint64     { return uint64(u) }
func (u U64) Equal(v U64) bool   { return u == v }
func (u U64) AppendTo(w *sink.W) { w.Uint64(uint64(u)) }

// U128 is a 128-bit unsigned integer hash value.
type U128 struct {
	Lo, Hi uint64
}

// Setter16 is the capability an external wide-integer type supplies to
// receive a 128-bit hash value: construction from a fixed-size byte
// array in little-endian order.
type Setter16 interface {
	SetBytes16(b [16]byte)
}

func U128FromBytes16(b [16]byte) (u U128) {
	u.SetBytes16(b)
	return u
}

func (u *U128) SetBytes16(b [16]byte) {
	u.Lo = le.Uint64(b[0:8])
	u.Hi = le.Uint64(b[8:16])
}

func (u U128) Bytes16() (b [16]byte) {
	le.PutUint64(b[0:8], u.Lo)
	le.PutUint64(b[8:16], u.Hi)
	return b
}

func (u U128) Or(v U128) U128  { return U128{u.Lo | v.Lo, u.Hi | v.Hi} }
func (u U128) Xor(v U128) U128 { return U128{u.Lo ^ v.Lo, u.Hi ^ v.Hi} }
func (u U128) And(v U128) U128 { return U128{u.Lo & v.Lo, u.Hi & v.Hi} }

func (u U128) Lsh(n uint) U128 {
	switch {
	case n == 0:
		return u
	case n < 64:
		return U128{u.Lo << n, u.Hi<<n | u.Lo>>(64-n)}
	case n < 128:
		return U128{0, u.Lo << (n - 64)}
	}
	return U128{}
}

func (u U128) Rsh(n uint) U128 {
	switch {
	case n == 0:
		return u
	case n < 64:
		return U128{u.Lo>>n | u.Hi<<(64-n), u.Hi >> n}
	case n < 128:
		return U128{u.Hi >> (n - 64), 0}
	}
	return U128{}
}

func (u U128) Uint64() uint64     { return u.Lo }
func (u U128) Uint32() uint32     { return uint32(u.Lo) }
func (u U128) Digest() uint64     { return u.Lo ^ u.Hi }
func (u U128) Equal(v U128) bool  { return u == v }
func (u U128) AppendTo(w *sink.W) { w.Uint128(u.Hi, u.Lo) }

func (u U128) String() string {
	return fmt.Sprintf("%016x%016x", u.Hi, u.Lo)
}
