// Package xxh64 implements the 64-bit xxHash algorithm: four parallel
// lanes over 32 byte blocks, folded and avalanched at the end.
package xxh64

import (
	"encoding/binary"
	"math/bits"

	"github.com/histdb/sinkhash/sink"
)

var le = binary.LittleEndian

const (
	prime1 = 0x9e3779b185ebca87
	prime2 = 0xc2b2ae3d27d4eb4f
	prime3 = 0x165667b19e3779f9
	prime4 = 0x85ebca77c2b2ae63
	prime5 = 0x27d4eb2f165667c5
)

type T struct {
	acc   [4]uint64
	buf   [32]byte
	n     int
	total uint64
	done  bool
}

func New() *T { return NewSeed(0) }

func NewSeed(seed uint64) *T {
	return &T{acc: [4]uint64{
		seed + prime1 + prime2,
		seed + prime2,
		seed,
		seed - prime1,
	}}
}

func round(acc, lane uint64) uint64 {
	return bits.RotateLeft64(acc+lane*prime2, 31) * prime1
}

func merge(acc, lane uint64) uint64 {
	return (acc^round(0, lane))*prime1 + prime4
}

func (t *T) Write(p []byte) {
	if t.done {
		panic("xxh64: write after finish")
	}
	t.total += uint64(len(p))
	for len(p) > 0 {
		c := copy(t.buf[t.n:], p)
		t.n += c
		p = p[c:]
		if t.n == 32 {
			t.n = 0
			for i := range t.acc {
				t.acc[i] = round(t.acc[i], le.Uint64(t.buf[8*i:]))
			}
		}
	}
}

func (t *T) Finish() uint64 {
	if t.done {
		panic("xxh64: finish after finish")
	}
	t.done = true

	var acc uint64
	if t.total < 32 {
		// acc[2] still holds the seed; the block loop never ran
		acc = t.acc[2] + prime5
	} else {
		acc = bits.RotateLeft64(t.acc[0], 1) +
			bits.RotateLeft64(t.acc[1], 7) +
			bits.RotateLeft64(t.acc[2], 12) +
			bits.RotateLeft64(t.acc[3], 18)
		acc = merge(acc, t.acc[0])
		acc = merge(acc, t.acc[1])
		acc = merge(acc, t.acc[2])
		acc = merge(acc, t.acc[3])
	}

	acc += t.total

	i := 0
	for ; t.n-i >= 8; i += 8 {
		acc = bits.RotateLeft64(acc^round(0, le.Uint64(t.buf[i:])), 27)*prime1 + prime4
	}
	if t.n-i >= 4 {
		acc = bits.RotateLeft64(acc^uint64(le.Uint32(t.buf[i:]))*prime1, 23)*prime2 + prime3
		i += 4
	}
	for ; i < t.n; i++ {
		acc = bits.RotateLeft64(acc^uint64(t.buf[i])*prime5, 11) * prime1
	}

	acc = (acc ^ acc>>33) * prime2
	acc = (acc ^ acc>>29) * prime3
	return acc ^ acc>>32
}

func (t *T) W() *sink.W { return sink.New(t) }
