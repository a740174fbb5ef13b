// Package fnv implements the Fowler-Noll-Vo streaming hashes (FNV-1 and
// FNV-1a) at 32, 64 and 128 bit widths.
//
// The hashers are purely streaming: one running value per width, no
// buffering, and the width's offset basis as the default seed. A hasher
// is finished exactly once; using it afterward panics.
package fnv

import (
	"math/bits"

	"github.com/histdb/sinkhash/num"
	"github.com/histdb/sinkhash/sink"
)

// Version selects the mixing order: V1 multiplies then xors each byte,
// V1a xors then multiplies.
type Version uint8

const (
	V1 Version = iota + 1
	V1a
)

const (
	basis32 = 0x811c9dc5
	prime32 = 0x01000193

	basis64 = 0xcbf29ce484222325
	prime64 = 0x100000001b3

	basis128Lo = 0x62b821756295c58d
	basis128Hi = 0x6c62272e07bb0142
	prime128Lo = 0x000000000000013b
	prime128Hi = 0x0000000001000000
)

func check(v Version) {
	if v != V1 && v != V1a {
		panic("fnv: unknown version")
	}
}

type T32 struct {
	state uint32
	xpre  bool
	done  bool
}

func New32(v Version) *T32 { return New32Seed(v, basis32) }

func New32Seed(v Version, seed uint32) *T32 {
	check(v)
	return &T32{state: seed, xpre: v == V1a}
}

func (t *T32) Write(p []byte) {
	if t.done {
		panic("fnv: write after finish")
	}
	s := t.state
	if t.xpre {
		for _, b := range p {
			s ^= uint32(b)
			s *= prime32
		}
	} else {
		for _, b := range p {
			s *= prime32
			s ^= uint32(b)
		}
	}
	t.state = s
}

func (t *T32) Finish() uint32 {
	if t.done {
		panic("fnv: finish after finish")
	}
	t.done = true
	return t.state
}

func (t *T32) W() *sink.W { return sink.New(t) }

type T64 struct {
	state uint64
	xpre  bool
	done  bool
}

func New64(v Version) *T64 { return New64Seed(v, basis64) }

func New64Seed(v Version, seed uint64) *T64 {
	check(v)
	return &T64{state: seed, xpre: v == V1a}
}

func (t *T64) Write(p []byte) {
	if t.done {
		panic("fnv: write after finish")
	}
	s := t.state
	if t.xpre {
		for _, b := range p {
			s ^= uint64(b)
			s *= prime64
		}
	} else {
		for _, b := range p {
			s *= prime64
			s ^= uint64(b)
		}
	}
	t.state = s
}

func (t *T64) Finish() uint64 {
	if t.done {
		panic("fnv: finish after finish")
	}
	t.done = true
	return t.state
}

func (t *T64) W() *sink.W { return sink.New(t) }

type T128 struct {
	state num.U128
	xpre  bool
	done  bool
}

func New128(v Version) *T128 {
	return New128Seed(v, num.U128{Lo: basis128Lo, Hi: basis128Hi})
}

func New128Seed(v Version, seed num.U128) *T128 {
	check(v)
	return &T128{state: seed, xpre: v == V1a}
}

// mul128 is the low 128 bits of state * prime, wrapping.
func mul128(s num.U128) num.U128 {
	hi, lo := bits.Mul64(s.Lo, prime128Lo)
	hi += s.Lo*prime128Hi + s.Hi*prime128Lo
	return num.U128{Lo: lo, Hi: hi}
}

func (t *T128) Write(p []byte) {
	if t.done {
		panic("fnv: write after finish")
	}
	s := t.state
	if t.xpre {
		for _, b := range p {
			s.Lo ^= uint64(b)
			s = mul128(s)
		}
	} else {
		for _, b := range p {
			s = mul128(s)
			s.Lo ^= uint64(b)
		}
	}
	t.state = s
}

func (t *T128) Finish() num.U128 {
	if t.done {
		panic("fnv: finish after finish")
	}
	t.done = true
	return t.state
}

func (t *T128) W() *sink.W { return sink.New(t) }
