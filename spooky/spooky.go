// Package spooky implements Bob Jenkins' SpookyHash, versions 1 and 2.
//
// State is twelve 64-bit lanes mixed in 96 byte blocks, with a 192 byte
// pending buffer. Inputs that never fill the buffer take a dedicated
// short path. Block words are decoded little-endian explicitly, so the
// output matches the reference values on any host byte order.
package spooky

import (
	"encoding/binary"
	"math/bits"

	"github.com/histdb/sinkhash/num"
	"github.com/histdb/sinkhash/sink"
)

var le = binary.LittleEndian

type Version uint8

const (
	V1 Version = iota + 1
	V2
)

const (
	numVars   = 12
	blockSize = numVars * 8
	bufSize   = 2 * blockSize

	// not zero, odd, and an irregular mix of bits; nothing else required
	sc = 0xdeadbeefdeadbeef
)

type T struct {
	data   [bufSize]byte
	state  [numVars]uint64
	length int
	rem    int
	v      Version
	done   bool
}

func New(v Version) *T { return NewSeed(v, 0, 0) }

// NewSeed creates a hasher whose initial lane state is perturbed by two
// independent 64-bit seeds.
func NewSeed(v Version, seed1, seed2 uint64) *T {
	if v != V1 && v != V2 {
		panic("spooky: unknown version")
	}
	t := &T{v: v}
	t.state[0] = seed1
	t.state[1] = seed2
	return t
}

func rot(x uint64, k int) uint64 { return bits.RotateLeft64(x, k) }

// mix folds one 96 byte block into the lanes. The state is fully
// overwritten every block.
func mix(b []byte, s *[numVars]uint64) {
	var d [numVars]uint64
	for i := range d {
		d[i] = le.Uint64(b[8*i:])
	}

	s[0] += d[0]
	s[2] ^= s[10]
	s[11] ^= s[0]
	s[0] = rot(s[0], 11)
	s[11] += s[1]
	s[1] += d[1]
	s[3] ^= s[11]
	s[0] ^= s[1]
	s[1] = rot(s[1], 32)
	s[0] += s[2]
	s[2] += d[2]
	s[4] ^= s[0]
	s[1] ^= s[2]
	s[2] = rot(s[2], 43)
	s[1] += s[3]
	s[3] += d[3]
	s[5] ^= s[1]
	s[2] ^= s[3]
	s[3] = rot(s[3], 31)
	s[2] += s[4]
	s[4] += d[4]
	s[6] ^= s[2]
	s[3] ^= s[4]
	s[4] = rot(s[4], 17)
	s[3] += s[5]
	s[5] += d[5]
	s[7] ^= s[3]
	s[4] ^= s[5]
	s[5] = rot(s[5], 28)
	s[4] += s[6]
	s[6] += d[6]
	s[8] ^= s[4]
	s[5] ^= s[6]
	s[6] = rot(s[6], 39)
	s[5] += s[7]
	s[7] += d[7]
	s[9] ^= s[5]
	s[6] ^= s[7]
	s[7] = rot(s[7], 57)
	s[6] += s[8]
	s[8] += d[8]
	s[10] ^= s[6]
	s[7] ^= s[8]
	s[8] = rot(s[8], 55)
	s[7] += s[9]
	s[9] += d[9]
	s[11] ^= s[7]
	s[8] ^= s[9]
	s[9] = rot(s[9], 54)
	s[8] += s[10]
	s[10] += d[10]
	s[0] ^= s[8]
	s[9] ^= s[10]
	s[10] = rot(s[10], 22)
	s[9] += s[11]
	s[11] += d[11]
	s[1] ^= s[9]
	s[10] ^= s[11]
	s[11] = rot(s[11], 46)
	s[10] += s[0]
}

func endPartial(h *[numVars]uint64) {
	h[11] += h[1]
	h[2] ^= h[11]
	h[1] = rot(h[1], 44)
	h[0] += h[2]
	h[3] ^= h[0]
	h[2] = rot(h[2], 15)
	h[1] += h[3]
	h[4] ^= h[1]
	h[3] = rot(h[3], 34)
	h[2] += h[4]
	h[5] ^= h[2]
	h[4] = rot(h[4], 21)
	h[3] += h[5]
	h[6] ^= h[3]
	h[5] = rot(h[5], 38)
	h[4] += h[6]
	h[7] ^= h[4]
	h[6] = rot(h[6], 33)
	h[5] += h[7]
	h[8] ^= h[5]
	h[7] = rot(h[7], 10)
	h[6] += h[8]
	h[9] ^= h[6]
	h[8] = rot(h[8], 13)
	h[7] += h[9]
	h[10] ^= h[7]
	h[9] = rot(h[9], 38)
	h[8] += h[10]
	h[11] ^= h[8]
	h[10] = rot(h[10], 53)
	h[9] += h[11]
	h[0] ^= h[9]
	h[11] = rot(h[11], 42)
	h[10] += h[0]
	h[1] ^= h[10]
	h[0] = rot(h[0], 54)
}

// end mixes the final block state down so h0, h1 are a hash of it all.
// V2 folds the block data in here; V1 already ran an extra mix over it.
func (t *T) end(b []byte, h *[numVars]uint64) {
	if t.v == V2 {
		for i := range numVars {
			h[i] += le.Uint64(b[8*i:])
		}
	}
	endPartial(h)
	endPartial(h)
	endPartial(h)
}

func shortMix(h *[4]uint64) {
	h[2] = rot(h[2], 50)
	h[2] += h[3]
	h[0] ^= h[2]
	h[3] = rot(h[3], 52)
	h[3] += h[0]
	h[1] ^= h[3]
	h[0] = rot(h[0], 30)
	h[0] += h[1]
	h[2] ^= h[0]
	h[1] = rot(h[1], 41)
	h[1] += h[2]
	h[3] ^= h[1]
	h[2] = rot(h[2], 54)
	h[2] += h[3]
	h[0] ^= h[2]
	h[3] = rot(h[3], 48)
	h[3] += h[0]
	h[1] ^= h[3]
	h[0] = rot(h[0], 38)
	h[0] += h[1]
	h[2] ^= h[0]
	h[1] = rot(h[1], 37)
	h[1] += h[2]
	h[3] ^= h[1]
	h[2] = rot(h[2], 62)
	h[2] += h[3]
	h[0] ^= h[2]
	h[3] = rot(h[3], 34)
	h[3] += h[0]
	h[1] ^= h[3]
	h[0] = rot(h[0], 5)
	h[0] += h[1]
	h[2] ^= h[0]
	h[1] = rot(h[1], 36)
	h[1] += h[2]
	h[3] ^= h[1]
}

func shortEnd(h *[4]uint64) {
	h[3] ^= h[2]
	h[2] = rot(h[2], 15)
	h[3] += h[2]
	h[0] ^= h[3]
	h[3] = rot(h[3], 52)
	h[0] += h[3]
	h[1] ^= h[0]
	h[0] = rot(h[0], 26)
	h[1] += h[0]
	h[2] ^= h[1]
	h[1] = rot(h[1], 51)
	h[2] += h[1]
	h[3] ^= h[2]
	h[2] = rot(h[2], 28)
	h[3] += h[2]
	h[0] ^= h[3]
	h[3] = rot(h[3], 9)
	h[0] += h[3]
	h[1] ^= h[0]
	h[0] = rot(h[0], 47)
	h[1] += h[0]
	h[2] ^= h[1]
	h[1] = rot(h[1], 54)
	h[2] += h[1]
	h[3] ^= h[2]
	h[2] = rot(h[2], 32)
	h[3] += h[2]
	h[0] ^= h[3]
	h[3] = rot(h[3], 25)
	h[0] += h[3]
	h[1] ^= h[0]
	h[0] = rot(h[0], 63)
	h[1] += h[0]
}

func (t *T) Write(p []byte) {
	if t.done {
		panic("spooky: write after finish")
	}

	n := len(p)
	if t.rem+n < bufSize {
		copy(t.data[t.rem:], p)
		t.length += n
		t.rem += n
		return
	}

	var h [numVars]uint64
	if t.length < bufSize {
		h = [numVars]uint64{
			t.state[0], t.state[1], sc,
			t.state[0], t.state[1], sc,
			t.state[0], t.state[1], sc,
			t.state[0], t.state[1], sc,
		}
	} else {
		h = t.state
	}
	t.length += n

	if t.rem > 0 {
		prefix := bufSize - t.rem
		copy(t.data[t.rem:], p[:prefix])
		mix(t.data[:blockSize], &h)
		mix(t.data[blockSize:], &h)
		p = p[prefix:]
	}

	for len(p) >= blockSize {
		mix(p[:blockSize], &h)
		p = p[blockSize:]
	}

	t.rem = copy(t.data[:], p)
	t.state = h
}

// short hashes buffered inputs below the block-loop threshold directly.
func (t *T) short() (h0, h1 uint64) {
	length := t.length
	remainder := length % 32
	h := [4]uint64{t.state[0], t.state[1], sc, sc}

	i := 0
	if length > 15 {
		for n := length / 32; n > 0; n-- {
			h[2] += le.Uint64(t.data[i:])
			h[3] += le.Uint64(t.data[i+8:])
			shortMix(&h)
			h[0] += le.Uint64(t.data[i+16:])
			h[1] += le.Uint64(t.data[i+24:])
			i += 32
		}
		if remainder >= 16 {
			remainder -= 16
			h[2] += le.Uint64(t.data[i:])
			h[3] += le.Uint64(t.data[i+8:])
			shortMix(&h)
			i += 16
		}
	}

	if t.v == V1 {
		h[3] = rot(uint64(length), 56)
	} else {
		h[3] += rot(uint64(length), 56)
	}

	d := t.data[i:]
	switch remainder {
	case 15:
		h[3] += rot(uint64(d[14]), 48)
		fallthrough
	case 14:
		h[3] += rot(uint64(d[13]), 40)
		fallthrough
	case 13:
		h[3] += rot(uint64(d[12]), 32)
		fallthrough
	case 12:
		h[3] += uint64(le.Uint32(d[8:]))
		h[2] += le.Uint64(d)
	case 11:
		h[3] += rot(uint64(d[10]), 16)
		fallthrough
	case 10:
		h[3] += rot(uint64(d[9]), 8)
		fallthrough
	case 9:
		h[3] += uint64(d[8])
		fallthrough
	case 8:
		h[2] += le.Uint64(d)
	case 7:
		h[2] += rot(uint64(d[6]), 48)
		fallthrough
	case 6:
		h[2] += rot(uint64(d[5]), 40)
		fallthrough
	case 5:
		h[2] += rot(uint64(d[4]), 32)
		fallthrough
	case 4:
		h[2] += uint64(le.Uint32(d))
	case 3:
		h[2] += rot(uint64(d[2]), 16)
		fallthrough
	case 2:
		h[2] += rot(uint64(d[1]), 8)
		fallthrough
	case 1:
		h[2] += uint64(d[0])
	case 0:
		h[2] += sc
		h[3] += sc
	}

	shortEnd(&h)
	return h[0], h[1]
}

func (t *T) finish() (h0, h1 uint64) {
	if t.done {
		panic("spooky: finish after finish")
	}
	t.done = true

	if t.length < bufSize {
		return t.short()
	}

	data := t.data[:]
	rem := t.rem
	h := t.state

	if rem >= blockSize {
		mix(data[:blockSize], &h)
		data = data[blockSize:]
		rem -= blockSize
	}

	// zero-pad the trailing partial block and tag it with its length
	b := data[:blockSize]
	clear(b[rem:])
	b[blockSize-1] = byte(rem)

	if t.v == V1 {
		mix(b, &h)
	}
	t.end(b, &h)

	return h[0], h[1]
}

func (t *T) Finish128() num.U128 {
	h0, h1 := t.finish()
	return num.U128{Lo: h0, Hi: h1}
}

func (t *T) Finish64() uint64 {
	h0, _ := t.finish()
	return h0
}

func (t *T) Finish32() uint32 {
	h0, _ := t.finish()
	return uint32(h0)
}

func (t *T) W() *sink.W { return sink.New(t) }
