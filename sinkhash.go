// Package sinkhash hashes arbitrary values through a byte-sink
// abstraction: a value feeds itself into a sink in a fixed field order,
// an accumulator absorbs the bytes, and finalizing yields a digest of
// the width chosen at construction. The same value logic produces a
// 32, 64 or 128 bit result depending on the algorithm and width.
package sinkhash

import (
	"fmt"

	"github.com/zeebo/errs/v2"

	"github.com/histdb/sinkhash/fnv"
	"github.com/histdb/sinkhash/num"
	"github.com/histdb/sinkhash/sink"
	"github.com/histdb/sinkhash/spooky"
	"github.com/histdb/sinkhash/xxh64"
)

type Algorithm uint8

const (
	Fnv1 Algorithm = iota + 1
	Fnv1a
	SpookyV1
	SpookyV2
	Xxh64
)

func (a Algorithm) String() string {
	switch a {
	case Fnv1:
		return "fnv1"
	case Fnv1a:
		return "fnv1a"
	case SpookyV1:
		return "spooky1"
	case SpookyV2:
		return "spooky2"
	case Xxh64:
		return "xxh64"
	}
	return fmt.Sprintf("algorithm(%d)", uint8(a))
}

// Seed fixes an accumulator's initial state. Every value is valid for
// every algorithm; algorithms that take a single 64-bit seed use S0
// and ignore S1. The seed is applied verbatim: spooky and xxh64
// default to zero seeds, but fnv defaults to the width's offset basis,
// so seeding fnv with zero selects the fnv0 variant instead.
type Seed struct {
	S0, S1 uint64
}

// Digest is a finalized hash value tagged with its width. Truncating
// accessors keep the low bits, and raw serialization (AppendTo,
// Bytes16, Fill) is always little-endian.
type Digest struct {
	lo, hi uint64
	bits   uint8
}

func (d Digest) Bits() int      { return int(d.bits) }
func (d Digest) Uint32() uint32 { return uint32(d.lo) }
func (d Digest) Uint64() uint64 { return d.lo }

func (d Digest) U128() num.U128 {
	return num.U128{Lo: d.lo, Hi: d.hi}
}

// Fill stores the digest into an external wide-integer value.
func (d Digest) Fill(s num.Setter16) {
	s.SetBytes16(d.U128().Bytes16())
}

func (d Digest) AppendTo(w *sink.W) {
	switch d.bits {
	case 32:
		w.Uint32(uint32(d.lo))
	case 64:
		w.Uint64(d.lo)
	default:
		w.Uint128(d.hi, d.lo)
	}
}

func (d Digest) String() string {
	switch d.bits {
	case 32:
		return fmt.Sprintf("%08x", uint32(d.lo))
	case 64:
		return fmt.Sprintf("%016x", d.lo)
	default:
		return fmt.Sprintf("%016x%016x", d.hi, d.lo)
	}
}

// Factory produces fresh, independent accumulators for one algorithm,
// width and seed. The zero Factory is not valid; use NewFactory.
type Factory struct {
	algo   Algorithm
	bits   uint8
	seed   Seed
	seeded bool
}

// NewFactory validates that the algorithm supports the requested output
// width. Fnv and Spooky support 32, 64 and 128 bits; Xxh64 only 64.
func NewFactory(a Algorithm, bits int) (Factory, error) {
	switch a {
	case Fnv1, Fnv1a, SpookyV1, SpookyV2:
		if bits != 32 && bits != 64 && bits != 128 {
			return Factory{}, errs.Errorf("%v: unsupported output width %d", a, bits)
		}
	case Xxh64:
		if bits != 64 {
			return Factory{}, errs.Errorf("%v: unsupported output width %d", a, bits)
		}
	default:
		return Factory{}, errs.Errorf("unknown algorithm %v", a)
	}
	return Factory{algo: a, bits: uint8(bits)}, nil
}

// WithSeed returns a copy of the factory whose accumulators start from
// the given seed instead of the algorithm defaults. The seed becomes
// the initial state as-is; see Seed for how zero differs from unseeded.
func (f Factory) WithSeed(s Seed) Factory {
	f.seed = s
	f.seeded = true
	return f
}

func (f Factory) Algorithm() Algorithm { return f.algo }
func (f Factory) Bits() int            { return int(f.bits) }

// T is an accumulator. It exclusively owns its state: instances are
// independent and sharing one across goroutines needs external
// locking. Finish seals it; any use afterward panics.
type T struct {
	wr  sink.Writer
	fin func() Digest
}

func (f Factory) New() *T {
	t := new(T)
	bits := f.bits

	switch f.algo {
	case Fnv1, Fnv1a:
		v := fnv.V1
		if f.algo == Fnv1a {
			v = fnv.V1a
		}
		switch bits {
		case 32:
			var h *fnv.T32
			if f.seeded {
				h = fnv.New32Seed(v, uint32(f.seed.S0))
			} else {
				h = fnv.New32(v)
			}
			t.wr = h
			t.fin = func() Digest { return Digest{lo: uint64(h.Finish()), bits: bits} }
		case 64:
			var h *fnv.T64
			if f.seeded {
				h = fnv.New64Seed(v, f.seed.S0)
			} else {
				h = fnv.New64(v)
			}
			t.wr = h
			t.fin = func() Digest { return Digest{lo: h.Finish(), bits: bits} }
		case 128:
			var h *fnv.T128
			if f.seeded {
				h = fnv.New128Seed(v, num.U128{Lo: f.seed.S0, Hi: f.seed.S1})
			} else {
				h = fnv.New128(v)
			}
			t.wr = h
			t.fin = func() Digest {
				u := h.Finish()
				return Digest{lo: u.Lo, hi: u.Hi, bits: bits}
			}
		}

	case SpookyV1, SpookyV2:
		v := spooky.V1
		if f.algo == SpookyV2 {
			v = spooky.V2
		}
		h := spooky.NewSeed(v, f.seed.S0, f.seed.S1)
		t.wr = h
		t.fin = func() Digest {
			u := h.Finish128()
			switch bits {
			case 32:
				return Digest{lo: uint64(uint32(u.Lo)), bits: bits}
			case 64:
				return Digest{lo: u.Lo, bits: bits}
			default:
				return Digest{lo: u.Lo, hi: u.Hi, bits: bits}
			}
		}

	case Xxh64:
		h := xxh64.NewSeed(f.seed.S0)
		t.wr = h
		t.fin = func() Digest { return Digest{lo: h.Finish(), bits: bits} }
	}

	return t
}

// Hash digests a single hashable value, like hashing it through a fresh
// accumulator and finalizing.
func (f Factory) Hash(h sink.Hashable) Digest {
	t := f.New()
	h.AppendTo(t.W())
	return t.Finish()
}

func (f Factory) HashBytes(p []byte) Digest {
	t := f.New()
	t.Write(p)
	return t.Finish()
}

func (t *T) Write(p []byte) { t.wr.Write(p) }
func (t *T) W() *sink.W     { return sink.New(t.wr) }
func (t *T) Finish() Digest { return t.fin() }
