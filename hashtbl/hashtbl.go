// Package hashtbl is a flat bytell-style hash table whose keys are
// digested through the sinkhash layer: any comparable value that can
// feed itself into a sink can be a key, with the hash algorithm chosen
// per table.
package hashtbl

import (
	"math"
	"math/bits"
	"unsafe"

	"github.com/zeebo/xxh3"

	"github.com/histdb/sinkhash"
	"github.com/histdb/sinkhash/sink"
)

// Key is any comparable value that knows how to feed itself into a
// sink. The serialized form decides the digest, equality decides
// collisions.
type Key interface {
	comparable
	sink.Hashable
}

const (
	flagsEmpty    = 0b00000000
	flagsReserved = 0b01111110
	flagsHit      = 0b10000000
	flagsList     = 0b01000000

	maskHit      = 0b10000000
	maskDistance = 0b00111111

	maxLoadFactor = 0.8
)

var jumpDistances = [64]uint16{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	21, 28, 36, 45, 55, 66, 78, 91, 105, 120, 136, 153, 171, 190, 210, 231,
	253, 276, 300, 325, 351, 378, 406, 435, 465, 496, 528, 561, 595, 630,
	666, 703, 741, 780, 820, 861, 903, 946, 990, 1035, 1081, 1128, 1176,
	1225, 1275, 1326, 1378, 1431,
}

func np2(x uint64) uint64  { return 1 << (uint(bits.Len64(x-1)) % 64) }
func log2(x uint64) uint64 { return uint64(bits.Len64(x)-1) % 64 }

type slot[K Key] struct {
	k K
	v uint32
	m uint8
}

type slotIndex[K Key] struct {
	s *slot[K]
	i uint64
}

func (si slotIndex[K]) slot() slot[K]     { return *si.s }
func (si slotIndex[K]) setSlot(s slot[K]) { *si.s = s }
func (si slotIndex[K]) meta() uint8       { return si.s.m }
func (si slotIndex[K]) setMeta(m uint8)   { si.s.m = m }
func (si slotIndex[K]) setJump(ji uint8)  { si.setMeta(si.meta()&^maskDistance | ji) }
func (si slotIndex[K]) hasJump() bool     { return si.meta()&maskDistance != 0 }
func (si slotIndex[K]) jump() uint8       { return si.meta() & maskDistance }

// T maps keys to uint32 values. The zero value is an empty table that
// digests keys with xxh3 over their sink serialization; use SetFactory
// to digest with one of the sinkhash algorithms instead.
type T[K Key] struct {
	slots []slot[K]
	mask  uint64
	shift uint64
	eles  int
	full  int

	fac  *sinkhash.Factory
	keyb keyBuf
}

type keyBuf struct {
	b []byte
}

func (k *keyBuf) Write(p []byte) { k.b = append(k.b, p...) }

// SetFactory selects the digest algorithm. It must be called before the
// first insert: digests already placed cannot be rehashed.
func (t *T[K]) SetFactory(f sinkhash.Factory) {
	if t.eles > 0 {
		panic("hashtbl: SetFactory after insert")
	}
	t.fac = &f
}

func (t *T[K]) digest(k K) uint64 {
	if t.fac != nil {
		return t.fac.Hash(k).Uint64()
	}
	t.keyb.b = t.keyb.b[:0]
	k.AppendTo(sink.New(&t.keyb))
	return xxh3.Hash(t.keyb.b)
}

func (t *T[K]) Len() int { return t.eles }

func (t *T[K]) Size() uint64 {
	return 0 +
		/* slots */ 24 + uint64(unsafe.Sizeof(slot[K]{}))*uint64(len(t.slots)) +
		/* mask  */ 8 +
		/* shift */ 8 +
		/* eles  */ 8 +
		/* full  */ 8 +
		/* fac   */ 8 +
		/* keyb  */ 24 + uint64(cap(t.keyb.b)) +
		0
}

func (t *T[K]) Load() float64 {
	return float64(t.eles) / float64(t.mask+1)
}

func (t *T[K]) getSlotIndex(i uint64) slotIndex[K] {
	return slotIndex[K]{
		s: &t.slots[i],
		i: i,
	}
}

func (t *T[K]) next(si slotIndex[K], ji uint8) slotIndex[K] {
	next := (si.i + uint64(jumpDistances[ji])) & t.mask
	return t.getSlotIndex(next)
}

func (t *T[K]) index(k K) uint64 {
	return (11400714819323198485 * t.digest(k)) >> (t.shift % 64)
}

func (t *T[K]) Find(k K) (uint32, bool) {
	if len(t.slots) == 0 {
		return 0, false
	}
	si := t.getSlotIndex(t.index(k))
	if si.meta()&maskHit != flagsHit {
		return 0, false
	}
	for {
		if s := si.slot(); s.k == k {
			return s.v, true
		}
		ji := si.jump()
		if ji == 0 {
			return 0, false
		}
		si = t.next(si, ji)
	}
}

func (t *T[K]) Insert(k K, v uint32) (uint32, bool) {
	if t.isFull() {
		t.grow()
	}
	si := t.getSlotIndex(t.index(k))
	if si.meta()&maskHit != flagsHit {
		return t.insertDirectHit(si, k, v)
	}
	for {
		if s := si.slot(); s.k == k {
			return s.v, true
		}
		ji := si.jump()
		if ji == 0 {
			return t.insertNew(si, k, v)
		}
		si = t.next(si, ji)
	}
}

func (t *T[K]) insertDirectHit(si slotIndex[K], k K, v uint32) (uint32, bool) {
	if si.meta() == flagsEmpty {
		si.setSlot(slot[K]{k, v, flagsHit})
		t.eles++
		return v, false
	}

	parent := t.findParent(si)
	free, ji := t.findFree(parent)
	if ji == 0 {
		t.grow()
		return t.Insert(k, v)
	}

	for it := si; ; {
		free.setSlot(it.slot())
		parent.setJump(ji)
		free.setMeta(flagsList)

		if !it.hasJump() {
			it.setMeta(flagsEmpty)
			break
		}

		next := t.next(it, it.jump())
		it.setMeta(flagsEmpty)
		si.setMeta(flagsReserved)
		it, parent = next, free

		free, ji = t.findFree(free)
		if ji == 0 {
			t.grow()
			return t.Insert(k, v)
		}
	}

	si.setSlot(slot[K]{k, v, flagsHit})
	t.eles++
	return v, false
}

func (t *T[K]) insertNew(si slotIndex[K], k K, v uint32) (uint32, bool) {
	free, ji := t.findFree(si)
	if ji == 0 {
		t.grow()
		return t.Insert(k, v)
	}

	free.setSlot(slot[K]{k, v, flagsList})
	si.setJump(ji)
	t.eles++
	return v, false
}

func (t *T[K]) isFull() bool {
	return t.eles >= t.full
}

func (t *T[K]) findDirectHit(si slotIndex[K]) slotIndex[K] {
	return t.getSlotIndex(t.index(si.slot().k))
}

func (t *T[K]) findParent(si slotIndex[K]) slotIndex[K] {
	parent := t.findDirectHit(si)
	for {
		next := t.next(parent, parent.jump())
		if next == si {
			return parent
		}
		parent = next
	}
}

func (t *T[K]) findFree(si slotIndex[K]) (slotIndex[K], uint8) {
	for ji := uint8(1); ji < uint8(len(jumpDistances)); ji++ {
		if si := t.next(si, ji); si.meta() == flagsEmpty {
			return si, ji
		}
	}
	return slotIndex[K]{}, 0
}

func (t *T[K]) grow() {
	nslots := max(10, 2*t.mask)
	nslots = max(nslots, uint64(math.Ceil(float64(t.eles)/maxLoadFactor)))
	nslots = max(128, np2(nslots))

	slots := t.slots
	t.shift = 64 - log2(nslots)
	t.slots = make([]slot[K], nslots)
	t.mask = nslots - 1
	t.eles = 0
	t.full = int(float64(nslots) * maxLoadFactor)

	for i := range slots {
		s := &slots[i]
		if m := s.m; m != flagsEmpty && m != flagsReserved {
			t.Insert(s.k, s.v)
		}
	}
}
