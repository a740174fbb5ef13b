// Package hashset is an insertion-ordered set on top of hashtbl: every
// key gets a stable small index, the index recovers the key.
package hashset

import (
	"unsafe"

	"github.com/histdb/sinkhash"
	"github.com/histdb/sinkhash/hashtbl"
)

// T is a set of keys. The zero value is empty and ready to use.
type T[K hashtbl.Key] struct {
	set  hashtbl.T[K]
	list []K
}

// SetFactory selects the digest algorithm for the backing table. It
// must be called before the first insert.
func (t *T[K]) SetFactory(f sinkhash.Factory) { t.set.SetFactory(f) }

func (t *T[K]) Len() int { return len(t.list) }

func (t *T[K]) Size() uint64 {
	return 0 +
		/* set  */ t.set.Size() +
		/* list */ 24 + uint64(unsafe.Sizeof(*new(K)))*uint64(len(t.list)) +
		0
}

// Insert adds k to the set and reports its index and whether it was
// already present.
func (t *T[K]) Insert(k K) (uint32, bool) {
	idx, ok := t.set.Insert(k, uint32(len(t.list)))
	if !ok {
		t.list = append(t.list, k)
	}
	return idx, ok
}

// Find reports the index assigned to k, if any.
func (t *T[K]) Find(k K) (uint32, bool) { return t.set.Find(k) }

// Key returns the key inserted at index idx.
func (t *T[K]) Key(idx uint32) K { return t.list[idx] }

// Keys returns the keys in insertion order. The slice aliases the
// set's storage.
func (t *T[K]) Keys() []K { return t.list }
