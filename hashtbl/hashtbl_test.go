package hashtbl

import (
	"testing"
	"time"

	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"

	"github.com/histdb/sinkhash"
	"github.com/histdb/sinkhash/num"
)

func TestTable(t *testing.T) {
	var tb T[num.U64]
	const iters = int(1e5)

	rng := mwc.New(1, 1)
	for i := 0; i < iters; i++ {
		_, ok := tb.Insert(num.U64(rng.Uint64()), uint32(i))
		assert.That(t, !ok)
	}
	assert.Equal(t, tb.Len(), iters)

	rng = mwc.New(1, 1)
	for i := 0; i < iters; i++ {
		n, ok := tb.Find(num.U64(rng.Uint64()))
		assert.That(t, ok)
		assert.Equal(t, i, n)
	}

	rng = mwc.New(1, 1)
	for i := 0; i < iters; i++ {
		n, ok := tb.Insert(num.U64(rng.Uint64()), uint32(i+1))
		assert.That(t, ok)
		assert.Equal(t, i, n)
	}

	assert.Equal(t, tb.Len(), iters)
	assert.That(t, tb.Load() <= maxLoadFactor)
	assert.That(t, tb.Size() > 0)
}

func TestTableU32Keys(t *testing.T) {
	var tb T[num.U32]

	for i := uint32(0); i < 1000; i++ {
		_, ok := tb.Insert(num.U32(i), i)
		assert.That(t, !ok)
	}
	for i := uint32(0); i < 1000; i++ {
		n, ok := tb.Find(num.U32(i))
		assert.That(t, ok)
		assert.Equal(t, n, i)
	}
	assert.Equal(t, tb.Len(), 1000)
}

func TestTableEmpty(t *testing.T) {
	var tb T[num.U64]

	_, ok := tb.Find(5)
	assert.That(t, !ok)
	assert.Equal(t, tb.Len(), 0)
}

func TestTableFactory(t *testing.T) {
	for _, a := range []sinkhash.Algorithm{
		sinkhash.Fnv1a, sinkhash.SpookyV2, sinkhash.Xxh64,
	} {
		f, err := sinkhash.NewFactory(a, 64)
		assert.NoError(t, err)

		var tb T[num.U64]
		tb.SetFactory(f)

		for i := uint64(0); i < 1000; i++ {
			_, ok := tb.Insert(num.U64(i), uint32(i))
			assert.That(t, !ok)
		}
		for i := uint64(0); i < 1000; i++ {
			n, ok := tb.Find(num.U64(i))
			assert.That(t, ok)
			assert.Equal(t, n, uint32(i))
		}
	}
}

func TestTableFactoryLate(t *testing.T) {
	var tb T[num.U64]
	tb.Insert(1, 1)

	f, err := sinkhash.NewFactory(sinkhash.Fnv1a, 64)
	assert.NoError(t, err)

	assert.That(t, panics(func() { tb.SetFactory(f) }))
}

func panics(fn func()) (p bool) {
	defer func() { p = recover() != nil }()
	fn()
	return false
}

func BenchmarkTable(b *testing.B) {
	run := func(b *testing.B, n int) {
		now := time.Now()
		rng := mwc.Rand()

		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			var tb T[num.U64]

			for j := 0; j < n; j++ {
				tb.Insert(num.U64(rng.Uint64()), uint32(j))
			}
		}

		b.ReportMetric(float64(time.Since(now))/float64(n)/float64(b.N), "ns/key")
		b.ReportMetric(float64(n)*float64(b.N)/time.Since(now).Seconds(), "keys/sec")
	}

	b.Run("1e2", func(b *testing.B) { run(b, 1e2) })
	b.Run("1e3", func(b *testing.B) { run(b, 1e3) })
	b.Run("1e4", func(b *testing.B) { run(b, 1e4) })
	b.Run("1e5", func(b *testing.B) { run(b, 1e5) })
}
