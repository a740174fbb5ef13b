package num

import (
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"
)

func TestU128Bytes(t *testing.T) {
	rng := mwc.Rand()
	for i := 0; i < 100; i++ {
		u := U128{Lo: rng.Uint64(), Hi: rng.Uint64()}
		assert.Equal(t, U128FromBytes16(u.Bytes16()), u)
	}

	u := U128{Lo: 0x0807060504030201, Hi: 0x100f0e0d0c0b0a09}
	assert.Equal(t, u.Bytes16(), [16]byte{
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
	})
}

func TestU128Shifts(t *testing.T) {
	u := U128{Lo: 1}
	assert.Equal(t, u.Lsh(0), u)
	assert.Equal(t, u.Lsh(1), U128{Lo: 2})
	assert.Equal(t, u.Lsh(64), U128{Hi: 1})
	assert.Equal(t, u.Lsh(127), U128{Hi: 1 << 63})
	assert.Equal(t, u.Lsh(128), U128{})

	v := U128{Hi: 1 << 63}
	assert.Equal(t, v.Rsh(0), v)
	assert.Equal(t, v.Rsh(63), U128{Hi: 1})
	assert.Equal(t, v.Rsh(64), U128{Lo: 1 << 63})
	assert.Equal(t, v.Rsh(127), U128{Lo: 1})
	assert.Equal(t, v.Rsh(128), U128{})

	rng := mwc.Rand()
	for i := 0; i < 100; i++ {
		u := U128{Lo: rng.Uint64(), Hi: rng.Uint64()}
		n := uint(rng.Uint64n(127) + 1)
		assert.Equal(t, u.Lsh(n).Rsh(n).Lsh(n), u.Lsh(n))
	}
}

func TestU128Bitwise(t *testing.T) {
	a := U128{Lo: 0xff00ff00ff00ff00, Hi: 0x0f0f0f0f0f0f0f0f}
	b := U128{Lo: 0xffff0000ffff0000, Hi: 0x00ff00ff00ff00ff}

	assert.Equal(t, a.And(b), U128{Lo: 0xff000000ff000000, Hi: 0x000f000f000f000f})
	assert.Equal(t, a.Or(b), U128{Lo: 0xffffff00ffffff00, Hi: 0x0fff0fff0fff0fff})
	assert.Equal(t, a.Xor(b).Xor(b), a)
}

func TestU128String(t *testing.T) {
	u := U128{Lo: 0x78912b704e4a141e, Hi: 0xd228cb69101a8caf}
	assert.Equal(t, u.String(), "d228cb69101a8caf78912b704e4a141e")
	assert.Equal(t, u.Uint64(), 0x78912b704e4a141e)
	assert.Equal(t, u.Uint32(), 0x4e4a141e)
	assert.Equal(t, u.Digest(), uint64(0x78912b704e4a141e^0xd228cb69101a8caf))
}

func TestDigestValues(t *testing.T) {
	assert.Equal(t, U32(5).Digest(), 5)
	assert.That(t, U32(5).Equal(5))
	assert.That(t, !U32(5).Equal(6))

	assert.Equal(t, U64(5).Digest(), 5)
	assert.That(t, U64(5).Equal(5))
	assert.That(t, !U64(5).Equal(6))
}

func TestSetter16(t *testing.T) {
	var s Setter16 = new(U128)
	s.SetBytes16([16]byte{1})
	assert.Equal(t, *s.(*U128), U128{Lo: 1})
}
