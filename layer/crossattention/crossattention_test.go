package crossattention

import "testing"

import "github.com/stretchr/testify/require"

func TestPlainAttention(t *testing.T) {
	l := MustNew(4, 2)
	require.Equal(t, 8, l.Inputs())
	c := l.Lay()
	// head 0: positions 0..3, head 1: positions 4..7
	c.Put(0, true)
	c.Put(1, true)
	c.Put(3, true)
	c.Put(4, true)

	// position 0 attends odd positions 1 and 3, both set
	require.Equal(t, uint32(2<<1|1), c.Feature(0))
	// position 1 attends even positions 0 and 2, only 0 set
	require.Equal(t, uint32(1<<1|1), c.Feature(1))
	// position 2 is unset
	require.Equal(t, uint32(0), c.Feature(2))
	// head 1 doesn't see head 0
	require.Equal(t, uint32(1), c.Feature(4))
}

func TestMaskedAttention(t *testing.T) {
	c := MustNew2(4, 1).Lay()
	for i := 0; i < 4; i++ {
		c.Put(i, true)
	}
	// position 0 can only attend earlier positions
	require.Equal(t, uint32(1), c.Feature(0))
	// position 3 attends position 0 and 2
	require.Equal(t, uint32(2<<1|1), c.Feature(3))
}

func TestQKVAttention(t *testing.T) {
	c := MustNew3(6, 1).Lay()
	// triple 0: q=1 k=1 v=1, triple 1: q=0 k=1 v=0
	c.Put(0, true)
	c.Put(1, true)
	c.Put(2, true)
	c.Put(4, true)

	// query 0 is true, matches triple 0 value only
	require.Equal(t, uint32(1<<1|1), c.Feature(0))
	// query 3 is false, matches triple 1 value only
	require.Equal(t, uint32(1<<1), c.Feature(3))
	// keys pass through
	require.Equal(t, uint32(1), c.Feature(1))
	require.Equal(t, uint32(0), c.Feature(5))

	masked := MustNew4(6, 1).Lay()
	for i := 0; i < 6; i++ {
		masked.Put(i, i != 3)
	}
	// query 0 sees only its own triple under masking
	require.Equal(t, uint32(1<<1|1), masked.Feature(0))
}

func TestNewValidates(t *testing.T) {
	_, err := New(0, 1)
	require.Error(t, err)
	require.Panics(t, func() { MustNew4(1, 0) })
}
