package full

import "testing"

import "github.com/stretchr/testify/require"

func TestFeaturePacksBits(t *testing.T) {
	l := MustNew(8, 4, 4)
	require.Equal(t, 8, l.Inputs())
	require.Equal(t, 2, l.Outputs())

	c := l.Lay()
	c.Put(0, true)
	c.Put(3, true)
	c.Put(5, true)
	require.Equal(t, uint32(0b1001), c.Feature(0))
	require.Equal(t, uint32(0b0100), c.Feature(1))
	require.Equal(t, uint32(0), c.Feature(2), "out of range features are zero")
	require.False(t, c.Disregard(0))
}

func TestNewValidates(t *testing.T) {
	_, err := New(0, 1, 1)
	require.Error(t, err)
	_, err = New(4, 1, 0)
	require.Error(t, err)
	_, err = New(4, 1, 5)
	require.Error(t, err)
	require.Panics(t, func() { MustNew(2, 1, 33) })
}
