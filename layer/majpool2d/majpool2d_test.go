package majpool2d

import "testing"

import "github.com/stretchr/testify/require"

func TestMajorityPerCell(t *testing.T) {
	// 2x1 cells of 2x2 sub-blocks, 2 repeats: grid is 4 wide, 2 high
	l := MustNew(2, 1, 2, 2, 2)
	require.Equal(t, 16, l.Inputs())
	require.Equal(t, 2, l.Outputs())

	c := l.Lay()
	// repeat 0, left cell: 3 of 4 set
	c.Put(0, true)
	c.Put(1, true)
	c.Put(4, true)
	// repeat 1, right cell: 4 of 4 set
	for _, pos := range []int{8 + 2, 8 + 3, 8 + 6, 8 + 7} {
		c.Put(pos, true)
	}
	require.Equal(t, uint32(0b01), c.Feature(0))
	require.Equal(t, uint32(0b10), c.Feature(1))
	require.Equal(t, c.Feature(0), c.Feature(2), "features wrap")
}

func TestTiePoolsToFalse(t *testing.T) {
	c := MustNew(1, 1, 2, 1, 1).Lay()
	c.Put(0, true)
	require.Equal(t, uint32(0), c.Feature(0))
}

func TestDisregard(t *testing.T) {
	c := MustNew(1, 1, 3, 1, 1).Lay()
	// others: true, true => n can't change the majority
	c.Put(1, true)
	c.Put(2, true)
	require.True(t, c.Disregard(0))

	// others: true, false => n decides
	c.Put(2, false)
	require.False(t, c.Disregard(0))
}

func TestNewValidates(t *testing.T) {
	_, err := New(0, 1, 1, 1, 1)
	require.Error(t, err)
	_, err = New(1, 1, 1, 1, 33)
	require.Error(t, err)
}
