package hashtron

import "bytes"
import "testing"

import "github.com/mailru/easyjson"
import "github.com/stretchr/testify/require"

func TestNewRejectsZeroModulo(t *testing.T) {
	_, err := New([][2]uint32{{1, 0}}, 1)
	require.Error(t, err)
	_, err = New(nil, 17)
	require.Error(t, err)
}

func TestNewRandomProgram(t *testing.T) {
	h, err := New(nil, 0)
	require.NoError(t, err)
	require.Equal(t, 1, h.Len())
	require.Equal(t, byte(1), h.Bits())
	_, max := h.Get(0)
	require.Equal(t, uint32(2), max)
}

func TestForwardNegate(t *testing.T) {
	h, err := New([][2]uint32{{12345, 1000}, {77, 2}}, 3)
	require.NoError(t, err)
	for cmd := uint32(0); cmd < 100; cmd++ {
		plain := h.Forward(cmd, false)
		neg := h.Forward(cmd, true)
		require.Equal(t, uint16(7), plain^neg, "negation flips every output bit")
		require.Less(t, plain, uint16(8))
	}
}

func TestForwardEmpty(t *testing.T) {
	var h Hashtron
	require.Equal(t, uint16(0), h.Forward(5, true))
}

func TestPush(t *testing.T) {
	h, err := New([][2]uint32{{1, 2}}, 1)
	require.NoError(t, err)
	h.Push([2]uint32{3, 4})
	s, max := h.Get(0)
	require.Equal(t, uint32(3), s)
	require.Equal(t, uint32(4), max)
	require.Equal(t, [][2]uint32{{3, 4}, {1, 2}}, h.Program())
}

func TestJsonRoundTrip(t *testing.T) {
	h, err := New([][2]uint32{{4000000000, 97}, {5, 2}}, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, h.WriteJson(&buf))
	require.Equal(t, `{"bits":2,"program":[[4000000000,97],[5,2]]}`, buf.String())

	var back Hashtron
	require.NoError(t, back.ReadJson(&buf))
	require.Equal(t, h.Program(), back.Program())
	require.Equal(t, h.Bits(), back.Bits())
	for cmd := uint32(0); cmd < 50; cmd++ {
		require.Equal(t, h.Forward(cmd, false), back.Forward(cmd, false))
	}
}

func TestJsonRejectsZeroModulo(t *testing.T) {
	var h Hashtron
	require.Error(t, easyjson.Unmarshal([]byte(`{"bits":1,"program":[[1,0]]}`), &h))
}

func FuzzHashtronSerialize(f *testing.F) {
	f.Add([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	f.Fuzz(func(t *testing.T, buffer []byte) {
		var program [][2]uint32
		for i := 0; i+8 <= len(buffer); i += 8 {
			s := uint32(buffer[i]) | uint32(buffer[i+1])<<8 | uint32(buffer[i+2])<<16 | uint32(buffer[i+3])<<24
			m := uint32(buffer[i+4]) | uint32(buffer[i+5])<<8 | uint32(buffer[i+6])<<16 | uint32(buffer[i+7])<<24
			program = append(program, [2]uint32{s, m | 1})
		}
		if len(program) == 0 {
			return
		}
		tron, err := New(program, 1)
		require.NoError(t, err)
		data, err := easyjson.Marshal(tron)
		require.NoError(t, err)
		var back Hashtron
		require.NoError(t, easyjson.Unmarshal(data, &back))
		require.Equal(t, program, back.Program())
	})
}
