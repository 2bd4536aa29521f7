package compress

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	compressible := bytes.Repeat([]byte("vector block "), 512)
	random := make([]byte, 256)
	for i := range random {
		random[i] = byte(i*131 + 7)
	}

	for _, typ := range []Type{None, LZ4, ZSTD} {
		for name, data := range map[string][]byte{
			"compressible": compressible,
			"small":        random,
			"empty":        {},
		} {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				block, err := Encode(data, typ)
				require.NoError(t, err)

				out, err := Decode(block, typ, len(data))
				require.NoError(t, err)
				assert.Equal(t, len(data), len(out))
				assert.True(t, bytes.Equal(data, out))
			})
		}
	}
}

func TestEncode_CompressesRepetitiveData(t *testing.T) {
	data := bytes.Repeat([]byte{0, 0, 128, 63}, 4096)
	for _, typ := range []Type{LZ4, ZSTD} {
		block, err := Encode(data, typ)
		require.NoError(t, err)
		assert.Less(t, len(block), len(data)/2, typ.String())
	}
}

func TestDecode_Corrupt(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3}, LZ4, 0)
	assert.ErrorIs(t, err, ErrCorrupt)

	block, err := Encode(bytes.Repeat([]byte("abcd"), 1024), ZSTD)
	require.NoError(t, err)

	_, err = Decode(block[:len(block)-4], ZSTD, 0)
	assert.ErrorIs(t, err, ErrCorrupt)

	garbled := append([]byte(nil), block...)
	for i := HeaderSize; i < len(garbled); i++ {
		garbled[i] ^= 0xA5
	}
	_, err = Decode(garbled, ZSTD, 0)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDecode_SizeLimit(t *testing.T) {
	data := bytes.Repeat([]byte("abcd"), 1024)

	for _, typ := range []Type{None, LZ4, ZSTD} {
		t.Run(typ.String(), func(t *testing.T) {
			block, err := Encode(data, typ)
			require.NoError(t, err)

			_, err = Decode(block, typ, len(data)-1)
			assert.ErrorIs(t, err, ErrCorrupt)

			// A forged header claiming 4 GiB is rejected before allocating.
			forged := append([]byte(nil), block...)
			binary.LittleEndian.PutUint32(forged[0:], math.MaxUint32)
			_, err = Decode(forged, typ, len(data))
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestParse(t *testing.T) {
	for _, typ := range []Type{None, LZ4, ZSTD} {
		parsed, err := Parse(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}
	_, err := Parse("snappy")
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = Encode([]byte("x"), Type(9))
	assert.ErrorIs(t, err, ErrUnknownType)
}
