package vectorvalues

import (
	"testing"

	"github.com/hupe1980/vecstream/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Dense(t *testing.T) {
	m, err := Of([]float32{1, 2, 3}, []float32{4, 5, 6})
	require.NoError(t, err)

	assert.Equal(t, model.EncodingFloat32, m.Encoding())
	assert.Equal(t, 3, m.Dimension())
	assert.Equal(t, 2, m.Len())

	it := m.Iterator()
	doc, err := it.NextDoc()
	require.NoError(t, err)
	require.Equal(t, model.DocID(0), doc)

	vec, err := m.VectorValue(doc)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, vec)

	// Returned vectors are copies.
	vec[0] = 99
	again, err := m.VectorValue(doc)
	require.NoError(t, err)
	assert.Equal(t, float32(1), again[0])
}

func TestMemory_Sparse(t *testing.T) {
	m := NewByteMemory(2)
	require.NoError(t, m.Add(2, []byte{1, 2}))
	require.NoError(t, m.Add(5, []byte{3, 4}))
	require.NoError(t, m.Add(9, []byte{5, 6}))

	assert.Equal(t, model.EncodingByte, m.Encoding())
	assert.Equal(t, []model.DocID{2, 5, 9}, drain(t, m.Iterator()))

	vec, err := m.VectorValue(5)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 4}, vec)

	_, err = m.VectorValue(4)
	assert.ErrorIs(t, err, ErrNoVector)
	assert.Equal(t, uint64(3), m.Docs().GetCardinality())
}

func TestMemory_AddErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  model.DocID
		vec  []float32
		err  error
	}{
		{"negative doc", -1, []float32{1, 2}, ErrInvalidDoc},
		{"no more docs", model.NoMoreDocs, []float32{1, 2}, ErrInvalidDoc},
		{"out of order", 3, []float32{1, 2}, ErrDocOrder},
		{"duplicate", 4, []float32{1, 2}, ErrDocOrder},
		{"wrong dimension", 10, []float32{1}, ErrWrongDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewFloatMemory(2)
			require.NoError(t, m.Add(4, []float32{0, 0}))
			assert.ErrorIs(t, m.Add(tt.doc, tt.vec), tt.err)
			assert.Equal(t, 1, m.Len())
		})
	}
}

func TestMemory_IndependentCursors(t *testing.T) {
	m, err := Of([]byte{1}, []byte{2}, []byte{3})
	require.NoError(t, err)

	a := m.Iterator()
	b := m.Iterator()
	_, err = a.NextDoc()
	require.NoError(t, err)
	_, err = a.NextDoc()
	require.NoError(t, err)

	doc, err := b.NextDoc()
	require.NoError(t, err)
	assert.Equal(t, model.DocID(0), doc)
	assert.Equal(t, model.DocID(1), a.DocID())
}

func TestMemory_Empty(t *testing.T) {
	m, err := Of[float32]()
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, drain(t, m.Iterator()))
}

func TestEncodingOf(t *testing.T) {
	assert.Equal(t, model.EncodingFloat32, EncodingOf[float32]())
	assert.Equal(t, model.EncodingByte, EncodingOf[byte]())
}
