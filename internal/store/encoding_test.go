package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeEmbeddingRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		vec  []float32
	}{
		{"small embedding", []float32{1.234, -5.678, 0.0, 999.999, -0.001}},
		{"production 384-dim", makeTestVector(384)},
		{"single value", []float32{1.0}},
		{"empty embedding", []float32{}},
		{
			name: "special float values",
			vec: []float32{
				float32(math.NaN()),
				float32(math.Inf(1)),
				float32(math.Inf(-1)),
				0.0,
				-0.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serialized := serializeEmbedding(tt.vec)
			deserialized, err := deserializeEmbedding(serialized)
			require.NoError(t, err)
			require.Equal(t, len(tt.vec), len(deserialized))

			for i := range tt.vec {
				if math.IsNaN(float64(tt.vec[i])) {
					assert.True(t, math.IsNaN(float64(deserialized[i])))
				} else {
					assert.Equal(t, tt.vec[i], deserialized[i])
				}
			}
		})
	}
}

func TestSerializeEmbeddingByteOrder(t *testing.T) {
	serialized := serializeEmbedding([]float32{1.0})
	// IEEE 754 representation of 1.0 is 0x3F800000, little-endian.
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, serialized)
}

func TestDeserializeEmbeddingInvalidLength(t *testing.T) {
	_, err := deserializeEmbedding([]byte{0x00, 0x00, 0x80})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid embedding data")
}

func TestDeserializeEmbeddingEmptyBytes(t *testing.T) {
	result, err := deserializeEmbedding([]byte{})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func makeTestVector(dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = float32(i) * 0.001
	}
	return v
}
