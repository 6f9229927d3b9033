package testutil

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/atlasdesk/atlasdesk/internal/knowledge"
)

// FakeEmbedder produces deterministic unit vectors from input text, so
// tests get stable similarity scores without a network call. The same text
// always maps to the same vector; different texts map to near-orthogonal
// vectors.
type FakeEmbedder struct{}

// Embed returns a unit vector seeded by the FNV hash of text.
func (FakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return DeterministicVector(text), nil
}

// DeterministicVector builds a normalized vector of the knowledge schema's
// dimensionality, seeded by the text's FNV-1a hash.
func DeterministicVector(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vec := make([]float32, knowledge.VectorDimension)
	var norm float64
	for i := range vec {
		v := rng.Float64()*2 - 1
		vec[i] = float32(v)
		norm += v * v
	}

	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
