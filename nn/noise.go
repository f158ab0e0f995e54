package nn

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// NoiseSource yields standard-normal draws for per-pixel noise
// injection. It is injectable so tests can pin the draws.
type NoiseSource interface {
	Fill(dst []float32)
}

// GaussianSource draws from N(0, 1). Not safe for concurrent use; give
// each forward pass its own source.
type GaussianSource struct {
	dist distuv.Normal
}

// NewGaussianSource seeds a fresh standard-normal source.
func NewGaussianSource(seed uint64) *GaussianSource {
	return &GaussianSource{dist: distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, 0)}}
}

// Fill overwrites dst with fresh draws.
func (g *GaussianSource) Fill(dst []float32) {
	for i := range dst {
		dst[i] = float32(g.dist.Rand())
	}
}

// ZeroSource pins every draw to zero, disabling noise injection.
type ZeroSource struct{}

// Fill zeroes dst.
func (ZeroSource) Fill(dst []float32) {
	for i := range dst {
		dst[i] = 0
	}
}
