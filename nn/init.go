package nn

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Normal initializes a buffer with independent draws from N(0, std²).
// Weights stay unit variance at init; the equalized-learning-rate
// scale is applied at use time instead.
func Normal(std float64) Initializer {
	return func(src rand.Source, dst []float32) {
		dist := distuv.Normal{Mu: 0, Sigma: std, Src: src}
		for i := range dst {
			dst[i] = float32(dist.Rand())
		}
	}
}

// Zeros leaves a buffer at zero. Noise magnitudes and conv biases
// start here.
func Zeros() Initializer {
	return func(rand.Source, []float32) {}
}

// Ones fills a buffer with ones. Modulation biases start here so a
// zero style projection yields the identity modulation.
func Ones() Initializer {
	return func(_ rand.Source, dst []float32) {
		for i := range dst {
			dst[i] = 1
		}
	}
}
