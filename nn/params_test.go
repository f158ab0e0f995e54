package nn

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgeml/stylegen/ml"
)

func TestRegisterAndGet(t *testing.T) {
	p := NewParams()
	p.Register(rand.NewPCG(0, 1),
		ParamSpec{Name: "layer.weight", Shape: []int{4, 2}, Init: Normal(1)},
		ParamSpec{Name: "layer.bias", Shape: []int{4}, Init: Ones()},
		ParamSpec{Name: "layer.scale", Shape: []int{4}, Init: Zeros()},
	)

	require.Equal(t, 3, p.Len())
	require.Equal(t, []string{"layer.bias", "layer.scale", "layer.weight"}, p.Names())

	bias := p.Get("layer.bias")
	for _, v := range bias.Data {
		require.Equal(t, float32(1), v)
	}
	scale := p.Get("layer.scale")
	for _, v := range scale.Data {
		require.Equal(t, float32(0), v)
	}

	weight := p.Get("layer.weight")
	var nonzero bool
	for _, v := range weight.Data {
		if v != 0 {
			nonzero = true
		}
	}
	require.True(t, nonzero, "normal init left the weight at zero")
}

func TestRegisterDuplicatePanics(t *testing.T) {
	p := NewParams()
	p.Register(rand.NewPCG(0, 1), ParamSpec{Name: "w", Shape: []int{1}})
	require.Panics(t, func() {
		p.Register(rand.NewPCG(0, 1), ParamSpec{Name: "w", Shape: []int{1}})
	})
}

func TestGetUnknownPanics(t *testing.T) {
	require.Panics(t, func() { NewParams().Get("missing") })
}

func TestSetKeepsShape(t *testing.T) {
	p := NewParams()
	p.Register(rand.NewPCG(0, 1), ParamSpec{Name: "w", Shape: []int{2, 2}})

	p.Set("w", ml.FromSlice([]float32{1, 2, 3, 4}, 2, 2))
	require.Equal(t, float32(4), p.Get("w").Data[3])

	require.Panics(t, func() { p.Set("w", ml.New(3)) })
	require.Panics(t, func() { p.Set("missing", ml.New(4)) })
}

func TestNormalInitDeterministicPerSeed(t *testing.T) {
	a := make([]float32, 64)
	b := make([]float32, 64)
	Normal(1)(rand.NewPCG(0, 7), a)
	Normal(1)(rand.NewPCG(0, 7), b)
	require.Equal(t, a, b)

	c := make([]float32, 64)
	Normal(1)(rand.NewPCG(0, 8), c)
	require.NotEqual(t, a, c)
}

func TestGaussianSource(t *testing.T) {
	src := NewGaussianSource(3)
	a := make([]float32, 128)
	b := make([]float32, 128)
	src.Fill(a)
	src.Fill(b)
	require.NotEqual(t, a, b, "draws must be fresh on every call")

	again := NewGaussianSource(3)
	c := make([]float32, 128)
	again.Fill(c)
	require.Equal(t, a, c, "same seed must replay the same draws")
}

func TestZeroSource(t *testing.T) {
	dst := []float32{1, 2, 3}
	ZeroSource{}.Fill(dst)
	require.Equal(t, []float32{0, 0, 0}, dst)
}
