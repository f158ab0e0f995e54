package stylegan

import (
	"fmt"
	"math"

	"github.com/forgeml/stylegen/ml"
	"github.com/forgeml/stylegen/nn"
)

// demodEps keeps the demodulation divide finite when a sample's
// modulated weights for an output channel are all (near) zero.
const demodEps = 1e-8

// ModulatedConv2d is a style-modulated, optionally weight-demodulated
// 2D convolution in which every batch sample convolves with its own
// weight tensor. Demodulation renormalizes each output channel's
// receptive field to unit energy, which is what replaces instance
// normalization in this architecture.
type ModulatedConv2d struct {
	prefix string
	in     int
	out    int
	ksize  int
	demod  bool
	scale  float32
}

// NewModulatedConv2d builds the layer. Pointwise selects a 1x1 kernel
// instead of 3x3. The equalized-learning-rate constant
// gain*sqrt(1/(in*k²)) is applied to the raw weights at use time.
func NewModulatedConv2d(prefix string, in, out int, pointwise, demod bool, gain float64) *ModulatedConv2d {
	k := 3
	if pointwise {
		k = 1
	}
	return &ModulatedConv2d{
		prefix: prefix,
		in:     in,
		out:    out,
		ksize:  k,
		demod:  demod,
		scale:  float32(gain * math.Sqrt(1/float64(in*k*k))),
	}
}

// Specs describes the shared kernel and per-output-channel bias.
func (c *ModulatedConv2d) Specs() []nn.ParamSpec {
	return []nn.ParamSpec{
		{Name: c.prefix + ".weight", Shape: []int{c.out, c.in, c.ksize, c.ksize}, Init: nn.Normal(1)},
		{Name: c.prefix + ".bias", Shape: []int{c.out}, Init: nn.Zeros()},
	}
}

// perSampleWeights expands the shared kernel [out, in, k, k] into one
// kernel per sample [B*out, in, k, k]: each sample's input channels are
// scaled by its modulation factors, then (optionally) each output
// channel is demodulated back to unit norm.
func (c *ModulatedConv2d) perSampleWeights(weight, mod *ml.Tensor) *ml.Tensor {
	batch := mod.Dim(0)
	ksq := c.ksize * c.ksize
	perOut := c.in * ksq

	grouped := ml.New(batch*c.out, c.in, c.ksize, c.ksize)
	for b := 0; b < batch; b++ {
		dst := grouped.Data[b*c.out*perOut:]
		for o := 0; o < c.out; o++ {
			for i := 0; i < c.in; i++ {
				m := c.scale * mod.Data[b*c.in+i]
				off := o*perOut + i*ksq
				for j := 0; j < ksq; j++ {
					dst[off+j] = weight.Data[off+j] * m
				}
			}
		}
	}

	if c.demod {
		for bo := 0; bo < batch*c.out; bo++ {
			ws := grouped.Data[bo*perOut : (bo+1)*perOut]
			var sum float64
			for _, v := range ws {
				sum += float64(v) * float64(v)
			}
			inv := float32(1 / math.Sqrt(sum+demodEps))
			for j := range ws {
				ws[j] *= inv
			}
		}
	}
	return grouped
}

// Forward convolves x [B, in, H, W] with per-sample weights derived
// from the modulation factors mod [B, in]. The output keeps the input's
// spatial size.
//
// Rather than looping over the batch, the per-sample kernels run as a
// single grouped convolution: weights reshaped to [B*out, in, k, k],
// input to [1, B*in, H, W], group count B.
func (c *ModulatedConv2d) Forward(p *nn.Params, x, mod *ml.Tensor) *ml.Tensor {
	if x.Rank() != 4 {
		panic(fmt.Sprintf("stylegan: %s: want a rank 4 input, got shape %v", c.prefix, x.Shape))
	}
	if mod.Rank() != 2 {
		panic(fmt.Sprintf("stylegan: %s: want rank 2 modulation factors, got shape %v", c.prefix, mod.Shape))
	}

	batch, h, w := x.Dim(0), x.Dim(2), x.Dim(3)
	if x.Dim(1) != c.in {
		panic(fmt.Sprintf("stylegan: %s: input has %d channels, want %d", c.prefix, x.Dim(1), c.in))
	}
	if mod.Dim(0) != batch || mod.Dim(1) != c.in {
		panic(fmt.Sprintf("stylegan: %s: modulation shape %v does not match input %v", c.prefix, mod.Shape, x.Shape))
	}

	grouped := c.perSampleWeights(p.Get(c.prefix+".weight"), mod)
	flat := x.Reshape(1, batch*c.in, h, w)
	out := ml.Conv2dGrouped(flat, grouped, nil, batch, true).Reshape(batch, c.out, h, w)

	bias := p.Get(c.prefix + ".bias")
	hw := h * w
	for b := 0; b < batch; b++ {
		for o := 0; o < c.out; o++ {
			dst := out.Data[(b*c.out+o)*hw : (b*c.out+o+1)*hw]
			for j := range dst {
				dst[j] += bias.Data[o]
			}
		}
	}
	return out
}
