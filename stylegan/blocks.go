package stylegan

import (
	"fmt"
	"math"

	"github.com/forgeml/stylegen/ml"
	"github.com/forgeml/stylegen/nn"
)

// leakySlope is the negative slope of the leaky rectifier used after
// every synthesis convolution.
const leakySlope = 0.2

// initialSize is the spatial size of the learned constant input.
const initialSize = 4

// InitialBlock is the 4x4 root of the synthesis chain. It owns the
// learned constant feature map and produces the first feature map and
// RGB contribution.
type InitialBlock struct {
	prefix string
	in     int
	out    int

	style1 *StyleAffine
	conv1  *ModulatedConv2d
	noise1 *NoiseInjector
	style2 *StyleAffine
	rgb    *ToRGB
}

// NewInitialBlock builds the 4x4 stage. The noise source is shared by
// the block's injectors.
func NewInitialBlock(prefix string, styleDim, in, out int, src nn.NoiseSource) *InitialBlock {
	return &InitialBlock{
		prefix: prefix,
		in:     in,
		out:    out,
		style1: NewStyleAffine(prefix+".style1", styleDim, in),
		conv1:  NewModulatedConv2d(prefix+".conv1", in, out, false, true, math.Sqrt2),
		noise1: NewNoiseInjector(prefix+".noise1", out, src),
		style2: NewStyleAffine(prefix+".style2", styleDim, out),
		rgb:    NewToRGB(prefix+".rgb", out),
	}
}

// Specs aggregates the block's parameter descriptors, including the
// learned constant.
func (blk *InitialBlock) Specs() []nn.ParamSpec {
	specs := []nn.ParamSpec{
		{Name: blk.prefix + ".const", Shape: []int{blk.in, initialSize, initialSize}, Init: nn.Normal(1)},
	}
	specs = append(specs, blk.style1.Specs()...)
	specs = append(specs, blk.conv1.Specs()...)
	specs = append(specs, blk.noise1.Specs()...)
	specs = append(specs, blk.style2.Specs()...)
	specs = append(specs, blk.rgb.Specs()...)
	return specs
}

// Forward synthesizes the 4x4 stage for style vectors [B, styleDim],
// returning the feature map [B, out, 4, 4] and the RGB contribution
// [B, 3, 4, 4].
func (blk *InitialBlock) Forward(p *nn.Params, style *ml.Tensor) (*ml.Tensor, *ml.Tensor) {
	batch := style.Dim(0)
	cst := p.Get(blk.prefix + ".const")

	x := ml.New(batch, blk.in, initialSize, initialSize)
	for b := 0; b < batch; b++ {
		copy(x.Data[b*len(cst.Data):], cst.Data)
	}

	x = blk.conv1.Forward(p, x, blk.style1.Forward(p, style))
	x = blk.noise1.Forward(p, x)
	x = ml.LeakyReLU(x, leakySlope)

	return x, blk.rgb.Forward(p, x, blk.style2.Forward(p, style))
}

// UpsampleBlock doubles the working resolution and accumulates its RGB
// contribution onto the upsampled incoming image (skip architecture:
// every resolution's contribution is summed, never overwritten).
type UpsampleBlock struct {
	prefix string
	in     int
	out    int

	up     Upsample
	style1 *StyleAffine
	conv1  *ModulatedConv2d
	noise1 *NoiseInjector
	style2 *StyleAffine
	conv2  *ModulatedConv2d
	noise2 *NoiseInjector
	style3 *StyleAffine
	rgb    *ToRGB
	skip   Upsample
}

// NewUpsampleBlock builds one doubling stage from in to out channels.
func NewUpsampleBlock(prefix string, styleDim, in, out int, src nn.NoiseSource) *UpsampleBlock {
	return &UpsampleBlock{
		prefix: prefix,
		in:     in,
		out:    out,
		style1: NewStyleAffine(prefix+".style1", styleDim, in),
		conv1:  NewModulatedConv2d(prefix+".conv1", in, out, false, true, math.Sqrt2),
		noise1: NewNoiseInjector(prefix+".noise1", out, src),
		style2: NewStyleAffine(prefix+".style2", styleDim, out),
		conv2:  NewModulatedConv2d(prefix+".conv2", out, out, false, true, math.Sqrt2),
		noise2: NewNoiseInjector(prefix+".noise2", out, src),
		style3: NewStyleAffine(prefix+".style3", styleDim, out),
		rgb:    NewToRGB(prefix+".rgb", out),
	}
}

// Specs aggregates the block's parameter descriptors.
func (blk *UpsampleBlock) Specs() []nn.ParamSpec {
	var specs []nn.ParamSpec
	specs = append(specs, blk.style1.Specs()...)
	specs = append(specs, blk.conv1.Specs()...)
	specs = append(specs, blk.noise1.Specs()...)
	specs = append(specs, blk.style2.Specs()...)
	specs = append(specs, blk.conv2.Specs()...)
	specs = append(specs, blk.noise2.Specs()...)
	specs = append(specs, blk.style3.Specs()...)
	specs = append(specs, blk.rgb.Specs()...)
	return specs
}

// Forward consumes the previous stage's feature map [B, in, H, W] and
// running RGB image [B, 3, H, W] and returns both at twice the
// resolution.
func (blk *UpsampleBlock) Forward(p *nn.Params, x, rgb, style *ml.Tensor) (*ml.Tensor, *ml.Tensor) {
	if x.Dim(0) != rgb.Dim(0) || x.Dim(2) != rgb.Dim(2) || x.Dim(3) != rgb.Dim(3) {
		panic(fmt.Sprintf("stylegan: %s: feature map %v does not match rgb %v", blk.prefix, x.Shape, rgb.Shape))
	}

	h := blk.up.Forward(x)
	h = blk.conv1.Forward(p, h, blk.style1.Forward(p, style))
	h = blk.noise1.Forward(p, h)
	h = ml.LeakyReLU(h, leakySlope)

	h = blk.conv2.Forward(p, h, blk.style2.Forward(p, style))
	h = blk.noise2.Forward(p, h)
	h = ml.LeakyReLU(h, leakySlope)

	contrib := blk.rgb.Forward(p, h, blk.style3.Forward(p, style))
	return h, ml.Add(blk.skip.Forward(rgb), contrib)
}
