package stylegan

import (
	"github.com/forgeml/stylegen/ml"
	"github.com/forgeml/stylegen/nn"
)

// ToRGB projects a feature map to a 3-channel image-space
// contribution: a pointwise modulated convolution with demodulation
// off and unit gain.
type ToRGB struct {
	conv *ModulatedConv2d
}

// NewToRGB builds the projection from in channels.
func NewToRGB(prefix string, in int) *ToRGB {
	return &ToRGB{conv: NewModulatedConv2d(prefix, in, 3, true, false, 1)}
}

// Specs describes the projection's kernel and bias.
func (r *ToRGB) Specs() []nn.ParamSpec {
	return r.conv.Specs()
}

// Forward maps x [B, in, H, W] and modulation factors [B, in] to an
// RGB contribution [B, 3, H, W].
func (r *ToRGB) Forward(p *nn.Params, x, mod *ml.Tensor) *ml.Tensor {
	return r.conv.Forward(p, x, mod)
}
