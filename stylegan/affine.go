// Package stylegan implements the progressively-upsampling synthesis
// network: style-modulated, weight-demodulated convolutions with noise
// injection and a skip-connected running RGB image.
package stylegan

import (
	"math"

	"github.com/forgeml/stylegen/ml"
	"github.com/forgeml/stylegen/nn"
)

// StyleAffine maps a style vector to per-channel modulation factors
// for one convolution layer. The bias starts at one so a zero style
// projection still yields the identity modulation.
type StyleAffine struct {
	prefix   string
	styleDim int
	channels int
	scale    float32
}

// NewStyleAffine builds a projector from styleDim to channels factors.
func NewStyleAffine(prefix string, styleDim, channels int) *StyleAffine {
	return &StyleAffine{
		prefix:   prefix,
		styleDim: styleDim,
		channels: channels,
		scale:    float32(math.Sqrt(1 / float64(styleDim))),
	}
}

// Specs describes the projector's weight and bias buffers.
func (s *StyleAffine) Specs() []nn.ParamSpec {
	return []nn.ParamSpec{
		{Name: s.prefix + ".weight", Shape: []int{s.channels, s.styleDim}, Init: nn.Normal(1)},
		{Name: s.prefix + ".bias", Shape: []int{s.channels}, Init: nn.Ones()},
	}
}

// Forward projects style vectors [B, styleDim] to modulation factors
// [B, channels].
func (s *StyleAffine) Forward(p *nn.Params, style *ml.Tensor) *ml.Tensor {
	return ml.Linear(style, p.Get(s.prefix+".weight"), p.Get(s.prefix+".bias"), s.scale)
}
