package stylegan

import (
	"fmt"

	"github.com/forgeml/stylegen/ml"
	"github.com/forgeml/stylegen/nn"
)

// NoiseInjector adds spatially independent gaussian noise, scaled by a
// learned per-channel magnitude, to a feature map. The magnitude
// starts at zero, so noise contributes nothing until training moves it.
type NoiseInjector struct {
	prefix   string
	channels int
	src      nn.NoiseSource
}

// NewNoiseInjector builds an injector drawing from src.
func NewNoiseInjector(prefix string, channels int, src nn.NoiseSource) *NoiseInjector {
	return &NoiseInjector{prefix: prefix, channels: channels, src: src}
}

// Specs describes the per-channel noise magnitude.
func (ni *NoiseInjector) Specs() []nn.ParamSpec {
	return []nn.ParamSpec{
		{Name: ni.prefix + ".scale", Shape: []int{ni.channels}, Init: nn.Zeros()},
	}
}

// Forward draws one fresh single-channel noise field per sample on
// every call and adds it, broadcast across channels, to x.
func (ni *NoiseInjector) Forward(p *nn.Params, x *ml.Tensor) *ml.Tensor {
	batch, c, h, w := x.Dim(0), x.Dim(1), x.Dim(2), x.Dim(3)
	if c != ni.channels {
		panic(fmt.Sprintf("stylegan: %s: input has %d channels, want %d", ni.prefix, c, ni.channels))
	}
	scale := p.Get(ni.prefix + ".scale")

	out := x.Clone()
	field := make([]float32, h*w)
	for b := 0; b < batch; b++ {
		ni.src.Fill(field)
		for ch := 0; ch < c; ch++ {
			s := scale.Data[ch]
			if s == 0 {
				continue
			}
			dst := out.Data[(b*c+ch)*h*w : (b*c+ch+1)*h*w]
			for j, v := range field {
				dst[j] += s * v
			}
		}
	}
	return out
}
