package stylegan

import (
	"fmt"
	"math/rand/v2"

	"github.com/forgeml/stylegen/ml"
	"github.com/forgeml/stylegen/nn"
)

// Config describes one synthesis network. Channels[0] is the width of
// the 4x4 stage; every further entry adds a resolution-doubling block.
type Config struct {
	StyleDim int
	Channels []int
}

// Generator chains an InitialBlock and UpsampleBlocks into the full
// synthesis network.
type Generator struct {
	cfg     Config
	initial *InitialBlock
	blocks  []*UpsampleBlock
}

// New validates the config and builds the block chain. The noise
// source is shared by every injector in the chain.
func New(cfg Config, src nn.NoiseSource) (*Generator, error) {
	if cfg.StyleDim <= 0 {
		return nil, fmt.Errorf("stylegan: style dimension must be positive, got %d", cfg.StyleDim)
	}
	if len(cfg.Channels) == 0 {
		return nil, fmt.Errorf("stylegan: channel schedule is empty")
	}
	for i, c := range cfg.Channels {
		if c <= 0 {
			return nil, fmt.Errorf("stylegan: channel count %d at level %d must be positive", c, i)
		}
	}

	g := &Generator{
		cfg:     cfg,
		initial: NewInitialBlock("init", cfg.StyleDim, cfg.Channels[0], cfg.Channels[0], src),
	}
	for i := 1; i < len(cfg.Channels); i++ {
		g.blocks = append(g.blocks, NewUpsampleBlock(fmt.Sprintf("up%d", i), cfg.StyleDim, cfg.Channels[i-1], cfg.Channels[i], src))
	}
	return g, nil
}

// Resolution returns the spatial size of the generated image.
func (g *Generator) Resolution() int {
	return initialSize << (len(g.cfg.Channels) - 1)
}

// Specs aggregates every block's parameter descriptors.
func (g *Generator) Specs() []nn.ParamSpec {
	specs := g.initial.Specs()
	for _, blk := range g.blocks {
		specs = append(specs, blk.Specs()...)
	}
	return specs
}

// Init allocates and initializes a fresh parameter arena for the
// chain.
func (g *Generator) Init(seed uint64) *nn.Params {
	p := nn.NewParams()
	p.Register(rand.NewPCG(seed, 0), g.Specs()...)
	return p
}

// Forward runs the synthesis chain with one style vector per sample,
// shared across every block, and returns the accumulated RGB image
// [B, 3, R, R]. A mapping network that supplies distinct per-block
// vectors can drive the blocks' Forward methods directly instead.
func (g *Generator) Forward(p *nn.Params, style *ml.Tensor) *ml.Tensor {
	if style.Rank() != 2 || style.Dim(1) != g.cfg.StyleDim {
		panic(fmt.Sprintf("stylegan: style shape %v, want [B %d]", style.Shape, g.cfg.StyleDim))
	}
	feat, rgb := g.initial.Forward(p, style)
	for _, blk := range g.blocks {
		feat, rgb = blk.Forward(p, feat, rgb, style)
	}
	return rgb
}
