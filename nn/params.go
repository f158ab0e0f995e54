// Package nn holds the learned-parameter arena and the randomness
// sources the synthesis layers draw from. Layers never own parameter
// storage; they read named buffers from a Params arena and leave all
// mutation to the training side.
package nn

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/forgeml/stylegen/ml"
)

// Initializer fills a freshly allocated parameter buffer.
type Initializer func(src rand.Source, dst []float32)

// ParamSpec names one learned buffer, its shape and how to initialize
// it.
type ParamSpec struct {
	Name  string
	Shape []int
	Init  Initializer
}

// Params is an arena of named parameter buffers. Reads are safe for
// concurrent forward passes; training-time writes must be externally
// synchronized against any in-flight pass.
type Params struct {
	bufs map[string]*ml.Tensor
}

// NewParams returns an empty arena.
func NewParams() *Params {
	return &Params{bufs: make(map[string]*ml.Tensor)}
}

// Register allocates and initializes every buffer the specs describe.
// Duplicate names are programmer errors.
func (p *Params) Register(src rand.Source, specs ...ParamSpec) {
	for _, spec := range specs {
		if _, ok := p.bufs[spec.Name]; ok {
			panic(fmt.Sprintf("nn: parameter %q registered twice", spec.Name))
		}
		t := ml.New(spec.Shape...)
		if spec.Init != nil {
			spec.Init(src, t.Data)
		}
		p.bufs[spec.Name] = t
	}
}

// Get returns the named buffer. Unknown names are programmer errors.
func (p *Params) Get(name string) *ml.Tensor {
	t, ok := p.bufs[name]
	if !ok {
		panic(fmt.Sprintf("nn: unknown parameter %q", name))
	}
	return t
}

// Set replaces the named buffer, keeping its registered shape. This is
// the hook for training code and checkpoint loaders.
func (p *Params) Set(name string, t *ml.Tensor) {
	old, ok := p.bufs[name]
	if !ok {
		panic(fmt.Sprintf("nn: unknown parameter %q", name))
	}
	if old.Numel() != t.Numel() {
		panic(fmt.Sprintf("nn: parameter %q: shape %v does not match registered %v", name, t.Shape, old.Shape))
	}
	p.bufs[name] = t
}

// Names returns the registered buffer names, sorted.
func (p *Params) Names() []string {
	names := make([]string, 0, len(p.bufs))
	for name := range p.bufs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered buffers.
func (p *Params) Len() int { return len(p.bufs) }
