// Package ml provides the dense float32 tensor type and the numeric
// kernels the synthesis network is built from. Feature maps use NCHW
// layout throughout.
package ml

import "fmt"

// Tensor is a dense float32 tensor stored row-major, outermost
// dimension first.
type Tensor struct {
	Data  []float32
	Shape []int
}

// New allocates a zero-filled tensor.
func New(shape ...int) *Tensor {
	return &Tensor{Data: make([]float32, checkShape(shape)), Shape: shape}
}

// FromSlice wraps data in a tensor without copying.
func FromSlice(data []float32, shape ...int) *Tensor {
	if n := checkShape(shape); len(data) != n {
		panic(fmt.Sprintf("ml: data length %d does not match shape %v", len(data), shape))
	}
	return &Tensor{Data: data, Shape: shape}
}

func checkShape(shape []int) int {
	n := 1
	for _, s := range shape {
		if s <= 0 {
			panic(fmt.Sprintf("ml: invalid dimension %d in shape %v", s, shape))
		}
		n *= s
	}
	return n
}

// Numel returns the number of elements.
func (t *Tensor) Numel() int {
	n := 1
	for _, s := range t.Shape {
		n *= s
	}
	return n
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int { return len(t.Shape) }

// Dim returns the size of dimension i.
func (t *Tensor) Dim(i int) int { return t.Shape[i] }

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	data := make([]float32, len(t.Data))
	copy(data, t.Data)
	return &Tensor{Data: data, Shape: append([]int(nil), t.Shape...)}
}

// Reshape returns a view over the same data with a new shape. The
// element count must match.
func (t *Tensor) Reshape(shape ...int) *Tensor {
	if n := checkShape(shape); n != t.Numel() {
		panic(fmt.Sprintf("ml: cannot reshape %v to %v", t.Shape, shape))
	}
	return &Tensor{Data: t.Data, Shape: shape}
}

// mustRank panics with a descriptive message unless t has the wanted
// rank. Shape mismatches are programmer errors, not runtime faults.
func (t *Tensor) mustRank(op string, rank int) {
	if len(t.Shape) != rank {
		panic(fmt.Sprintf("ml: %s: want rank %d tensor, got shape %v", op, rank, t.Shape))
	}
}
