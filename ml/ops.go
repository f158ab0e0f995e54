package ml

import "fmt"

// Linear computes y = scale*(x @ W^T) + b.
// x: [B, in], weight: [out, in], bias: [out] or nil. The scale factor
// carries the equalized-learning-rate constant so raw weights can stay
// unit variance.
func Linear(x, weight, bias *Tensor, scale float32) *Tensor {
	x.mustRank("linear input", 2)
	weight.mustRank("linear weight", 2)

	batch, in := x.Shape[0], x.Shape[1]
	out := weight.Shape[0]
	if weight.Shape[1] != in {
		panic(fmt.Sprintf("ml: linear: input dim %d does not match weight %v", in, weight.Shape))
	}
	if bias != nil && bias.Numel() != out {
		panic(fmt.Sprintf("ml: linear: bias %v does not match %d outputs", bias.Shape, out))
	}

	y := New(batch, out)
	for b := 0; b < batch; b++ {
		xrow := x.Data[b*in : (b+1)*in]
		for o := 0; o < out; o++ {
			wrow := weight.Data[o*in : (o+1)*in]
			var sum float32
			for i, v := range xrow {
				sum += v * wrow[i]
			}
			sum *= scale
			if bias != nil {
				sum += bias.Data[o]
			}
			y.Data[b*out+o] = sum
		}
	}
	return y
}

// LeakyReLU applies max(v, slope*v) elementwise and returns a new
// tensor.
func LeakyReLU(x *Tensor, slope float32) *Tensor {
	y := x.Clone()
	for i, v := range y.Data {
		if v < 0 {
			y.Data[i] = slope * v
		}
	}
	return y
}

// Add returns the elementwise sum of two tensors of identical shape.
func Add(a, b *Tensor) *Tensor {
	if len(a.Data) != len(b.Data) {
		panic(fmt.Sprintf("ml: add: shape %v does not match %v", a.Shape, b.Shape))
	}
	y := a.Clone()
	for i, v := range b.Data {
		y.Data[i] += v
	}
	return y
}
