package ml

import "math"

// ResizeBilinear2x doubles the spatial size of a NCHW tensor using
// bilinear interpolation. Pixel centers, not corners, are aligned
// across scales (align_corners=false), which fixes the exact values at
// the image boundary.
func ResizeBilinear2x(x *Tensor) *Tensor {
	x.mustRank("resize input", 4)

	n, c, h, w := x.Shape[0], x.Shape[1], x.Shape[2], x.Shape[3]
	ho, wo := 2*h, 2*w
	out := New(n, c, ho, wo)

	y0s, y1s, fys := sampleAxis(h, ho)
	x0s, x1s, fxs := sampleAxis(w, wo)

	for nc := 0; nc < n*c; nc++ {
		src := x.Data[nc*h*w:]
		dst := out.Data[nc*ho*wo:]
		for y := 0; y < ho; y++ {
			top := src[y0s[y]*w:]
			bot := src[y1s[y]*w:]
			fy := fys[y]
			for xx := 0; xx < wo; xx++ {
				x0, x1, fx := x0s[xx], x1s[xx], fxs[xx]
				t := top[x0] + fx*(top[x1]-top[x0])
				b := bot[x0] + fx*(bot[x1]-bot[x0])
				dst[y*wo+xx] = t + fy*(b-t)
			}
		}
	}
	return out
}

// sampleAxis precomputes, per output coordinate, the two source
// indices and the interpolation weight under the half-pixel-center
// convention.
func sampleAxis(in, out int) (lo, hi []int, frac []float32) {
	lo = make([]int, out)
	hi = make([]int, out)
	frac = make([]float32, out)
	scale := float64(in) / float64(out)
	for i := 0; i < out; i++ {
		s := (float64(i)+0.5)*scale - 0.5
		f := math.Floor(s)
		lo[i] = clampInt(int(f), 0, in-1)
		hi[i] = clampInt(int(f)+1, 0, in-1)
		frac[i] = float32(s - f)
	}
	return lo, hi, frac
}
