package ml

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// PadEdge pads the two spatial dimensions of a NCHW tensor by p on
// each side, replicating the border pixels. Edge replication avoids
// the attenuation artifacts zero padding produces at image borders.
func PadEdge(x *Tensor, p int) *Tensor {
	x.mustRank("pad input", 4)
	if p == 0 {
		return x
	}

	n, c, h, w := x.Shape[0], x.Shape[1], x.Shape[2], x.Shape[3]
	hp, wp := h+2*p, w+2*p
	out := New(n, c, hp, wp)
	for nc := 0; nc < n*c; nc++ {
		src := x.Data[nc*h*w:]
		dst := out.Data[nc*hp*wp:]
		for y := 0; y < hp; y++ {
			sy := clampInt(y-p, 0, h-1)
			for xx := 0; xx < wp; xx++ {
				sx := clampInt(xx-p, 0, w-1)
				dst[y*wp+xx] = src[sy*w+sx]
			}
		}
	}
	return out
}

// Conv2dGrouped runs a stride-1 grouped 2D convolution.
//
// x: [N, Cin, H, W]; weight: [Cout, Cin/groups, kH, kW]; bias: [Cout]
// or nil. When same is true the input is edge-padded by (k-1)/2 per
// side so the output keeps the input's spatial size.
//
// Work is spread over goroutines per (sample, output channel); every
// goroutine writes a disjoint output range, so the result is identical
// to a strictly sequential evaluation.
func Conv2dGrouped(x, weight, bias *Tensor, groups int, same bool) *Tensor {
	x.mustRank("conv input", 4)
	weight.mustRank("conv weight", 4)

	n, cin := x.Shape[0], x.Shape[1]
	cout, cg, kh, kw := weight.Shape[0], weight.Shape[1], weight.Shape[2], weight.Shape[3]
	if cin%groups != 0 || cout%groups != 0 {
		panic(fmt.Sprintf("ml: conv2d: channels %d->%d not divisible by %d groups", cin, cout, groups))
	}
	if cin/groups != cg {
		panic(fmt.Sprintf("ml: conv2d: weight %v does not match %d input channels in %d groups", weight.Shape, cin, groups))
	}
	if bias != nil && bias.Numel() != cout {
		panic(fmt.Sprintf("ml: conv2d: bias %v does not match %d output channels", bias.Shape, cout))
	}

	src := x
	if same {
		if kh != kw {
			panic(fmt.Sprintf("ml: conv2d: same padding needs a square kernel, got %dx%d", kh, kw))
		}
		src = PadEdge(x, (kh-1)/2)
	}
	hp, wp := src.Shape[2], src.Shape[3]
	hout, wout := hp-kh+1, wp-kw+1
	if hout <= 0 || wout <= 0 {
		panic(fmt.Sprintf("ml: conv2d: kernel %dx%d larger than input %dx%d", kh, kw, hp, wp))
	}

	out := New(n, cout, hout, wout)
	og := cout / groups

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for nb := 0; nb < n; nb++ {
		for oc := 0; oc < cout; oc++ {
			g.Go(func() error {
				grp := oc / og
				dst := out.Data[(nb*cout+oc)*hout*wout:]
				for y := 0; y < hout; y++ {
					for xx := 0; xx < wout; xx++ {
						var sum float32
						for ic := 0; ic < cg; ic++ {
							in := src.Data[((nb*cin+grp*cg+ic)*hp+y)*wp+xx:]
							wk := weight.Data[(oc*cg+ic)*kh*kw:]
							for ky := 0; ky < kh; ky++ {
								irow := in[ky*wp:]
								wrow := wk[ky*kw:]
								for kx := 0; kx < kw; kx++ {
									sum += irow[kx] * wrow[kx]
								}
							}
						}
						if bias != nil {
							sum += bias.Data[oc]
						}
						dst[y*wout+xx] = sum
					}
				}
				return nil
			})
		}
	}
	g.Wait() //nolint:errcheck

	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
