package ml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResizeBilinear2xDoubles(t *testing.T) {
	x := New(2, 3, 5, 7)
	y := ResizeBilinear2x(x)
	want := []int{2, 3, 10, 14}
	if diff := cmp.Diff(want, y.Shape); diff != "" {
		t.Errorf("ResizeBilinear2x() shape mismatch (-want +got):\n%s", diff)
	}
}

func TestResizeBilinear2xValues(t *testing.T) {
	// Half-pixel-center alignment fixes these boundary values exactly.
	x := FromSlice([]float32{0, 1, 2, 3}, 1, 1, 2, 2)
	y := ResizeBilinear2x(x)

	want := []float32{
		0, 0.25, 0.75, 1,
		0.5, 0.75, 1.25, 1.5,
		1.5, 1.75, 2.25, 2.5,
		2, 2.25, 2.75, 3,
	}
	if diff := cmp.Diff(want, y.Data); diff != "" {
		t.Errorf("ResizeBilinear2x() mismatch (-want +got):\n%s", diff)
	}
}

func TestResizeBilinear2xConstant(t *testing.T) {
	x := New(1, 1, 3, 3)
	for i := range x.Data {
		x.Data[i] = 4.5
	}
	y := ResizeBilinear2x(x)
	for i, v := range y.Data {
		if v != 4.5 {
			t.Fatalf("Data[%d] = %v, want 4.5; constant input must stay constant", i, v)
		}
	}
}
