package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgeml/stylegen/ml"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadShapeAndRange(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 20), uint8(y * 40), 128, 255})
		}
	}

	tensor, err := Load(writePNG(t, img), 8, 4)
	require.NoError(t, err)
	require.Equal(t, []int{3, 4, 8}, tensor.Shape)

	for i, v := range tensor.Data {
		require.GreaterOrEqualf(t, v, float32(0), "sample %d below zero", i)
		require.LessOrEqualf(t, v, float32(1), "sample %d above one", i)
	}
}

func TestLoadDecodeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0x02}, 0o644))

	_, err := Load(path, 4, 4)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"), 4, 4)
	require.Error(t, err)
}

func TestToImageRejectsBadShape(t *testing.T) {
	_, err := ToImage(ml.New(4, 2, 2))
	require.Error(t, err)
	_, err = ToImage(ml.New(3, 4))
	require.Error(t, err)
}

func TestColorRoundTrip(t *testing.T) {
	const w, h = 16, 16
	rng := rand.New(rand.NewSource(1))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255,
			})
		}
	}
	path := writePNG(t, img)

	// Load at the native size so resampling is the identity.
	tensor, err := Load(path, w, h)
	require.NoError(t, err)

	got, err := ToImage(tensor)
	require.NoError(t, err)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				want := int(img.Pix[off+c])
				have := int(got.Pix[off+c])
				if d := int(math.Abs(float64(want - have))); d > 1 {
					t.Fatalf("pixel (%d,%d) channel %d: %d -> %d, off by %d levels", x, y, c, want, have, d)
				}
			}
		}
	}
}

func TestSaveWritesDecodablePNG(t *testing.T) {
	tensor := ml.New(3, 4, 4)
	for i := range tensor.Data {
		tensor.Data[i] = float32(i) / float32(len(tensor.Data))
	}

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, Save(tensor, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 4), decoded.Bounds())
}

func TestGammaTransferInverse(t *testing.T) {
	for u := 0.0; u <= 1.0; u += 1.0 / 255 {
		back := linearToSRGB(srgbToLinear(u))
		require.InDeltaf(t, u, back, 1e-9, "transfer functions drift at %v", u)
	}
}
