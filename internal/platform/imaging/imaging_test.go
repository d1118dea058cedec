package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platemap_backend/internal/feature/detection/domain/entity"
)

// newTestImage は単色のテスト画像を生成するヘルパー関数です。
func newTestImage(t *testing.T, w, h int) image.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 180, B: 160, A: 255})
		}
	}
	return img
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("success: png round trip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, newTestImage(t, 8, 6)))

		img, err := Decode(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, 8, img.Bounds().Dx())
		assert.Equal(t, 6, img.Bounds().Dy())
	})

	t.Run("failure: garbage bytes", func(t *testing.T) {
		t.Parallel()

		_, err := Decode([]byte("not an image"))
		assert.Error(t, err)
	})
}

func TestResize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		w, h       int
		maxWidth   int
		expectedW  int
		expectedH  int
	}{
		{name: "wider than max: scaled down keeping aspect", w: 2560, h: 1920, maxWidth: 1280, expectedW: 1280, expectedH: 960},
		{name: "within max: unchanged", w: 640, h: 480, maxWidth: 1280, expectedW: 640, expectedH: 480},
		{name: "exactly max: unchanged", w: 1280, h: 720, maxWidth: 1280, expectedW: 1280, expectedH: 720},
		{name: "non-positive max falls back to default", w: 640, h: 480, maxWidth: 0, expectedW: 640, expectedH: 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := Resize(newTestImage(t, tt.w, tt.h), tt.maxWidth)
			assert.Equal(t, tt.expectedW, out.Bounds().Dx())
			assert.Equal(t, tt.expectedH, out.Bounds().Dy())
		})
	}
}

func TestToPixel(t *testing.T) {
	t.Parallel()

	const width, height = 1280, 960

	tests := []struct {
		name     string
		vertex   entity.NormalizedVertex
		expected entity.Point
	}{
		{name: "origin", vertex: entity.NormalizedVertex{X: 0, Y: 0}, expected: entity.Point{X: 0, Y: 0}},
		{name: "full extent", vertex: entity.NormalizedVertex{X: 1, Y: 1}, expected: entity.Point{X: 1280, Y: 960}},
		{name: "midpoint", vertex: entity.NormalizedVertex{X: 0.5, Y: 0.5}, expected: entity.Point{X: 640, Y: 480}},
		{name: "clamped below zero", vertex: entity.NormalizedVertex{X: -0.1, Y: -0.1}, expected: entity.Point{X: 0, Y: 0}},
		{name: "clamped above one", vertex: entity.NormalizedVertex{X: 1.2, Y: 1.1}, expected: entity.Point{X: 1280, Y: 960}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ToPixel(tt.vertex, width, height)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// すべての有効な正規化頂点が画像範囲内のピクセル座標に写ることを検証します。
func TestToPixel_AlwaysWithinBounds(t *testing.T) {
	t.Parallel()

	const width, height = 333, 217
	steps := []float32{0, 0.01, 0.25, 0.333, 0.5, 0.75, 0.999, 1}

	for _, x := range steps {
		for _, y := range steps {
			p := ToPixel(entity.NormalizedVertex{X: x, Y: y}, width, height)
			assert.GreaterOrEqual(t, p.X, 0)
			assert.LessOrEqual(t, p.X, width)
			assert.GreaterOrEqual(t, p.Y, 0)
			assert.LessOrEqual(t, p.Y, height)
		}
	}
}

func TestAnnotate(t *testing.T) {
	t.Parallel()

	t.Run("success: draws box without mutating input", func(t *testing.T) {
		t.Parallel()

		src := newTestImage(t, 100, 80)
		items := []entity.DetectedItem{
			{
				Label:      "Food",
				Confidence: 0.9,
				Vertices: [4]entity.Point{
					{X: 10, Y: 20}, {X: 60, Y: 20}, {X: 60, Y: 70}, {X: 10, Y: 70},
				},
			},
		}

		out, err := Annotate(src, items)
		require.NoError(t, err)
		require.NotEmpty(t, out)

		// 出力はJPEGとしてデコード可能
		annotated, err := Decode(out)
		require.NoError(t, err)
		assert.Equal(t, 100, annotated.Bounds().Dx())

		// 入力画像は未変更（枠線位置が元の色のまま）
		r, g, b, _ := src.At(10, 20).RGBA()
		assert.Equal(t, uint32(200), r>>8)
		assert.Equal(t, uint32(180), g>>8)
		assert.Equal(t, uint32(160), b>>8)
	})

	t.Run("success: box near edge does not panic", func(t *testing.T) {
		t.Parallel()

		src := newTestImage(t, 50, 40)
		items := []entity.DetectedItem{
			{
				Label: "Dish",
				Vertices: [4]entity.Point{
					{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 40}, {X: 0, Y: 40},
				},
			},
		}

		out, err := Annotate(src, items)
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	})
}
