// Package imaging は画像のデコード・リサイズ・注釈描画を提供します。
//
// 座標の扱いは「リサイズ → ピクセル座標化 → 描画」の順序が前提です。
// 正規化座標はリサイズ後の寸法に対して変換しないと注釈位置がずれます。
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png" // PNGアップロードのデコード登録

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"platemap_backend/internal/feature/detection/domain/entity"
)

const (
	// DefaultMaxWidth はリサイズ後の最大幅（ピクセル）です。
	DefaultMaxWidth = 1280
	// jpegQuality は注釈済み画像の出力品質です。
	jpegQuality = 90
	// boxThickness は枠線の太さ（ピクセル）です。
	boxThickness = 2
)

// boxColor は枠線とラベルの描画色です（原典どおりの緑）。
var boxColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// Decode は画像バイト列をデコードします。JPEGとPNGに対応します。
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Resize は幅がmaxWidthを超える画像をアスペクト比を保って縮小します。
// maxWidth以下の画像はそのまま返します。
func Resize(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxWidth {
		return img
	}

	newH := int(float64(h) * float64(maxWidth) / float64(w))
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// ToPixel は正規化頂点をピクセル座標へ変換します。
// 結果は必ず 0 <= x <= width, 0 <= y <= height に収まります。
func ToPixel(v entity.NormalizedVertex, width, height int) entity.Point {
	return entity.Point{
		X: clamp(int(float64(v.X)*float64(width)+0.5), 0, width),
		Y: clamp(int(float64(v.Y)*float64(height)+0.5), 0, height),
	}
}

// Annotate は検出結果の矩形とラベルを描き込んだJPEGバイト列を返します。
// 入力画像は変更しません（コピーに描画します）。
func Annotate(img image.Image, items []entity.DetectedItem) ([]byte, error) {
	b := img.Bounds()
	canvas := image.NewRGBA(b)
	draw.Draw(canvas, b, img, b.Min, draw.Src)

	for _, item := range items {
		// 左上と右下の頂点で矩形を決める
		tl, br := item.Vertices[0], item.Vertices[2]
		drawRect(canvas, tl, br)
		drawLabel(canvas, fmt.Sprintf("%s (Confidence: %.2f)", item.Label, item.Confidence), tl)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode annotated image: %w", err)
	}
	return buf.Bytes(), nil
}

// drawRect は太さboxThicknessの矩形枠を描画します。
func drawRect(canvas *image.RGBA, tl, br entity.Point) {
	for t := 0; t < boxThickness; t++ {
		for x := tl.X; x <= br.X; x++ {
			setPixel(canvas, x, tl.Y+t)
			setPixel(canvas, x, br.Y-t)
		}
		for y := tl.Y; y <= br.Y; y++ {
			setPixel(canvas, tl.X+t, y)
			setPixel(canvas, br.X-t, y)
		}
	}
}

// drawLabel は枠の上にラベル文字列を描画します。
// 上端に収まらない場合は枠の内側に落とします。
func drawLabel(canvas *image.RGBA, label string, tl entity.Point) {
	face := basicfont.Face7x13
	y := tl.Y - 4
	if y < face.Height {
		y = tl.Y + face.Height + 2
	}
	d := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(boxColor),
		Face: face,
		Dot:  fixed.P(tl.X, y),
	}
	d.DrawString(label)
}

func setPixel(canvas *image.RGBA, x, y int) {
	if image.Pt(x, y).In(canvas.Bounds()) {
		canvas.Set(x, y, boxColor)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
