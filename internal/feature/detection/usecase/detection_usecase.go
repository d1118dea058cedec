// Package usecase はdetectionフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"

	"platemap_backend/internal/feature/detection/domain/entity"
	"platemap_backend/internal/platform/imaging"
)

const (
	// MaxImageSize は画像アップロードの最大サイズ（10MB）です。
	MaxImageSize = 10 * 1024 * 1024
)

// DefaultAcceptedLabels は料理として採用するVisionラベルの既定セットです。
var DefaultAcceptedLabels = []string{"food", "dish", "plate"}

// ObjectLocalizer は画像から物体を検出するリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ObjectLocalizer interface {
	// LocalizeObjects は画像バイト列から正規化境界ボックス付きの物体一覧を返します。
	LocalizeObjects(ctx context.Context, imageData []byte) ([]entity.LocalizedObject, error)
}

// detectionUsecase は料理検出と注釈描画のビジネスロジックを提供します。
type detectionUsecase struct {
	localizer ObjectLocalizer
	accepted  map[string]struct{}
	maxWidth  int
}

// NewDetectionUsecase はdetectionUsecaseの新しいインスタンスを生成します。
// labels が空の場合は DefaultAcceptedLabels を使用します。
func NewDetectionUsecase(localizer ObjectLocalizer, labels []string, maxWidth int) *detectionUsecase {
	if len(labels) == 0 {
		labels = DefaultAcceptedLabels
	}
	accepted := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		accepted[strings.ToLower(l)] = struct{}{}
	}
	if maxWidth <= 0 {
		maxWidth = imaging.DefaultMaxWidth
	}
	return &detectionUsecase{localizer: localizer, accepted: accepted, maxWidth: maxWidth}
}

// Detect は画像から料理を検出し、注釈済み画像とともに返します。
//
// 処理順序は「リサイズ → ピクセル座標化 → 描画」で固定です。採用対象の
// 検出が1件もない場合は入力バイト列をそのまま返し、エラーにはしません。
func (u *detectionUsecase) Detect(ctx context.Context, imageData []byte) (*entity.PlateDetection, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}
	if len(imageData) > MaxImageSize {
		return nil, fmt.Errorf("image size exceeds maximum of %d bytes", MaxImageSize)
	}

	img, err := imaging.Decode(imageData)
	if err != nil {
		return nil, fmt.Errorf("invalid image: %w", err)
	}
	img = imaging.Resize(img, u.maxWidth)
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	objects, err := u.localizer.LocalizeObjects(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("object localization failed: %w", err)
	}

	items := make([]entity.DetectedItem, 0, len(objects))
	for _, obj := range objects {
		if _, ok := u.accepted[strings.ToLower(obj.Label)]; !ok {
			continue
		}
		item := entity.DetectedItem{
			Label:      obj.Label,
			Confidence: obj.Confidence,
		}
		for i, v := range obj.Vertices {
			item.Vertices[i] = imaging.ToPixel(v, width, height)
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return &entity.PlateDetection{
			Items:     items,
			Annotated: imageData,
			Width:     width,
			Height:    height,
		}, nil
	}

	annotated, err := imaging.Annotate(img, items)
	if err != nil {
		return nil, fmt.Errorf("annotate image: %w", err)
	}

	return &entity.PlateDetection{
		Items:     items,
		Annotated: annotated,
		Width:     width,
		Height:    height,
	}, nil
}
