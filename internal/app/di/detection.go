// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"

	visionadapter "platemap_backend/internal/feature/detection/adapters/vision"
	detectionusecase "platemap_backend/internal/feature/detection/usecase"
	plateusecase "platemap_backend/internal/feature/plate/usecase"
)

// NewFoodDetector はVision APIクライアントを組み込んだ検出ユースケースを生成します。
// 認証情報が不正な場合はここで失敗します。
func NewFoodDetector(ctx context.Context, maxWidth int) (plateusecase.FoodDetector, error) {
	localizer, err := visionadapter.NewVisionObjectLocalizer(ctx)
	if err != nil {
		return nil, err
	}
	return detectionusecase.NewDetectionUsecase(localizer, nil, maxWidth), nil
}
