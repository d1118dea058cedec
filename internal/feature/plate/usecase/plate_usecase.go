// Package usecase はplateフィーチャー（リクエストサイクル全体）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	detection "platemap_backend/internal/feature/detection/domain/entity"
	enrichment "platemap_backend/internal/feature/enrichment/domain/entity"
	mapentity "platemap_backend/internal/feature/mapexport/domain/entity"
	"platemap_backend/internal/feature/plate/domain/entity"
)

// maxConcurrentItems はアイテム間の並行エンリッチ数の上限です。
const maxConcurrentItems = 4

// FoodDetector は画像から料理を検出するユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（plate usecase）側で定義します。
type FoodDetector interface {
	Detect(ctx context.Context, imageData []byte) (*detection.PlateDetection, error)
}

// Enricher は検出アイテムをエンリッチするユースケースインターフェースです。
type Enricher interface {
	Enrich(ctx context.Context, item detection.DetectedItem) enrichment.EnrichmentResult
}

// Geocoder はユーザー位置文字列を座標に解決するインターフェースです。
type Geocoder interface {
	Geocode(ctx context.Context, place string) (enrichment.Coordinate, error)
}

// MapExporter は地図データセットの構築とシリアライズを行うインターフェースです。
type MapExporter interface {
	Build(userPlace string, userLocation *enrichment.Coordinate, results []enrichment.EnrichmentResult) []mapentity.Point
	GeoJSON(points []mapentity.Point) ([]byte, error)
}

// ArtifactStore は解析結果アーティファクトの保存・取得を行うインターフェースです。
type ArtifactStore interface {
	SaveAnnotatedImage(ctx context.Context, plateID string, data []byte) error
	AnnotatedImage(ctx context.Context, plateID string) ([]byte, error)
	SaveMapDataset(ctx context.Context, plateID string, data []byte) error
	MapDataset(ctx context.Context, plateID string) ([]byte, error)
}

// plateUsecase は検出→エンリッチ→地図出力のパイプラインを合成します。
type plateUsecase struct {
	detector   FoodDetector
	enricher   Enricher
	geocoder   Geocoder
	exporter   MapExporter
	artifacts  ArtifactStore
	scratchDir string
}

// NewPlateUsecase はplateUsecaseの新しいインスタンスを生成します。
// scratchDir が空の場合はOSの一時ディレクトリを使用します。
func NewPlateUsecase(
	detector FoodDetector,
	enricher Enricher,
	geocoder Geocoder,
	exporter MapExporter,
	artifacts ArtifactStore,
	scratchDir string,
) *plateUsecase {
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	return &plateUsecase{
		detector:   detector,
		enricher:   enricher,
		geocoder:   geocoder,
		exporter:   exporter,
		artifacts:  artifacts,
		scratchDir: scratchDir,
	}
}

// Analyze は1枚の画像とユーザー位置文字列からPlateReportを生成します。
//
// 検出の失敗のみがエラーになります。エンリッチ・ジオコード・アーティファクト
// 保存の失敗はすべて局所的に縮退します（プレースホルダー／ピン省略／保存スキップ）。
func (u *plateUsecase) Analyze(ctx context.Context, imageData []byte, userPlace string) (*entity.PlateReport, error) {
	if userPlace == "" {
		return nil, fmt.Errorf("user location is required")
	}

	// 原典同様、アップロードをスクラッチ領域に書き出し、処理後に削除する
	if scratchPath, err := u.writeScratch(imageData); err != nil {
		slog.Warn("failed to persist scratch image", "error", err)
	} else {
		defer func() {
			if err := os.Remove(scratchPath); err != nil {
				slog.Warn("failed to remove scratch image", "path", scratchPath, "error", err)
			}
		}()
	}

	det, err := u.detector.Detect(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("detect foods: %w", err)
	}

	var userLocation *enrichment.Coordinate
	if loc, err := u.geocoder.Geocode(ctx, userPlace); err == nil {
		userLocation = &loc
	} else {
		slog.Warn("user location geocode failed", "place", userPlace, "error", err)
	}

	// アイテム間の並行ファンアウト。各Enrichはエラーを返さないため
	// 結果はインデックス順にそのまま埋まる。
	results := make([]enrichment.EnrichmentResult, len(det.Items))
	var g errgroup.Group
	g.SetLimit(maxConcurrentItems)
	for i, item := range det.Items {
		g.Go(func() error {
			results[i] = u.enricher.Enrich(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	points := u.exporter.Build(userPlace, userLocation, results)
	geoJSON, err := u.exporter.GeoJSON(points)
	if err != nil {
		return nil, fmt.Errorf("export map dataset: %w", err)
	}

	plateID := uuid.NewString()
	if err := u.artifacts.SaveAnnotatedImage(ctx, plateID, det.Annotated); err != nil {
		slog.Warn("failed to store annotated image", "plate_id", plateID, "error", err)
	}
	if err := u.artifacts.SaveMapDataset(ctx, plateID, geoJSON); err != nil {
		slog.Warn("failed to store map dataset", "plate_id", plateID, "error", err)
	}

	return &entity.PlateReport{
		ID:           plateID,
		UserPlace:    userPlace,
		UserLocation: userLocation,
		Results:      results,
		Annotated:    det.Annotated,
		MapPoints:    points,
		MapDataset:   geoJSON,
	}, nil
}

// AnnotatedImage は保存済みの注釈画像を取得します。
func (u *plateUsecase) AnnotatedImage(ctx context.Context, plateID string) ([]byte, error) {
	return u.artifacts.AnnotatedImage(ctx, plateID)
}

// MapDataset は保存済みの地図データセットを取得します。
func (u *plateUsecase) MapDataset(ctx context.Context, plateID string) ([]byte, error) {
	return u.artifacts.MapDataset(ctx, plateID)
}

// writeScratch はアップロード画像をスクラッチ領域へ書き出してパスを返します。
func (u *plateUsecase) writeScratch(imageData []byte) (string, error) {
	f, err := os.CreateTemp(u.scratchDir, "uploaded_*.img")
	if err != nil {
		return "", err
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close scratch file", "error", err)
		}
	}()
	if _, err := f.Write(imageData); err != nil {
		return "", err
	}
	return f.Name(), nil
}
