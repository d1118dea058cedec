// Package usecase はmapexportフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"encoding/json"
	"fmt"

	enrichment "platemap_backend/internal/feature/enrichment/domain/entity"
	"platemap_backend/internal/feature/mapexport/domain/entity"
)

// mapExportUsecase は由来座標とユーザー位置から地図データセットを構築します。
type mapExportUsecase struct{}

// NewMapExportUsecase はmapExportUsecaseの新しいインスタンスを生成します。
func NewMapExportUsecase() *mapExportUsecase {
	return &mapExportUsecase{}
}

// Build はユーザー位置（ジオコード済み、失敗時nil）と各アイテムの由来から
// 地図データセットの行を構築します。ユーザーピンが先頭に来ます。
func (u *mapExportUsecase) Build(userPlace string, userLocation *enrichment.Coordinate, results []enrichment.EnrichmentResult) []entity.Point {
	points := make([]entity.Point, 0, len(results)+1)

	if userLocation != nil {
		points = append(points, entity.Point{
			Name:      userPlace,
			Latitude:  userLocation.Latitude,
			Longitude: userLocation.Longitude,
			Category:  entity.CategoryUser,
		})
	}

	for _, r := range results {
		for _, origin := range r.Origins {
			points = append(points, entity.Point{
				Name:      fmt.Sprintf("%s: %s", r.Item.Label, origin.Narrative),
				Latitude:  origin.Latitude,
				Longitude: origin.Longitude,
				Category:  categoryFor(origin.Source),
			})
		}
	}

	return points
}

// GeoJSON はデータセットをGeoJSON FeatureCollectionにシリアライズします。
func (u *mapExportUsecase) GeoJSON(points []entity.Point) ([]byte, error) {
	type geometry struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"` // [lon, lat]
	}
	type feature struct {
		Type       string         `json:"type"`
		Geometry   geometry       `json:"geometry"`
		Properties map[string]any `json:"properties"`
	}
	type featureCollection struct {
		Type     string    `json:"type"`
		Features []feature `json:"features"`
	}

	fc := featureCollection{Type: "FeatureCollection", Features: make([]feature, 0, len(points))}
	for _, p := range points {
		fc.Features = append(fc.Features, feature{
			Type: "Feature",
			Geometry: geometry{
				Type:        "Point",
				Coordinates: [2]float64{p.Longitude, p.Latitude},
			},
			Properties: map[string]any{
				"name":     p.Name,
				"category": p.Category,
			},
		})
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return data, nil
}

// categoryFor は由来の出典を地図カテゴリに対応付けます。
func categoryFor(source enrichment.OriginSource) string {
	switch source {
	case enrichment.SourceEncyclopedia:
		return entity.CategoryEncyclopedia
	case enrichment.SourceAtlas:
		return entity.CategoryAtlas
	default:
		return entity.CategoryUnknown
	}
}
