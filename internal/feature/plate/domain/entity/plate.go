// Package entity はplateフィーチャーのドメインモデルを定義します。
package entity

import (
	enrichment "platemap_backend/internal/feature/enrichment/domain/entity"
	mapexport "platemap_backend/internal/feature/mapexport/domain/entity"
)

// PlateReport は1回の解析リクエストの最終結果です。
// Annotated と MapDataset はダウンロード用アーティファクトとして別途保存されます。
type PlateReport struct {
	ID           string
	UserPlace    string
	UserLocation *enrichment.Coordinate // ジオコード失敗時はnil
	Results      []enrichment.EnrichmentResult
	Annotated    []byte
	MapPoints    []mapexport.Point
	MapDataset   []byte // GeoJSON FeatureCollection
}
