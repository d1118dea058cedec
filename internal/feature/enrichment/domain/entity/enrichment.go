// Package entity はenrichmentフィーチャーのドメインモデルを定義します。
package entity

import (
	detection "platemap_backend/internal/feature/detection/domain/entity"
)

// OriginSource は由来情報の出典を表します。
type OriginSource string

const (
	SourceEncyclopedia OriginSource = "encyclopedia"
	SourceAtlas        OriginSource = "atlas"
	SourceUnknown      OriginSource = "unknown"
)

// Coordinate は緯度・経度の組です。
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// OriginRecord は料理の由来1件（説明文と座標）を表します。
type OriginRecord struct {
	Narrative string
	Latitude  float64
	Longitude float64
	Source    OriginSource
}

// UnknownOrigin は両方の出典が失敗した場合のセンチネルレコードです。
func UnknownOrigin() OriginRecord {
	return OriginRecord{
		Narrative: "Unknown origin",
		Latitude:  0,
		Longitude: 0,
		Source:    SourceUnknown,
	}
}

// Nutrient は1栄養素の値です。APIレスポンスに該当項目がない場合、
// Available が false になります（表示層では "N/A"）。
type Nutrient struct {
	Value     float64
	Available bool
}

// NutritionRecord は1料理分の栄養情報です。
// Found が false の場合、栄養データ自体が取得できなかったことを示します。
type NutritionRecord struct {
	Found    bool
	Calories Nutrient
	Protein  Nutrient
	Fat      Nutrient
	Carbs    Nutrient
}

// EnrichmentResult は検出アイテム1件に対する3系統のエンリッチ結果の集約です。
// 各フィールドは常に値が入ります（失敗時はプレースホルダー／センチネル）。
type EnrichmentResult struct {
	Item      detection.DetectedItem
	Origins   []OriginRecord // 常に1件以上
	Nutrition NutritionRecord
	Fact      string
}
