// Package api はHTTPトランスポート層で共有されるリクエスト/レスポンスDTOを定義します。
package api

import (
	"fmt"

	enrichment "platemap_backend/internal/feature/enrichment/domain/entity"
	mapentity "platemap_backend/internal/feature/mapexport/domain/entity"
)

// ErrorResponse はエラーレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// OriginResponse は料理1品の由来ナラティブのレスポンスDTOです。
type OriginResponse struct {
	Narrative string  `json:"narrative"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Source    string  `json:"source"`
}

// NutritionResponse は100gあたりの栄養サマリーのレスポンスDTOです。
// 各項目は値が取得できなかった場合 "N/A" を返します。
type NutritionResponse struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Fat      string `json:"fat"`
	Carbs    string `json:"carbs"`
	Message  string `json:"message,omitempty"`
}

// DetectedFoodResponse は検出・エンリッチ済みの料理1品のレスポンスDTOです。
type DetectedFoodResponse struct {
	Label      string            `json:"label"`
	Confidence float32           `json:"confidence"`
	Origins    []OriginResponse  `json:"origins"`
	Nutrition  NutritionResponse `json:"nutrition"`
	Fact       string            `json:"fact"`
}

// MapPointResponse は地図ピン1本のレスポンスDTOです。
type MapPointResponse struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Category  string  `json:"category"`
}

// PlateResponse は1回の解析リクエストのレスポンスDTOです。
type PlateResponse struct {
	ID        string                 `json:"id"`
	UserPlace string                 `json:"user_place"`
	Foods     []DetectedFoodResponse `json:"foods"`
	MapPoints []MapPointResponse     `json:"map_points"`
	ImageURL  string                 `json:"image_url"`
	MapURL    string                 `json:"map_url"`
}

// NewOriginResponses はドメインの由来レコードをレスポンスDTOへ変換します。
func NewOriginResponses(records []enrichment.OriginRecord) []OriginResponse {
	out := make([]OriginResponse, 0, len(records))
	for _, r := range records {
		out = append(out, OriginResponse{
			Narrative: r.Narrative,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Source:    string(r.Source),
		})
	}
	return out
}

// NewNutritionResponse は栄養レコードをレスポンスDTOへ変換します。
// データが見つからなかった場合は項目を "N/A" で埋め、メッセージを添えます。
func NewNutritionResponse(foodName string, rec enrichment.NutritionRecord) NutritionResponse {
	resp := NutritionResponse{
		Calories: nutrientString(rec.Calories, "kcal"),
		Protein:  nutrientString(rec.Protein, "g"),
		Fat:      nutrientString(rec.Fat, "g"),
		Carbs:    nutrientString(rec.Carbs, "g"),
	}
	if !rec.Found {
		resp.Message = fmt.Sprintf("No nutritional data for %s.", foodName)
	}
	return resp
}

// NewMapPointResponses はドメインの地図ピンをレスポンスDTOへ変換します。
func NewMapPointResponses(points []mapentity.Point) []MapPointResponse {
	out := make([]MapPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, MapPointResponse{
			Name:      p.Name,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Category:  p.Category,
		})
	}
	return out
}

func nutrientString(n enrichment.Nutrient, unit string) string {
	if !n.Available {
		return "N/A"
	}
	return fmt.Sprintf("%.1f %s", n.Value, unit)
}
