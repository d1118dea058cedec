// Package entity はmapexportフィーチャーのドメインモデルを定義します。
package entity

// カテゴリは地図上のピンの色分けに使われます。
const (
	CategoryUser         = "user"
	CategoryEncyclopedia = "encyclopedia"
	CategoryAtlas        = "atlas"
	CategoryUnknown      = "unknown"
)

// Point は地図データセットの1行（1ピン）です。
type Point struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Category  string  `json:"category"`
}
