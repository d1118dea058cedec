// Package entity はdetectionフィーチャーのドメインモデルを定義します。
package entity

// NormalizedVertex は画像サイズに依存しない正規化座標（0.0〜1.0）の頂点です。
type NormalizedVertex struct {
	X float32
	Y float32
}

// LocalizedObject はVision APIが返す検出オブジェクトの生データです。
// Vertices は左上から時計回りの4頂点です。
type LocalizedObject struct {
	Label      string
	Confidence float32 // 信頼度スコア（0.0 ~ 1.0）
	Vertices   [4]NormalizedVertex
}

// Point はピクセル座標上の1点です。
type Point struct {
	X int
	Y int
}

// DetectedItem は料理として採用された検出結果です。
// Vertices はリサイズ後の画像に対するピクセル座標で、
// 矩形描画には先頭（左上）と3番目（右下）の頂点を使用します。
type DetectedItem struct {
	Label      string
	Confidence float32
	Vertices   [4]Point
}

// PlateDetection は1枚の画像に対する検出・注釈の結果です。
// 採用対象が1件もない場合、Annotated には入力バイト列がそのまま入ります。
type PlateDetection struct {
	Items     []DetectedItem
	Annotated []byte // 注釈済みJPEG（または未加工の入力）
	Width     int    // リサイズ後の幅
	Height    int    // リサイズ後の高さ
}
