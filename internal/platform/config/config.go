// Package config はサーバー全体の起動設定を環境変数から読み込みます。
// 外部APIクライアント個別の設定は各アダプターのLoadConfigが担当します。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds server-wide startup configuration.
type Config struct {
	Port          string        // HTTP listen port
	ScratchDir    string        // アップロード画像の一時保存先（空ならOSの一時ディレクトリ）
	MaxImageWidth int           // 注釈用に縮小する最大幅（px）
	ArtifactTTL   time.Duration // 解析結果アーティファクトの保持期間
}

// Load は環境変数から設定を読み込みます。
// USDA_API_KEY が未設定の場合はエラーを返し、起動を中止させます。
func Load() (Config, error) {
	if os.Getenv("USDA_API_KEY") == "" {
		return Config{}, fmt.Errorf("USDA_API_KEY is not set")
	}

	cfg := Config{
		Port:          "8080",
		ScratchDir:    os.Getenv("SCRATCH_DIR"),
		MaxImageWidth: 1280,
		ArtifactTTL:   time.Hour,
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if w := os.Getenv("MAX_IMAGE_WIDTH"); w != "" {
		width, err := strconv.Atoi(w)
		if err != nil || width <= 0 {
			return Config{}, fmt.Errorf("invalid MAX_IMAGE_WIDTH %q", w)
		}
		cfg.MaxImageWidth = width
	}
	if ttl := os.Getenv("ARTIFACT_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid ARTIFACT_TTL %q", ttl)
		}
		cfg.ArtifactTTL = d
	}

	return cfg, nil
}
