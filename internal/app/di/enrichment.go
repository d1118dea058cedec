package di

import (
	"context"

	"platemap_backend/internal/feature/enrichment/adapters/gemini"
	"platemap_backend/internal/feature/enrichment/adapters/nominatim"
	"platemap_backend/internal/feature/enrichment/adapters/tasteatlas"
	"platemap_backend/internal/feature/enrichment/adapters/usda"
	"platemap_backend/internal/feature/enrichment/adapters/wikipedia"
	enrichmentusecase "platemap_backend/internal/feature/enrichment/usecase"
	plateusecase "platemap_backend/internal/feature/plate/usecase"
	"platemap_backend/internal/platform/cache"
	infrahttp "platemap_backend/internal/platform/http"
)

// NewGeocoder はキャッシュデコレーター適用済みのNominatimジオコーダーを生成します。
// 同一インスタンスをエンリッチと解析パイプラインで共有し、キャッシュを一元化します。
func NewGeocoder() *cache.CachingGeocoder {
	cfg := nominatim.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	geocoder := nominatim.NewNominatimGeocoder(cfg, httpClient, nil)
	return cache.NewCachingGeocoder(geocoder, cache.DefaultCapacity)
}

// NewEnricher は外部APIクライアント一式を組み込んだエンリッチユースケースを生成します。
// Gemini認証情報が不正な場合はここで失敗します。
func NewEnricher(ctx context.Context, geocoder *cache.CachingGeocoder) (plateusecase.Enricher, error) {
	factClient, err := gemini.NewGeminiFactClient(ctx)
	if err != nil {
		return nil, err
	}

	wikiCfg := wikipedia.LoadConfig()
	atlasCfg := tasteatlas.LoadConfig()
	usdaCfg := usda.LoadConfig()

	return enrichmentusecase.NewEnrichmentUsecase(
		wikipedia.NewWikipediaClient(wikiCfg, infrahttp.NewHTTPClient(wikiCfg.Timeout)),
		tasteatlas.NewAtlasClient(atlasCfg, infrahttp.NewHTTPClient(atlasCfg.Timeout)),
		geocoder,
		usda.NewUSDAClient(usdaCfg, infrahttp.NewHTTPClient(usdaCfg.Timeout)),
		factClient,
		enrichmentusecase.NewCaches(cache.DefaultCapacity),
	), nil
}
