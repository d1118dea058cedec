// Package usecase はenrichmentフィーチャーのビジネスロジックを実装します。
//
// 3系統のルックアップ（由来・栄養・トリビア）はいずれもフォールト
// トレラントで、外部ソースの失敗はプレースホルダー値に降格されます。
// 呼び出し元がエラーを観測することはありません。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	detection "platemap_backend/internal/feature/detection/domain/entity"
	"platemap_backend/internal/feature/enrichment/domain/entity"
	"platemap_backend/internal/platform/cache"
)

// EncyclopediaClient は百科事典の要約を取得するリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type EncyclopediaClient interface {
	// Summary は項目の要約（先頭2文）を返します。項目がない場合はErrNotFoundを返します。
	Summary(ctx context.Context, term string) (string, error)
}

// AtlasClient はフードアトラスのページ説明文を取得するリポジトリインターフェースです。
type AtlasClient interface {
	// Description はページのmeta description（なければ合成文）を返します。
	// ページ自体が存在しない場合はErrPageNotFoundを返します。
	Description(ctx context.Context, foodName string) (string, error)
}

// Geocoder は地名文字列を座標に解決するリポジトリインターフェースです。
type Geocoder interface {
	Geocode(ctx context.Context, place string) (entity.Coordinate, error)
}

// NutritionClient は栄養データベースを検索するリポジトリインターフェースです。
type NutritionClient interface {
	Search(ctx context.Context, foodName string) (entity.NutritionRecord, error)
}

// FactClient は料理のトリビアを生成するリポジトリインターフェースです。
type FactClient interface {
	FunFact(ctx context.Context, foodName string) (string, error)
}

// Caches は種別ごとのルックアップキャッシュです。
// オーケストレーターの外で明示的に構築し、所有権ごと渡します。
type Caches struct {
	Origins   *cache.Lookup[[]entity.OriginRecord]
	Nutrition *cache.Lookup[entity.NutritionRecord]
	Facts     *cache.Lookup[string]
}

// NewCaches は既定容量のCachesを生成します。
func NewCaches(capacity int) *Caches {
	return &Caches{
		Origins:   cache.NewLookup[[]entity.OriginRecord](capacity),
		Nutrition: cache.NewLookup[entity.NutritionRecord](capacity),
		Facts:     cache.NewLookup[string](capacity),
	}
}

// enrichmentUsecase は検出アイテムのエンリッチ処理を提供します。
type enrichmentUsecase struct {
	encyclopedia EncyclopediaClient
	atlas        AtlasClient
	geocoder     Geocoder
	nutrition    NutritionClient
	facts        FactClient
	caches       *Caches
}

// NewEnrichmentUsecase はenrichmentUsecaseの新しいインスタンスを生成します。
// geocoder にはキャッシュデコレーター適用済みのものを渡します。
func NewEnrichmentUsecase(
	encyclopedia EncyclopediaClient,
	atlas AtlasClient,
	geocoder Geocoder,
	nutrition NutritionClient,
	facts FactClient,
	caches *Caches,
) *enrichmentUsecase {
	if caches == nil {
		caches = NewCaches(cache.DefaultCapacity)
	}
	return &enrichmentUsecase{
		encyclopedia: encyclopedia,
		atlas:        atlas,
		geocoder:     geocoder,
		nutrition:    nutrition,
		facts:        facts,
		caches:       caches,
	}
}

// Enrich は1つの検出アイテムに対し由来・栄養・トリビアを並行に解決して集約します。
// 3つの呼び出しはバリアジョインで全完了を待ち、エラーは返しません。
func (u *enrichmentUsecase) Enrich(ctx context.Context, item detection.DetectedItem) entity.EnrichmentResult {
	result := entity.EnrichmentResult{Item: item}

	var g errgroup.Group
	g.Go(func() error {
		result.Origins = u.ResolveOrigins(ctx, item.Label)
		return nil
	})
	g.Go(func() error {
		result.Nutrition = u.ResolveNutrition(ctx, item.Label)
		return nil
	})
	g.Go(func() error {
		result.Fact = u.FunFact(ctx, item.Label)
		return nil
	})
	_ = g.Wait() // 各ゴルーチンはエラーを返さない

	return result
}

// ResolveOrigins は料理名から由来レコードを解決します。結果は必ず1件以上で、
// 百科事典レコードが存在する場合は常にアトラスレコードより前に並びます。
func (u *enrichmentUsecase) ResolveOrigins(ctx context.Context, foodName string) []entity.OriginRecord {
	records, err := u.caches.Origins.GetOrCompute(ctx, foodName, func(ctx context.Context) ([]entity.OriginRecord, error) {
		return u.lookupOrigins(ctx, foodName), nil
	})
	if err != nil {
		// lookupOriginsはエラーを返さないため到達しないが、契約は守る
		return []entity.OriginRecord{entity.UnknownOrigin()}
	}
	return records
}

// lookupOrigins は2つの出典を順に試します。各出典は独立して失敗でき、
// 失敗した出典は黙ってスキップされます（部分レコードは追加しない）。
func (u *enrichmentUsecase) lookupOrigins(ctx context.Context, foodName string) []entity.OriginRecord {
	var origins []entity.OriginRecord

	// 1) 百科事典: 要約に成功したら料理名そのものをジオコードする
	if summary, err := u.encyclopedia.Summary(ctx, foodName); err == nil {
		if loc, err := u.geocoder.Geocode(ctx, foodName); err == nil {
			origins = append(origins, entity.OriginRecord{
				Narrative: fmt.Sprintf("Wikipedia: %s", summary),
				Latitude:  loc.Latitude,
				Longitude: loc.Longitude,
				Source:    entity.SourceEncyclopedia,
			})
		} else {
			slog.Debug("encyclopedia geocode miss", "food", foodName, "error", err)
		}
	} else {
		slog.Debug("encyclopedia lookup failed", "food", foodName, "error", err)
	}

	// 2) アトラス: 説明文の最初のカンマまでをジオコードする
	if description, err := u.atlas.Description(ctx, foodName); err == nil {
		place := strings.TrimSpace(strings.SplitN(description, ",", 2)[0])
		if loc, err := u.geocoder.Geocode(ctx, place); err == nil {
			origins = append(origins, entity.OriginRecord{
				Narrative: description,
				Latitude:  loc.Latitude,
				Longitude: loc.Longitude,
				Source:    entity.SourceAtlas,
			})
		} else {
			slog.Debug("atlas geocode miss", "food", foodName, "place", place, "error", err)
		}
	} else {
		slog.Debug("atlas lookup failed", "food", foodName, "error", err)
	}

	if len(origins) == 0 {
		origins = append(origins, entity.UnknownOrigin())
	}
	return origins
}

// ResolveNutrition は栄養情報を解決します。取得できない場合は
// Found=false のレコードを返します（表示層でメッセージ化）。
func (u *enrichmentUsecase) ResolveNutrition(ctx context.Context, foodName string) entity.NutritionRecord {
	record, err := u.caches.Nutrition.GetOrCompute(ctx, foodName, func(ctx context.Context) (entity.NutritionRecord, error) {
		return u.nutrition.Search(ctx, foodName)
	})
	if err != nil {
		slog.Debug("nutrition lookup failed", "food", foodName, "error", err)
		return entity.NutritionRecord{Found: false}
	}
	return record
}

// FunFact は料理のトリビアを1つ返します。生成に失敗した場合は
// プレースホルダー文を返します。
func (u *enrichmentUsecase) FunFact(ctx context.Context, foodName string) string {
	fact, err := u.caches.Facts.GetOrCompute(ctx, foodName, func(ctx context.Context) (string, error) {
		return u.facts.FunFact(ctx, foodName)
	})
	if err != nil {
		slog.Debug("fun fact generation failed", "food", foodName, "error", err)
		return fmt.Sprintf("No fun fact available for %s.", foodName)
	}
	return fact
}
