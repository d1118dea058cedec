// Package usda はUSDA FoodData Central APIの栄養検索クライアントを提供します。
package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sethvargo/go-retry"

	"platemap_backend/internal/feature/enrichment/domain/entity"
	"platemap_backend/internal/feature/enrichment/usecase"
)

// maxRetries は一時的な失敗に対する再試行回数です。
const maxRetries = 2

// 栄養素はレスポンス内の並び順ではなく名前で照合します。
// （並び順はAPI仕様で保証されていないため）
const (
	nutrientCalories = "Energy"
	nutrientProtein  = "Protein"
	nutrientFat      = "Total lipid (fat)"
	nutrientCarbs    = "Carbohydrate, by difference"
)

// Config holds configuration for the FoodData Central API client.
type Config struct {
	APIKey  string        // API key for authentication (required)
	BaseURL string        // e.g. "https://api.nal.usda.gov/fdc"
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads USDA configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("USDA_BASE_URL")
	if base == "" {
		base = "https://api.nal.usda.gov/fdc"
	}
	return Config{
		APIKey:  os.Getenv("USDA_API_KEY"),
		BaseURL: base,
		Timeout: 10 * time.Second,
	}
}

// searchResponse はfoods/searchエンドポイントのレスポンスです。
type searchResponse struct {
	Foods []struct {
		Description   string `json:"description"`
		FoodNutrients []struct {
			NutrientName string  `json:"nutrientName"`
			Value        float64 `json:"value"`
			UnitName     string  `json:"unitName"`
		} `json:"foodNutrients"`
	} `json:"foods"`
}

// USDAClient はFoodData Centralから栄養情報を取得するNutritionClient実装です。
type USDAClient struct {
	cfg    Config
	client *http.Client
}

// USDAClientがNutritionClientを実装していることをコンパイル時に検証します。
var _ usecase.NutritionClient = (*USDAClient)(nil)

// NewUSDAClient は指定された設定とHTTPクライアントでUSDAClientの新しいインスタンスを生成します。
func NewUSDAClient(cfg Config, client *http.Client) *USDAClient {
	return &USDAClient{cfg: cfg, client: client}
}

// Search は料理名で栄養データベースを検索し、最初のヒットの栄養情報を返します。
// ヒットがない場合はErrNotFoundを返します。レスポンスに存在しない栄養素は
// Available=false のまま返します（インデックスエラーにはなりません）。
func (u *USDAClient) Search(ctx context.Context, foodName string) (entity.NutritionRecord, error) {
	q := url.Values{}
	q.Set("query", foodName)
	q.Set("pageSize", "1")
	q.Set("api_key", u.cfg.APIKey)
	endpoint := fmt.Sprintf("%s/v1/foods/search?%s", u.cfg.BaseURL, q.Encode())

	var body searchResponse
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		res, err := u.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer func() {
			if err := res.Body.Close(); err != nil {
				slog.Warn("failed to close response body", "error", err)
			}
		}()

		if res.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("usda http %d", res.StatusCode))
		}
		if res.StatusCode >= 400 {
			return fmt.Errorf("usda http %d", res.StatusCode)
		}

		return json.NewDecoder(res.Body).Decode(&body)
	})
	if err != nil {
		return entity.NutritionRecord{}, err
	}

	if len(body.Foods) == 0 {
		return entity.NutritionRecord{}, usecase.ErrNotFound
	}

	record := entity.NutritionRecord{Found: true}
	for _, n := range body.Foods[0].FoodNutrients {
		switch n.NutrientName {
		case nutrientCalories:
			record.Calories = entity.Nutrient{Value: n.Value, Available: true}
		case nutrientProtein:
			record.Protein = entity.Nutrient{Value: n.Value, Available: true}
		case nutrientFat:
			record.Fat = entity.Nutrient{Value: n.Value, Available: true}
		case nutrientCarbs:
			record.Carbs = entity.Nutrient{Value: n.Value, Available: true}
		}
	}
	return record, nil
}
