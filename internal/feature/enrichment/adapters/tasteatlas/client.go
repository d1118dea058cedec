// Package tasteatlas はフードアトラスのページをスクレイプするクライアントを提供します。
package tasteatlas

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gosimple/slug"

	"platemap_backend/internal/feature/enrichment/usecase"
)

// Config holds configuration for the food atlas page fetcher.
type Config struct {
	BaseURL   string        // e.g. "https://www.tasteatlas.com"
	UserAgent string        // polite scraping identity
	Timeout   time.Duration // HTTP request timeout
}

// LoadConfig loads atlas configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("ATLAS_BASE_URL")
	if base == "" {
		base = "https://www.tasteatlas.com"
	}
	return Config{
		BaseURL:   base,
		UserAgent: "platemap/1.0",
		Timeout:   10 * time.Second,
	}
}

// AtlasClient はアトラスページのmeta descriptionを取得するusecase.AtlasClient実装です。
type AtlasClient struct {
	cfg    Config
	client *http.Client
}

// AtlasClientがusecase.AtlasClientを実装していることをコンパイル時に検証します。
var _ usecase.AtlasClient = (*AtlasClient)(nil)

// NewAtlasClient は指定された設定とHTTPクライアントでAtlasClientの新しいインスタンスを生成します。
func NewAtlasClient(cfg Config, client *http.Client) *AtlasClient {
	return &AtlasClient{cfg: cfg, client: client}
}

// Description は料理名をURLスラッグに変換してページを取得し、
// meta descriptionのテキストを返します。descriptionタグがない200応答では
// 合成文（"No specific origins found for X"）を返します。
// ページが存在しない場合はErrPageNotFoundを返します。
func (a *AtlasClient) Description(ctx context.Context, foodName string) (string, error) {
	u := fmt.Sprintf("%s/%s", a.cfg.BaseURL, slug.Make(foodName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", a.cfg.UserAgent)

	res, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusNotFound {
		return "", usecase.ErrPageNotFound
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("atlas http %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return "", fmt.Errorf("parse atlas page: %w", err)
	}

	description, ok := doc.Find(`meta[name="description"]`).Attr("content")
	if !ok || description == "" {
		return fmt.Sprintf("No specific origins found for %s", foodName), nil
	}
	return description, nil
}
