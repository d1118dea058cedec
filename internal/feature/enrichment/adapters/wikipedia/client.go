// Package wikipedia provides a client for the Wikipedia REST summary API.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"platemap_backend/internal/feature/enrichment/usecase"
)

const (
	// SummarySentences は要約から取り出す文の数です。
	SummarySentences = 2
	// maxRetries は一時的な失敗に対する再試行回数です。
	maxRetries = 2
)

// Config holds configuration for the Wikipedia REST API client.
type Config struct {
	BaseURL string        // e.g. "https://en.wikipedia.org/api/rest_v1"
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads Wikipedia configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("WIKIPEDIA_BASE_URL")
	if base == "" {
		base = "https://en.wikipedia.org/api/rest_v1"
	}
	return Config{
		BaseURL: base,
		Timeout: 10 * time.Second,
	}
}

// summaryResponse はREST summaryエンドポイントのレスポンスです。
type summaryResponse struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// WikipediaClient はWikipedia REST APIから項目要約を取得するEncyclopediaClient実装です。
type WikipediaClient struct {
	cfg    Config
	client *http.Client
}

// WikipediaClientがEncyclopediaClientを実装していることをコンパイル時に検証します。
var _ usecase.EncyclopediaClient = (*WikipediaClient)(nil)

// NewWikipediaClient は指定された設定とHTTPクライアントでWikipediaClientの新しいインスタンスを生成します。
func NewWikipediaClient(cfg Config, client *http.Client) *WikipediaClient {
	return &WikipediaClient{cfg: cfg, client: client}
}

// Summary は項目の要約の先頭2文を返します。
// 項目が存在しない、または曖昧さ回避ページの場合はErrNotFoundを返します。
// 5xxとネットワークエラーは指数バックオフで最大2回再試行します。
func (w *WikipediaClient) Summary(ctx context.Context, term string) (string, error) {
	u := fmt.Sprintf("%s/page/summary/%s", w.cfg.BaseURL, url.PathEscape(term))

	var body summaryResponse
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		res, err := w.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer func() {
			if err := res.Body.Close(); err != nil {
				slog.Warn("failed to close response body", "error", err)
			}
		}()

		switch {
		case res.StatusCode == http.StatusNotFound:
			return usecase.ErrNotFound
		case res.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("wikipedia http %d", res.StatusCode))
		case res.StatusCode >= 400:
			return fmt.Errorf("wikipedia http %d", res.StatusCode)
		}

		return json.NewDecoder(res.Body).Decode(&body)
	})
	if err != nil {
		return "", err
	}

	// 曖昧さ回避ページは由来の根拠にならない
	if body.Type == "disambiguation" || body.Extract == "" {
		return "", usecase.ErrNotFound
	}

	return firstSentences(body.Extract, SummarySentences), nil
}

// firstSentences はテキストの先頭n文を返します。文はピリオド+空白で区切ります。
func firstSentences(text string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := 0; i < len(text)-1; i++ {
		if text[i] == '.' && (text[i+1] == ' ' || text[i+1] == '\n') {
			count++
			if count == n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return strings.TrimSpace(text)
}
