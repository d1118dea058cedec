// Package nominatim はOpenStreetMap Nominatimを使用したジオコーディングクライアントを提供します。
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"platemap_backend/internal/feature/enrichment/domain/entity"
	"platemap_backend/internal/feature/enrichment/usecase"
	"platemap_backend/internal/shared/ratelimiter"
)

// Config holds configuration for the Nominatim geocoding client.
type Config struct {
	BaseURL   string        // e.g. "https://nominatim.openstreetmap.org"
	UserAgent string        // Nominatimの利用規約で必須
	Timeout   time.Duration // HTTP request timeout
}

// LoadConfig loads Nominatim configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("NOMINATIM_BASE_URL")
	if base == "" {
		base = "https://nominatim.openstreetmap.org"
	}
	return Config{
		BaseURL:   base,
		UserAgent: "platemap/1.0",
		Timeout:   10 * time.Second,
	}
}

// searchResult はNominatim searchエンドポイントの1件分のレスポンスです。
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NominatimGeocoder は地名を座標に解決するGeocoder実装です。
// Nominatimの利用規約（1リクエスト/秒）に従いレートリミッターを挟みます。
type NominatimGeocoder struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// NominatimGeocoderがGeocoderを実装していることをコンパイル時に検証します。
var _ usecase.Geocoder = (*NominatimGeocoder)(nil)

// NewNominatimGeocoder は指定された設定とHTTPクライアントでNominatimGeocoderの新しいインスタンスを生成します。
// limiter がnilの場合は1リクエスト/秒のリミッターを使用します。
func NewNominatimGeocoder(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *NominatimGeocoder {
	if limiter == nil {
		limiter = ratelimiter.NewRateLimiter(1, time.Second)
	}
	return &NominatimGeocoder{cfg: cfg, client: client, limiter: limiter}
}

// Geocode は地名文字列を緯度・経度に解決します。
// 該当する場所がない場合はErrNotFoundを返します。
func (n *NominatimGeocoder) Geocode(ctx context.Context, place string) (entity.Coordinate, error) {
	if place == "" {
		return entity.Coordinate{}, usecase.ErrNotFound
	}

	n.limiter.WaitIfNeeded()

	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")
	u := fmt.Sprintf("%s/search?%s", n.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entity.Coordinate{}, err
	}
	req.Header.Set("User-Agent", n.cfg.UserAgent)

	res, err := n.client.Do(req)
	if err != nil {
		return entity.Coordinate{}, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode != http.StatusOK {
		return entity.Coordinate{}, fmt.Errorf("nominatim http %d", res.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		return entity.Coordinate{}, fmt.Errorf("decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return entity.Coordinate{}, usecase.ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return entity.Coordinate{}, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return entity.Coordinate{}, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}

	return entity.Coordinate{Latitude: lat, Longitude: lon}, nil
}
