package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platemap_backend/internal/feature/enrichment/usecase"
)

// noopLimiter はテスト用の待機しないリミッターです。
type noopLimiter struct{}

func (noopLimiter) WaitIfNeeded() {}

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *NominatimGeocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := Config{BaseURL: srv.URL, UserAgent: "platemap-test", Timeout: 2 * time.Second}
	return NewNominatimGeocoder(cfg, srv.Client(), noopLimiter{})
}

func TestNominatimGeocoder_Geocode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success: coordinates parsed", func(t *testing.T) {
		t.Parallel()

		g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Naples", r.URL.Query().Get("q"))
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`[{"lat":"40.8518","lon":"14.2681"}]`))
		})

		loc, err := g.Geocode(ctx, "Naples")

		require.NoError(t, err)
		assert.InDelta(t, 40.8518, loc.Latitude, 0.0001)
		assert.InDelta(t, 14.2681, loc.Longitude, 0.0001)
	})

	t.Run("error: empty result maps to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		_, err := g.Geocode(ctx, "Xyzzyplace123")

		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})

	t.Run("error: empty place short-circuits without a request", func(t *testing.T) {
		t.Parallel()

		called := false
		g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := g.Geocode(ctx, "")

		assert.ErrorIs(t, err, usecase.ErrNotFound)
		assert.False(t, called)
	})

	t.Run("error: http failure", func(t *testing.T) {
		t.Parallel()

		g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := g.Geocode(ctx, "Naples")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("error: malformed coordinate strings", func(t *testing.T) {
		t.Parallel()

		g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"lat":"not-a-number","lon":"14.2681"}]`))
		})

		_, err := g.Geocode(ctx, "Naples")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse latitude")
	})
}
