package usda

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

func newTestClient(t *testing.T, handler http.HandlerFunc) *USDAClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := Config{APIKey: "test-key", BaseURL: srv.URL, Timeout: 2 * time.Second}
	return NewUSDAClient(cfg, srv.Client())
}

func TestUSDAClient_Search(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success: nutrients matched by name regardless of order", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Pizza", r.URL.Query().Get("query"))
			assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
			// 並び順をあえてシャッフルしたレスポンス
			_, _ = w.Write([]byte(`{"foods":[{"description":"Pizza, cheese","foodNutrients":[
				{"nutrientName":"Carbohydrate, by difference","value":33.0,"unitName":"G"},
				{"nutrientName":"Energy","value":266.0,"unitName":"KCAL"},
				{"nutrientName":"Total lipid (fat)","value":9.7,"unitName":"G"},
				{"nutrientName":"Protein","value":11.4,"unitName":"G"}
			]}]}`))
		})

		record, err := c.Search(ctx, "Pizza")

		require.NoError(t, err)
		assert.True(t, record.Found)
		assert.InDelta(t, 266.0, record.Calories.Value, 0.001)
		assert.InDelta(t, 11.4, record.Protein.Value, 0.001)
		assert.InDelta(t, 9.7, record.Fat.Value, 0.001)
		assert.InDelta(t, 33.0, record.Carbs.Value, 0.001)
	})

	t.Run("success: missing nutrients stay unavailable", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			// 4項目未満でもインデックスエラーにならない
			_, _ = w.Write([]byte(`{"foods":[{"description":"Odd food","foodNutrients":[
				{"nutrientName":"Energy","value":100.0,"unitName":"KCAL"}
			]}]}`))
		})

		record, err := c.Search(ctx, "Odd food")

		require.NoError(t, err)
		assert.True(t, record.Found)
		assert.True(t, record.Calories.Available)
		assert.False(t, record.Protein.Available)
		assert.False(t, record.Fat.Available)
		assert.False(t, record.Carbs.Available)
	})

	t.Run("error: no foods maps to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"foods":[]}`))
		})

		_, err := c.Search(ctx, "Xyzzyfood123")

		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})

	t.Run("error: client error is not retried", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusForbidden)
		})

		_, err := c.Search(ctx, "Pizza")

		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retry: transient 502 then success", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"foods":[{"description":"Sushi","foodNutrients":[
				{"nutrientName":"Energy","value":150.0,"unitName":"KCAL"}
			]}]}`))
		})

		record, err := c.Search(ctx, "Sushi")

		require.NoError(t, err)
		assert.True(t, record.Found)
		assert.Equal(t, 2, attempts)
	})
}
