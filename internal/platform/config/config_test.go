package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("success: defaults", func(t *testing.T) {
		t.Setenv("USDA_API_KEY", "test-key")
		t.Setenv("PORT", "")
		t.Setenv("SCRATCH_DIR", "")
		t.Setenv("MAX_IMAGE_WIDTH", "")
		t.Setenv("ARTIFACT_TTL", "")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 1280, cfg.MaxImageWidth)
		assert.Equal(t, time.Hour, cfg.ArtifactTTL)
	})

	t.Run("success: overrides from environment", func(t *testing.T) {
		t.Setenv("USDA_API_KEY", "test-key")
		t.Setenv("PORT", "9090")
		t.Setenv("SCRATCH_DIR", "/tmp/plates")
		t.Setenv("MAX_IMAGE_WIDTH", "640")
		t.Setenv("ARTIFACT_TTL", "30m")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "/tmp/plates", cfg.ScratchDir)
		assert.Equal(t, 640, cfg.MaxImageWidth)
		assert.Equal(t, 30*time.Minute, cfg.ArtifactTTL)
	})

	t.Run("error: missing USDA_API_KEY", func(t *testing.T) {
		t.Setenv("USDA_API_KEY", "")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "USDA_API_KEY")
	})

	t.Run("error: invalid MAX_IMAGE_WIDTH", func(t *testing.T) {
		t.Setenv("USDA_API_KEY", "test-key")
		t.Setenv("MAX_IMAGE_WIDTH", "wide")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("error: invalid ARTIFACT_TTL", func(t *testing.T) {
		t.Setenv("USDA_API_KEY", "test-key")
		t.Setenv("MAX_IMAGE_WIDTH", "")
		t.Setenv("ARTIFACT_TTL", "soon")

		_, err := Load()
		assert.Error(t, err)
	})
}
