package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, 0.7, cfg.Matching.SimilarityThreshold)
	assert.True(t, cfg.Matching.RequireBrandMatch)
	assert.Equal(t, 0.1, cfg.Matching.WeightTolerance)
	assert.Equal(t, "processed", cfg.Pipeline.ExportPrefix)
	assert.Equal(t, "none", cfg.Store.Driver)
	assert.Equal(t, 10.0, cfg.RateLimit.PerIP)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PRICELENS_SERVER_PORT", "9090")
	t.Setenv("PRICELENS_MATCHING_SIMILARITY_THRESHOLD", "0.85")
	t.Setenv("PRICELENS_STORE_DRIVER", "sqlite")
	t.Setenv("PRICELENS_STORE_DSN", "runs.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 0.85, cfg.Matching.SimilarityThreshold)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "runs.db", cfg.Store.DSN)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		env   map[string]string
		match string
	}{
		{
			name:  "threshold above one",
			env:   map[string]string{"PRICELENS_MATCHING_SIMILARITY_THRESHOLD": "1.5"},
			match: "similarity_threshold",
		},
		{
			name:  "negative threshold",
			env:   map[string]string{"PRICELENS_MATCHING_SIMILARITY_THRESHOLD": "-0.1"},
			match: "similarity_threshold",
		},
		{
			name:  "zero weight tolerance",
			env:   map[string]string{"PRICELENS_MATCHING_WEIGHT_TOLERANCE": "0"},
			match: "weight_tolerance",
		},
		{
			name:  "unknown store driver",
			env:   map[string]string{"PRICELENS_STORE_DRIVER": "postgres"},
			match: "store driver",
		},
		{
			name:  "non-positive rate limit",
			env:   map[string]string{"PRICELENS_RATELIMIT_PER_IP": "0"},
			match: "ratelimit",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.match)
		})
	}
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "loud", Format: "console"})
	assert.Error(t, err)
}
