package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalhub/agentkit/pkg/config"
)

type testConfig struct {
	Name     string        `env:"TEST_CFG_NAME" envDefault:"fallback"`
	Duration time.Duration `env:"TEST_CFG_DURATION" envDefault:"1h"`
	Count    int           `env:"TEST_CFG_COUNT" envDefault:"3"`
}

type requiredConfig struct {
	Secret string `env:"TEST_CFG_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "fallback", cfg.Name)
		assert.Equal(t, time.Hour, cfg.Duration)
		assert.Equal(t, 3, cfg.Count)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("TEST_CFG_NAME", "diet")
		t.Setenv("TEST_CFG_DURATION", "24h")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "diet", cfg.Name)
		assert.Equal(t, 24*time.Hour, cfg.Duration)
	})

	t.Run("missing required variable", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on failure", func(t *testing.T) {
		assert.Panics(t, func() {
			var cfg requiredConfig
			config.MustLoad(&cfg)
		})
	})

	t.Run("succeeds with defaults", func(t *testing.T) {
		assert.NotPanics(t, func() {
			var cfg testConfig
			config.MustLoad(&cfg)
		})
	})
}
