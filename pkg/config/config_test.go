package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saikojosh/Foval/pkg/config"
)

func TestLoad(t *testing.T) {
	type serverConfig struct {
		Addr  string `env:"TEST_CFG_ADDR" envDefault:":8080"`
		Debug bool   `env:"TEST_CFG_DEBUG" envDefault:"false"`
	}

	t.Run("applies defaults when env is unset", func(t *testing.T) {
		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":8080", cfg.Addr)
		assert.False(t, cfg.Debug)
	})

	t.Run("reads values from the environment", func(t *testing.T) {
		t.Setenv("TEST_CFG_ADDR", ":9999")
		t.Setenv("TEST_CFG_DEBUG", "true")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":9999", cfg.Addr)
		assert.True(t, cfg.Debug)
	})

	t.Run("rejects a nil destination", func(t *testing.T) {
		var cfg *serverConfig
		err := config.Load(cfg)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("reports unparseable values", func(t *testing.T) {
		t.Setenv("TEST_CFG_DEBUG", "not-a-bool")

		var cfg serverConfig
		assert.Error(t, config.Load(&cfg))
	})
}
