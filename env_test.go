package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DISCORD_BOT_TOKEN", "token")

		e, err := parseEnv()
		require.NoError(t, err)

		assert.Equal(t, "token", e.Token)
		assert.False(t, e.IsProd)
		assert.Empty(t, e.ServerID)
		assert.Equal(t, "https://api.chess.com", e.APIURL)
		assert.Equal(t, "chess-stats-bot", e.UserAgent)
		assert.Equal(t, 2*time.Second, e.FetchTimeout)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DISCORD_BOT_TOKEN", "token")
		t.Setenv("PROD", "true")
		t.Setenv("SERVER_ID", "1387198610935906305")
		t.Setenv("FETCH_TIMEOUT", "1s")

		e, err := parseEnv()
		require.NoError(t, err)

		assert.True(t, e.IsProd)
		assert.Equal(t, "1387198610935906305", e.ServerID)
		assert.Equal(t, time.Second, e.FetchTimeout)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Setenv("DISCORD_BOT_TOKEN", "")

		_, err := parseEnv()
		assert.Error(t, err)
	})

	t.Run("invalid timeout", func(t *testing.T) {
		t.Setenv("DISCORD_BOT_TOKEN", "token")
		t.Setenv("FETCH_TIMEOUT", "soon")

		_, err := parseEnv()
		assert.Error(t, err)
	})
}
