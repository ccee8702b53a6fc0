package config

import (
	"testing"
	"time"

	"github.com/tj/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, env := range []string{"PORT", "ROOM_TTL", "SWEEP_INTERVAL", "KEY_LENGTH", "KEY_STYLE", "HIDE_KEYS", "ALLOWED_ORIGINS", "TURN_SERVER"} {
			t.Setenv(env, "")
		}

		cfg, err := Load(Options{})
		assert.NoError(t, err)
		assert.Equal(t, 5000, cfg.Port)
		assert.Equal(t, 10*time.Minute, cfg.RoomTTL)
		assert.Equal(t, 60*time.Second, cfg.SweepInterval)
		assert.Equal(t, 4, cfg.KeyLength)
		assert.Equal(t, KeyStyleAlnum, cfg.KeyStyle)
		assert.False(t, cfg.HideKeys)
		assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
		assert.Equal(t, ":5000", cfg.ListenAddr())
		assert.Nil(t, cfg.GetTURNServers())
	})

	t.Run("env overrides defaults", func(t *testing.T) {
		t.Setenv("PORT", "7000")
		t.Setenv("ROOM_TTL", "5m")
		t.Setenv("SWEEP_INTERVAL", "15")
		t.Setenv("KEY_STYLE", "WORDS")
		t.Setenv("HIDE_KEYS", "true")
		t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

		cfg, err := Load(Options{})
		assert.NoError(t, err)
		assert.Equal(t, 7000, cfg.Port)
		assert.Equal(t, 5*time.Minute, cfg.RoomTTL)
		assert.Equal(t, 15*time.Second, cfg.SweepInterval)
		assert.Equal(t, KeyStyleWords, cfg.KeyStyle)
		assert.True(t, cfg.HideKeys)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("PORT", "7000")
		t.Setenv("KEY_LENGTH", "6")

		cfg, err := Load(Options{Port: 9000, KeyLength: 8})
		assert.NoError(t, err)
		assert.Equal(t, 9000, cfg.Port)
		assert.Equal(t, 8, cfg.KeyLength)
	})

	t.Run("turn servers", func(t *testing.T) {
		cfg, err := Load(Options{TURNServer: "turn:relay.example", TURNUser: "u", TURNPass: "p"})
		assert.NoError(t, err)
		assert.Len(t, cfg.GetTURNServers(), 2)
		user, pass := cfg.GetTURNCredentials()
		assert.Equal(t, "u", user)
		assert.Equal(t, "p", pass)
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Setenv("PORT", "not-a-port")
		_, err := Load(Options{})
		assert.Error(t, err)

		t.Setenv("PORT", "")
		_, err = Load(Options{KeyStyle: "emoji"})
		assert.Error(t, err)

		_, err = Load(Options{Port: 70000})
		assert.Error(t, err)

		t.Setenv("ROOM_TTL", "soon")
		_, err = Load(Options{})
		assert.Error(t, err)
	})
}
