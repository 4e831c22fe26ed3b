package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, ":3001", cfg.Addr)
	assert.Equal(t, "techblog.db", cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.False(t, cfg.AllowRepeatVotes)
}

func TestEnvOverlay(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "/tmp/blog.db")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_LIFETIME", "1h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("ALLOW_REPEAT_VOTES", "true")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "/tmp/blog.db", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.Equal(t, time.Hour, cfg.SessionLifetime)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.AllowRepeatVotes)
}

func TestEnvOverlayIgnoresBadValues(t *testing.T) {
	t.Setenv("SESSION_LIFETIME", "not-a-duration")
	t.Setenv("BCRYPT_COST", "99")

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, 10, cfg.BcryptCost)
}
