// Package config handles runtime configuration: development defaults
// overlaid with environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the blog server.
type Config struct {
	Addr             string
	DatabaseURL      string
	SessionSecret    string
	SessionLifetime  time.Duration
	BcryptCost       int
	AllowRepeatVotes bool
}

// LoadDefaults populates Config with development defaults.
// SessionSecret must be overridden outside local development.
func (c *Config) LoadDefaults() {
	c.Addr = ":3001"
	c.DatabaseURL = "techblog.db"
	c.SessionSecret = "dev-session-secret"
	c.SessionLifetime = 24 * time.Hour
	c.BcryptCost = bcrypt.DefaultCost
	c.AllowRepeatVotes = false
}

// Load builds a Config from defaults overlaid with environment variables:
// PORT, DATABASE_URL, SESSION_SECRET, SESSION_LIFETIME, BCRYPT_COST and
// ALLOW_REPEAT_VOTES.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.parseEnv()
	return cfg
}

func (c *Config) parseEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Addr = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.SessionSecret = v
	}
	if v := os.Getenv("SESSION_LIFETIME"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.SessionLifetime = d
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= bcrypt.MinCost && n <= bcrypt.MaxCost {
			c.BcryptCost = n
		}
	}
	if v := os.Getenv("ALLOW_REPEAT_VOTES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AllowRepeatVotes = b
		}
	}
}
