// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

type Config struct {
	AutoCaptainPickDelayMs       int     `env:"AUTO_CAPTAIN_PICK_DELAY_MS"       envDefault:"30000" envDocs:"delay in ms between a pug filling and automatic captain selection"`
	StrongPlayerRatingThreshold  float64 `env:"STRONG_PLAYER_RATING_THRESHOLD"   envDefault:"3.75"  envDocs:"rating at or below which a player counts as strong (lower rating means earlier pick)"`
	CaptainPoolFraction          float64 `env:"CAPTAIN_POOL_FRACTION"            envDefault:"0.6"   envDocs:"fraction of the shuffled non-captain players kept as captain candidates"`
	CaptainPoolMaxSize           int     `env:"CAPTAIN_POOL_MAX_SIZE"            envDefault:"20"    envDocs:"hard cap on the candidate pool fed into the captain combination search"`
	TagMaxLength                 int     `env:"TAG_MAX_LENGTH"                   envDefault:"50"    envDocs:"maximum length of a player tag"`
	DisableCaptainPoolRandomness bool    `env:"DISABLE_CAPTAIN_POOL_RANDOMNESS"  envDefault:"false" envDocs:"skip shuffling the candidate pool, useful for deterministic tests"`
}

// Load reads configuration from the environment, honoring a local .env file
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AutoCaptainPickDelay returns the configured delay as a duration.
func (c *Config) AutoCaptainPickDelay() time.Duration {
	return time.Duration(c.AutoCaptainPickDelayMs) * time.Millisecond
}
