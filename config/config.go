// Package config loads service settings from defaults, an optional
// config/.env.<env> file and environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Env         string
	Debug       bool
	Addr        string
	DatabaseURL string
	RedisAddr   string
	CacheTTL    time.Duration
	RateLimit   int
	RateWindow  time.Duration
	BodyLimit   string
}

// Load reads the configuration for the environment named by $ENV (DEV when
// unset). Variables are looked up with the environment as prefix, e.g.
// PROD_ADDR or DEV_REDISADDR.
func Load() (*Config, error) {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("addr", ":5000")
	v.SetDefault("databaseURL", "")
	v.SetDefault("redisAddr", "")
	v.SetDefault("cacheTTL", 10*time.Minute)
	v.SetDefault("rateLimit", 100)
	v.SetDefault("rateWindow", 15*time.Minute)
	v.SetDefault("bodyLimit", "10K")
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "config.godotenv(%s)", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "config.os.Stat(%s)", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:         env,
		Debug:       v.GetBool("debug"),
		Addr:        v.GetString("addr"),
		DatabaseURL: v.GetString("databaseURL"),
		RedisAddr:   v.GetString("redisAddr"),
		CacheTTL:    v.GetDuration("cacheTTL"),
		RateLimit:   v.GetInt("rateLimit"),
		RateWindow:  v.GetDuration("rateWindow"),
		BodyLimit:   v.GetString("bodyLimit"),
	}
	if conf.RateLimit <= 0 {
		return nil, errors.Errorf("config: rateLimit must be positive, got %d", conf.RateLimit)
	}
	return conf, nil
}
